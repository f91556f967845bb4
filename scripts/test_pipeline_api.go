package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const (
	baseURL = "http://localhost:3000/api"
)

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // No timeout, generation can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

// Multipart upload helper
func uploadFile(url, title, filename string, content []byte) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("title", title)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, nil, err
	}
	if _, err := fw.Write(content); err != nil {
		return nil, nil, err
	}
	mw.Close()

	req, err := http.NewRequest("POST", baseURL+url, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func dataField(body []byte, key string) string {
	var parsed map[string]interface{}
	json.Unmarshal(body, &parsed)
	if data, ok := parsed["data"].(map[string]interface{}); ok {
		if v, ok := data[key].(string); ok {
			return v
		}
	}
	return ""
}

// Poll a GET endpoint until data.status reaches one of the wanted values.
func waitForStatus(url string, wanted ...string) (string, error) {
	deadline := time.Now().Add(5 * time.Minute)
	for time.Now().Before(deadline) {
		_, body, err := sendRequest("GET", url, nil)
		if err != nil {
			return "", err
		}
		status := dataField(body, "status")
		for _, w := range wanted {
			if status == w {
				return status, nil
			}
		}
		fmt.Printf("  ... status: %s\n", status)
		time.Sleep(3 * time.Second)
	}
	return "", fmt.Errorf("timed out waiting for %v", wanted)
}

func main() {
	color.Cyan("🚀 Starting Question Generation Pipeline API Test\n")

	sample := []byte(`Normalisasi basis data adalah proses dekomposisi relasi untuk mengurangi redundansi dan anomali data. ` +
		`Bentuk normal pertama (1NF) mensyaratkan setiap atribut bernilai atomik. ` +
		`Bentuk normal kedua (2NF) menghilangkan ketergantungan parsial terhadap kunci utama. ` +
		`Bentuk normal ketiga (3NF) menghilangkan ketergantungan transitif antar atribut non-kunci. ` +
		`Transaksi basis data memiliki sifat ACID: atomicity, consistency, isolation, dan durability. ` +
		`Indeks B-tree mempercepat pencarian dengan menjaga data terurut pada struktur pohon seimbang.`)

	// 1. Upload a document
	color.Yellow("\n1. Upload Document")
	resp, body, err := uploadFile("/document/v1", "Materi Basis Data", "materi.txt", sample)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var uploadResp map[string]interface{}
	json.Unmarshal(body, &uploadResp)
	prettyPrint(uploadResp)

	documentID := dataField(body, "id")
	if documentID == "" {
		color.Red("No document id returned")
		os.Exit(1)
	}

	// 2. Request indexing (parse -> chunk -> embed)
	color.Yellow("\n2. Request Indexing")
	resp, body, err = sendRequest("POST", "/document/v1/"+documentID+"/index", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	fmt.Printf("Queued stage: %s\n", dataField(body, "queued"))

	// 3. Wait until the document is indexed
	color.Yellow("\n3. Wait For INDEXED")
	status, err := waitForStatus("/document/v1/"+documentID, "INDEXED", "FAILED")
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if status == "FAILED" {
		color.Red("Document pipeline failed")
		os.Exit(1)
	}
	color.Green("Document status: %s", status)

	// 4. Semantic search over the indexed chunks
	color.Yellow("\n4. Search Document")
	searchReq := map[string]interface{}{
		"query": "apa itu normalisasi basis data",
		"top_k": 3,
	}
	resp, body, err = sendRequest("POST", "/document/v1/"+documentID+"/search", searchReq)
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		var searchResp map[string]interface{}
		json.Unmarshal(body, &searchResp)
		prettyPrint(searchResp)
	}

	// 5. Create a blueprint
	color.Yellow("\n5. Create Blueprint")
	blueprintReq := map[string]interface{}{
		"document_id": documentID,
		"title":       "Ujian Basis Data",
		"total":       6,
		"mcq_count":   4,
		"essay_count": 2,
		"cognitive":   map[string]int{"LOTS": 2, "MOTS": 2, "HOTS": 2},
		"difficulty":  map[string]int{"EASY": 2, "MEDIUM": 2, "HARD": 2},
	}
	resp, body, err = sendRequest("POST", "/blueprint/v1", blueprintReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	blueprintID := dataField(body, "id")
	fmt.Printf("Blueprint ID: %s\n", blueprintID)

	// 6. Build the item plan
	color.Yellow("\n6. Build Blueprint Items")
	resp, body, err = sendRequest("POST", "/blueprint/v1/"+blueprintID+"/items", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var itemsResp map[string]interface{}
	json.Unmarshal(body, &itemsResp)
	prettyPrint(itemsResp)

	// 7. Start a generation run
	color.Yellow("\n7. Start Generation Run")
	runReq := map[string]interface{}{"blueprint_id": blueprintID}
	resp, body, err = sendRequest("POST", "/generation/v1/runs", runReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	runID := dataField(body, "run_id")
	fmt.Printf("Run ID: %s\n", runID)

	// 8. Wait for the run to finish
	color.Yellow("\n8. Wait For Run Completion")
	status, err = waitForStatus("/generation/v1/runs/"+runID, "COMPLETED", "FAILED")
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if status == "FAILED" {
		color.Red("Run finished with failed items")
	} else {
		color.Green("Run status: %s", status)
	}

	// 9. Fetch generated questions
	color.Yellow("\n9. Fetch Generated Questions")
	resp, body, err = sendRequest("GET", "/generation/v1/runs/"+runID+"/questions", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var questionsResp map[string]interface{}
	json.Unmarshal(body, &questionsResp)
	if data, ok := questionsResp["data"].(map[string]interface{}); ok {
		if questions, ok := data["questions"].([]interface{}); ok {
			fmt.Printf("Questions generated: %d\n", len(questions))
			for _, q := range questions {
				if qm, ok := q.(map[string]interface{}); ok {
					fmt.Printf("  [%v] %v\n", qm["type"], qm["stem"])
				}
			}
		}
	} else {
		prettyPrint(questionsResp)
	}

	color.Cyan("\n✅ Test Sequence Complete")
}
