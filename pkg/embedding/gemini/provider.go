package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quizbank-be/pkg/embedding"
	"quizbank-be/pkg/llm"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	taskTypeDocument = "RETRIEVAL_DOCUMENT"
	taskTypeQuery    = "RETRIEVAL_QUERY"
)

type GeminiProvider struct {
	apiKey    string
	baseURL   string
	modelName string
	outputDim int
	client    *http.Client
}

var _ embedding.Provider = &GeminiProvider{}

// NewGeminiProvider creates a provider for the Gemini embedding API.
// outputDim 0 keeps the model's native dimensionality.
func NewGeminiProvider(apiKey, modelName string, outputDim int) *GeminiProvider {
	return &GeminiProvider{
		apiKey:    apiKey,
		baseURL:   defaultBaseURL,
		modelName: modelName,
		outputDim: outputDim,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type embedPart struct {
	Text string `json:"text"`
}

type embedContent struct {
	Parts []embedPart `json:"parts"`
}

type embedRequest struct {
	Model                string       `json:"model"`
	Content              embedContent `json:"content"`
	TaskType             string       `json:"taskType,omitempty"`
	OutputDimensionality int          `json:"outputDimensionality,omitempty"`
}

type batchEmbedRequest struct {
	Requests []embedRequest `json:"requests"`
}

type embeddingValues struct {
	Values []float32 `json:"values"`
}

type batchEmbedResponse struct {
	Embeddings []embeddingValues `json:"embeddings"`
}

type embedResponse struct {
	Embedding embeddingValues `json:"embedding"`
}

// --- Interface Implementation ---

func (p *GeminiProvider) EmbedDocuments(ctx context.Context, texts []string) (*embedding.BatchResult, error) {
	cleaned, err := cleanTexts(texts)
	if err != nil {
		return nil, err
	}

	reqPayload := batchEmbedRequest{}
	for _, t := range cleaned {
		reqPayload.Requests = append(reqPayload.Requests, embedRequest{
			Model:                "models/" + p.modelName,
			Content:              embedContent{Parts: []embedPart{{Text: t}}},
			TaskType:             taskTypeDocument,
			OutputDimensionality: p.outputDim,
		})
	}

	var result *embedding.BatchResult
	err = llm.WithRetry(ctx, llm.DefaultRetries, func() error {
		url := fmt.Sprintf("%s/models/%s:batchEmbedContents?key=%s", p.baseURL, p.modelName, p.apiKey)
		body, err := p.post(ctx, url, reqPayload)
		if err != nil {
			return err
		}

		var resp batchEmbedResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}

		if len(resp.Embeddings) != len(cleaned) {
			return fmt.Errorf("embedding count mismatch: expected=%d got=%d", len(cleaned), len(resp.Embeddings))
		}

		vectors := make([][]float32, len(resp.Embeddings))
		dim := 0
		for i, e := range resp.Embeddings {
			vectors[i] = e.Values
			dim = len(e.Values)
		}

		result = &embedding.BatchResult{Vectors: vectors, Model: p.modelName, Dim: dim}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (p *GeminiProvider) EmbedQuery(ctx context.Context, text string) (*embedding.QueryResult, error) {
	cleaned, err := cleanTexts([]string{text})
	if err != nil {
		return nil, err
	}

	reqPayload := embedRequest{
		Model:                "models/" + p.modelName,
		Content:              embedContent{Parts: []embedPart{{Text: cleaned[0]}}},
		TaskType:             taskTypeQuery,
		OutputDimensionality: p.outputDim,
	}

	var result *embedding.QueryResult
	err = llm.WithRetry(ctx, llm.DefaultRetries, func() error {
		url := fmt.Sprintf("%s/models/%s:embedContent?key=%s", p.baseURL, p.modelName, p.apiKey)
		body, err := p.post(ctx, url, reqPayload)
		if err != nil {
			return err
		}

		var resp embedResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
		if len(resp.Embedding.Values) == 0 {
			return fmt.Errorf("empty embedding from api")
		}

		result = &embedding.QueryResult{
			Vector: resp.Embedding.Values,
			Model:  p.modelName,
			Dim:    len(resp.Embedding.Values),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (p *GeminiProvider) post(ctx context.Context, url string, payload interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, llm.ParseAPIError(resp.StatusCode, bodyBytes)
	}

	return bodyBytes, nil
}

func cleanTexts(texts []string) ([]string, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("texts must be a non-empty slice")
	}
	cleaned := make([]string, len(texts))
	for i, t := range texts {
		v := strings.TrimSpace(t)
		if v == "" {
			return nil, fmt.Errorf("texts[%d] is empty", i)
		}
		cleaned[i] = v
	}
	return cleaned, nil
}
