package worker

import (
	"fmt"
	"strings"

	"quizbank-be/internal/entity"

	"github.com/google/uuid"
)

// generationTask pairs one blueprint item with the context chunk it was
// deterministically assigned.
type generationTask struct {
	Item    *entity.BlueprintItem
	ChunkId uuid.UUID
	Context string
}

func buildBatchPrompt(tasks []generationTask) string {
	rules := fmt.Sprintf(`Kamu adalah dosen pembuat soal & pembahasan.
WAJIB memakai context per item. Jangan menambah fakta di luar context.
Bahasa: Indonesia.

WAJIB output JSON valid persis format:
{ "results": [ ... ] }
JANGAN tulis teks lain selain JSON (tanpa markdown, tanpa penjelasan).
Jangan gunakan tanda petik ganda " di dalam teks jawaban. Jika perlu, pakai tanda petik tunggal ' atau tanpa tanda petik.

WAJIB: "results" harus berisi tepat %d item.
Setiap item HARUS memiliki "blueprintItemId" yang SAMA persis seperti di TASKS.
Jika kamu tidak yakin membuat semua item, tetap WAJIB buat semua item. Jangan mengurangi jumlah results.

Batas panjang (WAJIB PATUH):
- MCQ: stem <= %d, options <= %d per opsi, explanation <= %d
- ESAI: stem <= %d, expectedAnswer.ringkas <= %d, explanation <= %d
- ESAI: rubric.aspect <= %d

FORMAT WAJIB PER TYPE:

1) MCQ item WAJIB punya field:
{
  "blueprintItemId": "...",
  "type": "MCQ",
  "stem": "...",
  "options": ["A. ...","B. ...","C. ...","D. ...","E. ..."],
  "answerKey": "A|B|C|D|E",
  "explanation": "..."
}

PENTING UNTUK MCQ:
- "options" HARUS ARRAY OF STRING (bukan object).
- Opsi harus jawaban pendek & spesifik (JANGAN "Peserta didik dapat ...")
- Tepat 1 jawaban benar.
- Jangan tulis label terpisah (jangan pakai {label,text}). Cukup string yang diawali "A. ", "B. ", dst.
- "answerKey" HARUS salah satu dari: "A","B","C","D","E" (tanpa titik, tanpa kata lain).
- "explanation" WAJIB selalu ada, meski ringkas.

2) ESSAY item WAJIB punya field:
{
  "blueprintItemId": "...",
  "type": "ESSAY",
  "stem": "...",
  "expectedAnswer": { "ringkas": "..." },
  "keywordGroups": [
    { "concept": "...", "must_have_one_of": ["...","..."] }
  ],
  "rubric": [
    { "aspect": "Ketepatan konsep", "points": 4 }
  ],
  "explanation": "..."
}

ATURAN ISI:
- Gunakan HANYA informasi dari context masing-masing TASK.
- Jangan menyebut "Sumber 1", "chunkId", atau kata "context" dalam output.
- Stem jangan kepanjangan. Langsung to the point.

OUTPUT FINAL HARUS satu JSON object dengan key "results".`,
		len(tasks),
		maxMcqStem, maxMcqOption, maxMcqExplanation,
		maxEssayStem, maxEssayRingkas, maxEssayExplanation,
		maxRubricAspect,
	)

	taskTexts := make([]string, len(tasks))
	for i, t := range tasks {
		taskTexts[i] = strings.TrimSpace(fmt.Sprintf(`TASK %d:
- blueprintItemId: %s
- type: %s
- cognitive: %s
- difficulty: %s
- context (chunkId=%s):
%s`,
			i+1, t.Item.Id, t.Item.Type, t.Item.Cognitive, t.Item.Difficulty, t.ChunkId, t.Context))
	}

	return rules + "\n\nTASKS:\n\n" + strings.Join(taskTexts, "\n\n---\n\n")
}
