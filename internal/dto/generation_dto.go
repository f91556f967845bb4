package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartRunRequest struct {
	BlueprintId uuid.UUID `json:"blueprint_id" validate:"required"`
}

type StartRunResponse struct {
	RunId      uuid.UUID `json:"run_id"`
	Status     string    `json:"status"`
	TotalItems int       `json:"total_items"`
	Batches    int       `json:"batches"`
}

type ShowRunResponse struct {
	Id          uuid.UUID `json:"id"`
	BlueprintId uuid.UUID `json:"blueprint_id"`
	Status      string    `json:"status"`
	TotalItems  int       `json:"total_items"`
	DoneItems   int       `json:"done_items"`
	FailedItems int       `json:"failed_items"`
	CreatedAt   time.Time `json:"created_at"`
}

type QuestionResponse struct {
	Id              uuid.UUID   `json:"id"`
	BlueprintItemId uuid.UUID   `json:"blueprint_item_id"`
	Type            string      `json:"type"`
	Stem            string      `json:"stem"`
	Options         []string    `json:"options,omitempty"`
	AnswerKey       string      `json:"answer_key,omitempty"`
	Explanation     string      `json:"explanation"`
	ExpectedAnswer  interface{} `json:"expected_answer,omitempty"`
	KeywordGroups   interface{} `json:"keyword_groups,omitempty"`
	Rubric          interface{} `json:"rubric,omitempty"`
	Model           string      `json:"model,omitempty"`
}

type RunQuestionsResponse struct {
	RunId     uuid.UUID          `json:"run_id"`
	Questions []QuestionResponse `json:"questions"`
}
