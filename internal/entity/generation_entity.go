package entity

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunQueued    RunStatus = "QUEUED"
	RunRunning   RunStatus = "RUNNING"
	RunCompleted RunStatus = "COMPLETED"
	RunFailed    RunStatus = "FAILED"
)

type GenerationRun struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	BlueprintId uuid.UUID `gorm:"type:uuid;index"`
	Status      RunStatus
	TotalItems  int
	DoneItems   int
	FailedItems int
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Terminal reports whether every item has been accounted for.
func (r *GenerationRun) Terminal() bool {
	return r.DoneItems+r.FailedItems >= r.TotalItems
}

type EssayAnswer struct {
	Ringkas string `json:"ringkas"`
	Panjang string `json:"panjang,omitempty"`
}

type KeywordGroup struct {
	Concept       string   `json:"concept"`
	MustHaveOneOf []string `json:"must_have_one_of"`
}

type RubricCriterion struct {
	Aspect string `json:"aspect"`
	Points int    `json:"points"`
}

// Question is the generated output for one blueprint item within one run.
// MCQ rows fill Options/AnswerKey; ESSAY rows fill ExpectedAnswer,
// KeywordGroups and Rubric. At most one question exists per
// (run, blueprint item) pair.
type Question struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey"`
	RunId           uuid.UUID `gorm:"type:uuid;index"`
	BlueprintItemId uuid.UUID `gorm:"type:uuid;index"`
	Type            QuestionType
	Stem            string
	Options         []string
	AnswerKey       string
	Explanation     string
	ExpectedAnswer  *EssayAnswer
	KeywordGroups   []KeywordGroup
	Rubric          []RubricCriterion
	SourceChunkIds  []uuid.UUID
	Model           string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}
