package entity

import (
	"time"

	"github.com/google/uuid"
)

type QuestionType string

const (
	QuestionMCQ   QuestionType = "MCQ"
	QuestionEssay QuestionType = "ESSAY"
)

type CognitiveLevel string

const (
	CognitiveLOTS CognitiveLevel = "LOTS"
	CognitiveMOTS CognitiveLevel = "MOTS"
	CognitiveHOTS CognitiveLevel = "HOTS"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

type CognitiveSpread struct {
	LOTS int `json:"LOTS"`
	MOTS int `json:"MOTS"`
	HOTS int `json:"HOTS"`
}

func (s CognitiveSpread) Sum() int { return s.LOTS + s.MOTS + s.HOTS }

type DifficultySpread struct {
	Easy   int `json:"EASY"`
	Medium int `json:"MEDIUM"`
	Hard   int `json:"HARD"`
}

func (s DifficultySpread) Sum() int { return s.Easy + s.Medium + s.Hard }

// BlueprintConfig pins down how many questions of each shape a blueprint
// produces. The marginal counts must each sum to Total.
type BlueprintConfig struct {
	Total       int              `json:"total"`
	McqCount    int              `json:"mcqCount"`
	EssayCount  int              `json:"essayCount"`
	Cognitive   CognitiveSpread  `json:"cognitive"`
	Difficulty  DifficultySpread `json:"difficulty"`
	TopKContext int              `json:"topKContext"`
}

type Blueprint struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocumentId uuid.UUID `gorm:"type:uuid;index"`
	Title      string
	Config     BlueprintConfig
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// BlueprintItem is one planned question slot. No is 1-based and unique per
// blueprint; rebuilds delete and regenerate the whole set.
type BlueprintItem struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	BlueprintId    uuid.UUID `gorm:"type:uuid;index"`
	No             int
	Type           QuestionType
	Cognitive      CognitiveLevel
	Difficulty     Difficulty
	Objective      string
	SourceChunkIds []uuid.UUID
	CreatedAt      time.Time
}
