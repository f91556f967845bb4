package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type GenerationRun struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BlueprintId uuid.UUID `gorm:"type:uuid;not null;index"`
	Status      string    `gorm:"type:varchar(16);not null;default:'QUEUED'"`
	TotalItems  int       `gorm:"not null"`
	DoneItems   int       `gorm:"not null;default:0"`
	FailedItems int       `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (GenerationRun) TableName() string {
	return "generation_runs"
}

type Question struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RunId           uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_questions_run_item"`
	BlueprintItemId uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_questions_run_item"`
	Type            string         `gorm:"type:varchar(8);not null"`
	Stem            string         `gorm:"type:text;not null"`
	Options         datatypes.JSON `gorm:"type:jsonb"`
	AnswerKey       string         `gorm:"type:varchar(4)"`
	Explanation     string         `gorm:"type:text"`
	ExpectedAnswer  datatypes.JSON `gorm:"type:jsonb"`
	KeywordGroups   datatypes.JSON `gorm:"type:jsonb"`
	Rubric          datatypes.JSON `gorm:"type:jsonb"`
	SourceChunkIds  datatypes.JSON `gorm:"type:jsonb"`
	Model           string         `gorm:"type:text"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
}

func (Question) TableName() string {
	return "questions"
}
