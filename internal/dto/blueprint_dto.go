package dto

import (
	"time"

	"github.com/google/uuid"
)

type CognitiveSpreadRequest struct {
	LOTS int `json:"LOTS" validate:"min=0"`
	MOTS int `json:"MOTS" validate:"min=0"`
	HOTS int `json:"HOTS" validate:"min=0"`
}

type DifficultySpreadRequest struct {
	Easy   int `json:"EASY" validate:"min=0"`
	Medium int `json:"MEDIUM" validate:"min=0"`
	Hard   int `json:"HARD" validate:"min=0"`
}

type CreateBlueprintRequest struct {
	DocumentId  uuid.UUID               `json:"document_id" validate:"required"`
	Title       string                  `json:"title" validate:"required"`
	Total       int                     `json:"total" validate:"required,min=1,max=100"`
	McqCount    int                     `json:"mcq_count" validate:"min=0"`
	EssayCount  int                     `json:"essay_count" validate:"min=0"`
	Cognitive   CognitiveSpreadRequest  `json:"cognitive"`
	Difficulty  DifficultySpreadRequest `json:"difficulty"`
	TopKContext int                     `json:"top_k_context" validate:"omitempty,min=1,max=10"`
}

type CreateBlueprintResponse struct {
	Id uuid.UUID `json:"id"`
}

type BlueprintItemResponse struct {
	Id         uuid.UUID `json:"id"`
	No         int       `json:"no"`
	Type       string    `json:"type"`
	Cognitive  string    `json:"cognitive"`
	Difficulty string    `json:"difficulty"`
	Objective  string    `json:"objective,omitempty"`
}

type ShowBlueprintResponse struct {
	Id         uuid.UUID               `json:"id"`
	DocumentId uuid.UUID               `json:"document_id"`
	Title      string                  `json:"title"`
	Config     interface{}             `json:"config"`
	Items      []BlueprintItemResponse `json:"items"`
	CreatedAt  time.Time               `json:"created_at"`
}

type BuildItemsResponse struct {
	BlueprintId uuid.UUID               `json:"blueprint_id"`
	Items       []BlueprintItemResponse `json:"items"`
}
