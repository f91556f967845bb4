package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploadDocumentResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type IndexDocumentRequest struct {
	Id uuid.UUID
}

type IndexDocumentResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
	Queued string    `json:"queued"` // "parse" or "chunk"
}

type ShowDocumentResponse struct {
	Id           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	FileType     string     `json:"file_type"`
	Status       string     `json:"status"`
	QualityScore *int       `json:"quality_score,omitempty"`
	PageCount    int        `json:"page_count"`
	ChunkCount   int        `json:"chunk_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

type ParseDocumentResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type DocumentPageResponse struct {
	Id          uuid.UUID `json:"id"`
	PageNo      int       `json:"page_no"`
	CleanedText string    `json:"cleaned_text"`
	CreatedAt   time.Time `json:"created_at"`
}

type DocumentChunkResponse struct {
	Id         uuid.UUID `json:"id"`
	ChunkText  string    `json:"chunk_text"`
	TokenCount int       `json:"token_count"`
	PageStart  int       `json:"page_start"`
	PageEnd    int       `json:"page_end"`
	Embedded   bool      `json:"embedded"`
	CreatedAt  time.Time `json:"created_at"`
}

type SearchRequest struct {
	Query string `json:"query" validate:"required,min=2"`
	TopK  int    `json:"top_k" validate:"omitempty,min=1,max=20"`
}

type SearchHit struct {
	ChunkId    uuid.UUID `json:"chunk_id"`
	Snippet    string    `json:"snippet"`
	Similarity float64   `json:"similarity"`
	PageStart  int       `json:"page_start"`
	PageEnd    int       `json:"page_end"`
	TokenCount int       `json:"token_count"`
}

type SearchResponse struct {
	DocumentId uuid.UUID   `json:"document_id"`
	Query      string      `json:"query"`
	Hits       []SearchHit `json:"hits"`
}
