package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChunkMetadata struct {
	PageStart      int    `json:"pageStart"`
	PageEnd        int    `json:"pageEnd"`
	EmbeddingModel string `json:"embeddingModel,omitempty"`
	EmbeddingDim   int    `json:"embeddingDim,omitempty"`
}

// Chunk is one indexable slice of a document. A nil Embedding means the chunk
// has not been embedded yet; creation order is the canonical chunk order.
type Chunk struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocumentId uuid.UUID `gorm:"type:uuid;index"`
	ChunkText  string
	TokenCount int
	Metadata   ChunkMetadata
	Embedding  []float32
	CreatedAt  time.Time
}

func (c *Chunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}
