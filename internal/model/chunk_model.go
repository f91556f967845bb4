package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type Chunk struct {
	Id         uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId uuid.UUID        `gorm:"type:uuid;not null;index"`
	ChunkText  string           `gorm:"type:text;not null"`
	TokenCount int              `gorm:"not null"`
	Metadata   datatypes.JSON   `gorm:"type:jsonb"`
	Embedding  *pgvector.Vector `gorm:"type:vector(768)"` // NULL until the embed job writes it
	CreatedAt  time.Time        `gorm:"autoCreateTime;index"`
}

func (Chunk) TableName() string {
	return "chunks"
}
