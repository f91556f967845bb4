package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentStatus string

const (
	DocumentUploaded DocumentStatus = "UPLOADED"
	DocumentParsing  DocumentStatus = "PARSING"
	DocumentParsed   DocumentStatus = "PARSED"
	DocumentIndexing DocumentStatus = "INDEXING"
	DocumentIndexed  DocumentStatus = "INDEXED"
	DocumentFailed   DocumentStatus = "FAILED"
)

type Document struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title        string
	FileRef      string
	FileType     string
	Status       DocumentStatus
	QualityScore *int
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

type DocumentPage struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocumentId  uuid.UUID `gorm:"type:uuid;index"`
	PageNo      int
	RawText     string
	CleanedText string
	CreatedAt   time.Time
}
