package model

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title        string    `gorm:"type:text;not null"`
	FileRef      string    `gorm:"type:text"`
	FileType     string    `gorm:"type:varchar(16)"`
	Status       string    `gorm:"type:varchar(16);not null;default:'UPLOADED';index"`
	QualityScore *int
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}

type DocumentPage struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId  uuid.UUID `gorm:"type:uuid;not null;index"`
	PageNo      int       `gorm:"not null"`
	RawText     string    `gorm:"type:text"`
	CleanedText string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (DocumentPage) TableName() string {
	return "document_pages"
}
