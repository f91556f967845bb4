package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByDocumentId filters rows belonging to one document
type ByDocumentId struct {
	DocumentId uuid.UUID
}

func (s ByDocumentId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentId)
}

// ByBlueprintId filters rows belonging to one blueprint
type ByBlueprintId struct {
	BlueprintId uuid.UUID
}

func (s ByBlueprintId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("blueprint_id = ?", s.BlueprintId)
}

// ByRunId filters rows belonging to one generation run
type ByRunId struct {
	RunId uuid.UUID
}

func (s ByRunId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("run_id = ?", s.RunId)
}

// MissingEmbedding selects chunks the embed job still has to process.
// This query is the resumption checkpoint; no cursor state exists elsewhere.
type MissingEmbedding struct{}

func (s MissingEmbedding) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embedding IS NULL")
}

// HasEmbedding selects chunks that finished indexing
type HasEmbedding struct{}

func (s HasEmbedding) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embedding IS NOT NULL")
}
