package mapper

import (
	"time"

	"quizbank-be/internal/entity"
	"quizbank-be/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(e *model.Document) *entity.Document {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.Document{
		Id:           e.Id,
		Title:        e.Title,
		FileRef:      e.FileRef,
		FileType:     e.FileType,
		Status:       entity.DocumentStatus(e.Status),
		QualityScore: e.QualityScore,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *DocumentMapper) ToModel(e *entity.Document) *model.Document {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.Document{
		Id:           e.Id,
		Title:        e.Title,
		FileRef:      e.FileRef,
		FileType:     e.FileType,
		Status:       string(e.Status),
		QualityScore: e.QualityScore,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *DocumentMapper) ToEntities(docs []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(docs))
	for i, e := range docs {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

type DocumentPageMapper struct{}

func NewDocumentPageMapper() *DocumentPageMapper {
	return &DocumentPageMapper{}
}

func (m *DocumentPageMapper) ToEntity(e *model.DocumentPage) *entity.DocumentPage {
	if e == nil {
		return nil
	}
	return &entity.DocumentPage{
		Id:          e.Id,
		DocumentId:  e.DocumentId,
		PageNo:      e.PageNo,
		RawText:     e.RawText,
		CleanedText: e.CleanedText,
		CreatedAt:   e.CreatedAt,
	}
}

func (m *DocumentPageMapper) ToModel(e *entity.DocumentPage) *model.DocumentPage {
	if e == nil {
		return nil
	}
	return &model.DocumentPage{
		Id:          e.Id,
		DocumentId:  e.DocumentId,
		PageNo:      e.PageNo,
		RawText:     e.RawText,
		CleanedText: e.CleanedText,
		CreatedAt:   e.CreatedAt,
	}
}

func (m *DocumentPageMapper) ToEntities(pages []*model.DocumentPage) []*entity.DocumentPage {
	entities := make([]*entity.DocumentPage, len(pages))
	for i, e := range pages {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func (m *DocumentPageMapper) ToModels(pages []*entity.DocumentPage) []*model.DocumentPage {
	models := make([]*model.DocumentPage, len(pages))
	for i, e := range pages {
		models[i] = m.ToModel(e)
	}
	return models
}
