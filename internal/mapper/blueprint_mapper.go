package mapper

import (
	"time"

	"github.com/google/uuid"

	"quizbank-be/internal/entity"
	"quizbank-be/internal/model"
)

type BlueprintMapper struct{}

func NewBlueprintMapper() *BlueprintMapper {
	return &BlueprintMapper{}
}

func (m *BlueprintMapper) ToEntity(e *model.Blueprint) *entity.Blueprint {
	if e == nil {
		return nil
	}

	var cfg entity.BlueprintConfig
	unmarshalJSON(e.Config, &cfg)

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.Blueprint{
		Id:         e.Id,
		DocumentId: e.DocumentId,
		Title:      e.Title,
		Config:     cfg,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *BlueprintMapper) ToModel(e *entity.Blueprint) *model.Blueprint {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.Blueprint{
		Id:         e.Id,
		DocumentId: e.DocumentId,
		Title:      e.Title,
		Config:     marshalJSON(e.Config),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

type BlueprintItemMapper struct{}

func NewBlueprintItemMapper() *BlueprintItemMapper {
	return &BlueprintItemMapper{}
}

func (m *BlueprintItemMapper) ToEntity(e *model.BlueprintItem) *entity.BlueprintItem {
	if e == nil {
		return nil
	}

	var sourceChunkIds []uuid.UUID
	unmarshalJSON(e.SourceChunkIds, &sourceChunkIds)

	return &entity.BlueprintItem{
		Id:             e.Id,
		BlueprintId:    e.BlueprintId,
		No:             e.No,
		Type:           entity.QuestionType(e.Type),
		Cognitive:      entity.CognitiveLevel(e.Cognitive),
		Difficulty:     entity.Difficulty(e.Difficulty),
		Objective:      e.Objective,
		SourceChunkIds: sourceChunkIds,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *BlueprintItemMapper) ToModel(e *entity.BlueprintItem) *model.BlueprintItem {
	if e == nil {
		return nil
	}

	out := &model.BlueprintItem{
		Id:          e.Id,
		BlueprintId: e.BlueprintId,
		No:          e.No,
		Type:        string(e.Type),
		Cognitive:   string(e.Cognitive),
		Difficulty:  string(e.Difficulty),
		Objective:   e.Objective,
		CreatedAt:   e.CreatedAt,
	}
	if len(e.SourceChunkIds) > 0 {
		out.SourceChunkIds = marshalJSON(e.SourceChunkIds)
	}
	return out
}

func (m *BlueprintItemMapper) ToEntities(items []*model.BlueprintItem) []*entity.BlueprintItem {
	entities := make([]*entity.BlueprintItem, len(items))
	for i, e := range items {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func (m *BlueprintItemMapper) ToModels(items []*entity.BlueprintItem) []*model.BlueprintItem {
	models := make([]*model.BlueprintItem, len(items))
	for i, e := range items {
		models[i] = m.ToModel(e)
	}
	return models
}
