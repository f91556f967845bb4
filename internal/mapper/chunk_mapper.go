package mapper

import (
	"quizbank-be/internal/entity"
	"quizbank-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ChunkMapper struct{}

func NewChunkMapper() *ChunkMapper {
	return &ChunkMapper{}
}

func (m *ChunkMapper) ToEntity(e *model.Chunk) *entity.Chunk {
	if e == nil {
		return nil
	}

	var meta entity.ChunkMetadata
	unmarshalJSON(e.Metadata, &meta)

	var embedding []float32
	if e.Embedding != nil {
		embedding = e.Embedding.Slice()
	}

	return &entity.Chunk{
		Id:         e.Id,
		DocumentId: e.DocumentId,
		ChunkText:  e.ChunkText,
		TokenCount: e.TokenCount,
		Metadata:   meta,
		Embedding:  embedding,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *ChunkMapper) ToModel(e *entity.Chunk) *model.Chunk {
	if e == nil {
		return nil
	}

	var embedding *pgvector.Vector
	if len(e.Embedding) > 0 {
		v := pgvector.NewVector(e.Embedding)
		embedding = &v
	}

	return &model.Chunk{
		Id:         e.Id,
		DocumentId: e.DocumentId,
		ChunkText:  e.ChunkText,
		TokenCount: e.TokenCount,
		Metadata:   marshalJSON(e.Metadata),
		Embedding:  embedding,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *ChunkMapper) ToEntities(chunks []*model.Chunk) []*entity.Chunk {
	entities := make([]*entity.Chunk, len(chunks))
	for i, e := range chunks {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func (m *ChunkMapper) ToModels(chunks []*entity.Chunk) []*model.Chunk {
	models := make([]*model.Chunk, len(chunks))
	for i, e := range chunks {
		models[i] = m.ToModel(e)
	}
	return models
}
