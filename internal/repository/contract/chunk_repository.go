package contract

import (
	"context"

	"quizbank-be/internal/entity"
	"quizbank-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.Chunk) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// UpdateEmbedding writes the vector and its provenance metadata onto one
	// chunk. Called once per chunk so partial batches survive a crash.
	UpdateEmbedding(ctx context.Context, id uuid.UUID, vector []float32, meta entity.ChunkMetadata) error
}
