package contract

import (
	"context"

	"quizbank-be/internal/entity"
	"quizbank-be/internal/repository/specification"

	"github.com/google/uuid"
)

type GenerationRunRepository interface {
	Create(ctx context.Context, run *entity.GenerationRun) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.RunStatus) error
	// IncrementDone / IncrementFailed are single-statement counter updates so
	// concurrent batch workers never lose an increment.
	IncrementDone(ctx context.Context, id uuid.UUID, n int) error
	IncrementFailed(ctx context.Context, id uuid.UUID, n int) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GenerationRun, error)
}
