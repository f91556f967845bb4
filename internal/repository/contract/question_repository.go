package contract

import (
	"context"

	"quizbank-be/internal/entity"
	"quizbank-be/internal/repository/specification"

	"github.com/google/uuid"
)

type QuestionRepository interface {
	Create(ctx context.Context, q *entity.Question) error
	UpdateByRunAndItem(ctx context.Context, q *entity.Question) error
	FindByRunAndItem(ctx context.Context, runId, blueprintItemId uuid.UUID) (*entity.Question, error)
	// ExistingItemIds returns which of the given blueprint item ids already
	// have a question in the run. Drives the skip check on batch retries.
	ExistingItemIds(ctx context.Context, runId uuid.UUID, itemIds []uuid.UUID) ([]uuid.UUID, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Question, error)
	DeleteByRunId(ctx context.Context, runId uuid.UUID) error
}
