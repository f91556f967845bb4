package unitofwork

import (
	"context"

	"quizbank-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	DocumentRepository() contract.DocumentRepository
	DocumentPageRepository() contract.DocumentPageRepository
	ChunkRepository() contract.ChunkRepository
	BlueprintRepository() contract.BlueprintRepository
	BlueprintItemRepository() contract.BlueprintItemRepository
	GenerationRunRepository() contract.GenerationRunRepository
	QuestionRepository() contract.QuestionRepository
}
