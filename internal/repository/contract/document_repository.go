package contract

import (
	"context"

	"quizbank-be/internal/entity"
	"quizbank-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	Update(ctx context.Context, doc *entity.Document) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.DocumentStatus) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
}

type DocumentPageRepository interface {
	CreateBulk(ctx context.Context, pages []*entity.DocumentPage) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentPage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
