package contract

import (
	"context"

	"quizbank-be/internal/entity"
	"quizbank-be/internal/repository/specification"

	"github.com/google/uuid"
)

type BlueprintRepository interface {
	Create(ctx context.Context, bp *entity.Blueprint) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Blueprint, error)
}

type BlueprintItemRepository interface {
	CreateBulk(ctx context.Context, items []*entity.BlueprintItem) error
	DeleteByBlueprintId(ctx context.Context, blueprintId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BlueprintItem, error)
	FindByIds(ctx context.Context, ids []uuid.UUID) ([]*entity.BlueprintItem, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
