package implementation

import (
	"context"
	"errors"

	"quizbank-be/internal/entity"
	"quizbank-be/internal/mapper"
	"quizbank-be/internal/model"
	"quizbank-be/internal/repository/contract"
	"quizbank-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GenerationRunRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.GenerationRunMapper
}

func NewGenerationRunRepository(db *gorm.DB) contract.GenerationRunRepository {
	return &GenerationRunRepositoryImpl{
		db:     db,
		mapper: mapper.NewGenerationRunMapper(),
	}
}

func (r *GenerationRunRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *GenerationRunRepositoryImpl) Create(ctx context.Context, run *entity.GenerationRun) error {
	m := r.mapper.ToModel(run)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*run = *r.mapper.ToEntity(m)
	return nil
}

func (r *GenerationRunRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.RunStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.GenerationRun{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}

func (r *GenerationRunRepositoryImpl) IncrementDone(ctx context.Context, id uuid.UUID, n int) error {
	if n == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.GenerationRun{}).
		Where("id = ?", id).
		Update("done_items", gorm.Expr("done_items + ?", n)).Error
}

func (r *GenerationRunRepositoryImpl) IncrementFailed(ctx context.Context, id uuid.UUID, n int) error {
	if n == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.GenerationRun{}).
		Where("id = ?", id).
		Update("failed_items", gorm.Expr("failed_items + ?", n)).Error
}

func (r *GenerationRunRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GenerationRun, error) {
	var m model.GenerationRun
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
