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

type BlueprintRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BlueprintMapper
}

func NewBlueprintRepository(db *gorm.DB) contract.BlueprintRepository {
	return &BlueprintRepositoryImpl{
		db:     db,
		mapper: mapper.NewBlueprintMapper(),
	}
}

func (r *BlueprintRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BlueprintRepositoryImpl) Create(ctx context.Context, bp *entity.Blueprint) error {
	m := r.mapper.ToModel(bp)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*bp = *r.mapper.ToEntity(m)
	return nil
}

func (r *BlueprintRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Blueprint, error) {
	var m model.Blueprint
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

type BlueprintItemRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BlueprintItemMapper
}

func NewBlueprintItemRepository(db *gorm.DB) contract.BlueprintItemRepository {
	return &BlueprintItemRepositoryImpl{
		db:     db,
		mapper: mapper.NewBlueprintItemMapper(),
	}
}

func (r *BlueprintItemRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BlueprintItemRepositoryImpl) CreateBulk(ctx context.Context, items []*entity.BlueprintItem) error {
	if len(items) == 0 {
		return nil
	}
	models := r.mapper.ToModels(items)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*items[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *BlueprintItemRepositoryImpl) DeleteByBlueprintId(ctx context.Context, blueprintId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("blueprint_id = ?", blueprintId).Delete(&model.BlueprintItem{}).Error
}

func (r *BlueprintItemRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BlueprintItem, error) {
	var models []*model.BlueprintItem
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *BlueprintItemRepositoryImpl) FindByIds(ctx context.Context, ids []uuid.UUID) ([]*entity.BlueprintItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []*model.BlueprintItem
	query := r.applySpecifications(r.db.WithContext(ctx), specification.ByIDs{IDs: ids})
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *BlueprintItemRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.BlueprintItem{}).Count(&count).Error
	return count, err
}
