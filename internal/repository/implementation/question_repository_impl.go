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

type QuestionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QuestionMapper
}

func NewQuestionRepository(db *gorm.DB) contract.QuestionRepository {
	return &QuestionRepositoryImpl{
		db:     db,
		mapper: mapper.NewQuestionMapper(),
	}
}

func (r *QuestionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *QuestionRepositoryImpl) Create(ctx context.Context, q *entity.Question) error {
	m := r.mapper.ToModel(q)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*q = *r.mapper.ToEntity(m)
	return nil
}

func (r *QuestionRepositoryImpl) UpdateByRunAndItem(ctx context.Context, q *entity.Question) error {
	m := r.mapper.ToModel(q)
	return r.db.WithContext(ctx).
		Model(&model.Question{}).
		Where("run_id = ? AND blueprint_item_id = ?", q.RunId, q.BlueprintItemId).
		Updates(map[string]interface{}{
			"type":            m.Type,
			"stem":            m.Stem,
			"options":         m.Options,
			"answer_key":      m.AnswerKey,
			"explanation":     m.Explanation,
			"expected_answer": m.ExpectedAnswer,
			"keyword_groups":  m.KeywordGroups,
			"rubric":          m.Rubric,
			"source_chunk_ids": m.SourceChunkIds,
			"model":           m.Model,
		}).Error
}

func (r *QuestionRepositoryImpl) FindByRunAndItem(ctx context.Context, runId, blueprintItemId uuid.UUID) (*entity.Question, error) {
	var m model.Question
	err := r.db.WithContext(ctx).
		Where("run_id = ? AND blueprint_item_id = ?", runId, blueprintItemId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *QuestionRepositoryImpl) ExistingItemIds(ctx context.Context, runId uuid.UUID, itemIds []uuid.UUID) ([]uuid.UUID, error) {
	if len(itemIds) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.Question{}).
		Where("run_id = ? AND blueprint_item_id IN ?", runId, itemIds).
		Pluck("blueprint_item_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *QuestionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Question, error) {
	var models []*model.Question
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *QuestionRepositoryImpl) DeleteByRunId(ctx context.Context, runId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("run_id = ?", runId).Delete(&model.Question{}).Error
}
