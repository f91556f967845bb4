package mapper

import (
	"time"

	"github.com/google/uuid"

	"quizbank-be/internal/entity"
	"quizbank-be/internal/model"
)

type GenerationRunMapper struct{}

func NewGenerationRunMapper() *GenerationRunMapper {
	return &GenerationRunMapper{}
}

func (m *GenerationRunMapper) ToEntity(e *model.GenerationRun) *entity.GenerationRun {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.GenerationRun{
		Id:          e.Id,
		BlueprintId: e.BlueprintId,
		Status:      entity.RunStatus(e.Status),
		TotalItems:  e.TotalItems,
		DoneItems:   e.DoneItems,
		FailedItems: e.FailedItems,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *GenerationRunMapper) ToModel(e *entity.GenerationRun) *model.GenerationRun {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.GenerationRun{
		Id:          e.Id,
		BlueprintId: e.BlueprintId,
		Status:      string(e.Status),
		TotalItems:  e.TotalItems,
		DoneItems:   e.DoneItems,
		FailedItems: e.FailedItems,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

type QuestionMapper struct{}

func NewQuestionMapper() *QuestionMapper {
	return &QuestionMapper{}
}

func (m *QuestionMapper) ToEntity(e *model.Question) *entity.Question {
	if e == nil {
		return nil
	}

	var options []string
	unmarshalJSON(e.Options, &options)

	var expectedAnswer *entity.EssayAnswer
	if len(e.ExpectedAnswer) > 0 {
		expectedAnswer = &entity.EssayAnswer{}
		unmarshalJSON(e.ExpectedAnswer, expectedAnswer)
	}

	var keywordGroups []entity.KeywordGroup
	unmarshalJSON(e.KeywordGroups, &keywordGroups)

	var rubric []entity.RubricCriterion
	unmarshalJSON(e.Rubric, &rubric)

	var sourceChunkIds []uuid.UUID
	unmarshalJSON(e.SourceChunkIds, &sourceChunkIds)

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.Question{
		Id:              e.Id,
		RunId:           e.RunId,
		BlueprintItemId: e.BlueprintItemId,
		Type:            entity.QuestionType(e.Type),
		Stem:            e.Stem,
		Options:         options,
		AnswerKey:       e.AnswerKey,
		Explanation:     e.Explanation,
		ExpectedAnswer:  expectedAnswer,
		KeywordGroups:   keywordGroups,
		Rubric:          rubric,
		SourceChunkIds:  sourceChunkIds,
		Model:           e.Model,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *QuestionMapper) ToModel(e *entity.Question) *model.Question {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	out := &model.Question{
		Id:              e.Id,
		RunId:           e.RunId,
		BlueprintItemId: e.BlueprintItemId,
		Type:            string(e.Type),
		Stem:            e.Stem,
		AnswerKey:       e.AnswerKey,
		Explanation:     e.Explanation,
		Model:           e.Model,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       updatedAt,
	}
	if len(e.Options) > 0 {
		out.Options = marshalJSON(e.Options)
	}
	if e.ExpectedAnswer != nil {
		out.ExpectedAnswer = marshalJSON(e.ExpectedAnswer)
	}
	if len(e.KeywordGroups) > 0 {
		out.KeywordGroups = marshalJSON(e.KeywordGroups)
	}
	if len(e.Rubric) > 0 {
		out.Rubric = marshalJSON(e.Rubric)
	}
	if len(e.SourceChunkIds) > 0 {
		out.SourceChunkIds = marshalJSON(e.SourceChunkIds)
	}
	return out
}

func (m *QuestionMapper) ToEntities(questions []*model.Question) []*entity.Question {
	entities := make([]*entity.Question, len(questions))
	for i, e := range questions {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
