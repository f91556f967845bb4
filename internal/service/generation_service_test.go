package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizbank-be/internal/entity"
	"quizbank-be/internal/pkg/apperror"
	"quizbank-be/internal/pkg/logger"

	"github.com/google/uuid"
)

func seedItems(uow *fakeUow, blueprintId uuid.UUID, n int) {
	for i := 0; i < n; i++ {
		uow.items.items = append(uow.items.items, &entity.BlueprintItem{
			Id:          uuid.New(),
			BlueprintId: blueprintId,
			No:          i + 1,
			Type:        entity.QuestionMCQ,
			Cognitive:   entity.CognitiveLOTS,
			Difficulty:  entity.DifficultyEasy,
			CreatedAt:   time.Now(),
		})
	}
}

func TestStartRunBatchesItems(t *testing.T) {
	uow := newFakeUow()
	doc := seedDocument(uow, entity.DocumentIndexed)
	bp := seedBlueprint(uow, doc.Id, entity.BlueprintConfig{Total: 25, McqCount: 25})
	seedItems(uow, bp.Id, 25)

	svc := NewGenerationService(&fakeFactory{uow: uow}, newTestQueue(t), logger.NewNopLogger())

	res, err := svc.StartRun(context.Background(), bp.Id)
	require.NoError(t, err)
	assert.Equal(t, 25, res.TotalItems)
	assert.Equal(t, 3, res.Batches)
	assert.Equal(t, string(entity.RunRunning), res.Status)

	require.Len(t, uow.runs.runs, 1)
	assert.Equal(t, entity.RunRunning, uow.runs.runs[0].Status)
	assert.Equal(t, 25, uow.runs.runs[0].TotalItems)
}

func TestStartRunRequiresItems(t *testing.T) {
	uow := newFakeUow()
	doc := seedDocument(uow, entity.DocumentIndexed)
	bp := seedBlueprint(uow, doc.Id, entity.BlueprintConfig{Total: 10, McqCount: 10})

	svc := NewGenerationService(&fakeFactory{uow: uow}, newTestQueue(t), logger.NewNopLogger())

	_, err := svc.StartRun(context.Background(), bp.Id)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestStartRunRequiresIndexedDocument(t *testing.T) {
	uow := newFakeUow()
	doc := seedDocument(uow, entity.DocumentParsing)
	bp := seedBlueprint(uow, doc.Id, entity.BlueprintConfig{Total: 5, McqCount: 5})
	seedItems(uow, bp.Id, 5)

	svc := NewGenerationService(&fakeFactory{uow: uow}, newTestQueue(t), logger.NewNopLogger())

	_, err := svc.StartRun(context.Background(), bp.Id)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestGetRunReportsProgress(t *testing.T) {
	uow := newFakeUow()
	run := &entity.GenerationRun{
		Id:          uuid.New(),
		BlueprintId: uuid.New(),
		Status:      entity.RunRunning,
		TotalItems:  10,
		DoneItems:   6,
		FailedItems: 1,
		CreatedAt:   time.Now(),
	}
	uow.runs.runs = append(uow.runs.runs, run)

	svc := NewGenerationService(&fakeFactory{uow: uow}, newTestQueue(t), logger.NewNopLogger())

	res, err := svc.GetRun(context.Background(), run.Id)
	require.NoError(t, err)
	assert.Equal(t, 10, res.TotalItems)
	assert.Equal(t, 6, res.DoneItems)
	assert.Equal(t, 1, res.FailedItems)
	assert.Equal(t, string(entity.RunRunning), res.Status)
}
