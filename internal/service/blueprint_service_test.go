package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizbank-be/internal/dto"
	"quizbank-be/internal/entity"
	"quizbank-be/internal/pkg/apperror"
	"quizbank-be/internal/pkg/logger"

	"github.com/google/uuid"
)

func newBlueprintService(uow *fakeUow, seed int64) IBlueprintService {
	return NewBlueprintService(&fakeFactory{uow: uow}, rand.New(rand.NewSource(seed)), logger.NewNopLogger())
}

func validBlueprintRequest(documentId uuid.UUID) *dto.CreateBlueprintRequest {
	return &dto.CreateBlueprintRequest{
		DocumentId: documentId,
		Title:      "UTS Basis Data",
		Total:      10,
		McqCount:   7,
		EssayCount: 3,
		Cognitive:  dto.CognitiveSpreadRequest{LOTS: 4, MOTS: 4, HOTS: 2},
		Difficulty: dto.DifficultySpreadRequest{Easy: 3, Medium: 5, Hard: 2},
	}
}

func TestCreateBlueprintValidatesMarginals(t *testing.T) {
	uow := newFakeUow()
	doc := seedDocument(uow, entity.DocumentIndexed)
	svc := newBlueprintService(uow, 1)

	tests := []struct {
		name   string
		mutate func(*dto.CreateBlueprintRequest)
	}{
		{"type counts off", func(r *dto.CreateBlueprintRequest) { r.McqCount = 5 }},
		{"cognitive counts off", func(r *dto.CreateBlueprintRequest) { r.Cognitive.HOTS = 5 }},
		{"difficulty counts off", func(r *dto.CreateBlueprintRequest) { r.Difficulty.Hard = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBlueprintRequest(doc.Id)
			tt.mutate(req)

			_, err := svc.Create(context.Background(), req)
			require.Error(t, err)
			assert.True(t, apperror.IsInvalid(err))
		})
	}
}

func TestCreateBlueprintRequiresIndexedDocument(t *testing.T) {
	uow := newFakeUow()
	doc := seedDocument(uow, entity.DocumentParsed)
	svc := newBlueprintService(uow, 1)

	_, err := svc.Create(context.Background(), validBlueprintRequest(doc.Id))
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestCreateBlueprintDefaultsTopKContext(t *testing.T) {
	uow := newFakeUow()
	doc := seedDocument(uow, entity.DocumentIndexed)
	svc := newBlueprintService(uow, 1)

	res, err := svc.Create(context.Background(), validBlueprintRequest(doc.Id))
	require.NoError(t, err)

	require.Len(t, uow.bps.blueprints, 1)
	stored := uow.bps.blueprints[0]
	assert.Equal(t, res.Id, stored.Id)
	assert.Equal(t, 3, stored.Config.TopKContext)
}

func seedBlueprint(uow *fakeUow, documentId uuid.UUID, cfg entity.BlueprintConfig) *entity.Blueprint {
	bp := &entity.Blueprint{
		Id:         uuid.New(),
		DocumentId: documentId,
		Title:      "UTS Basis Data",
		Config:     cfg,
		CreatedAt:  time.Now(),
	}
	uow.bps.blueprints = append(uow.bps.blueprints, bp)
	return bp
}

func TestBuildItemsPreservesMarginalCounts(t *testing.T) {
	uow := newFakeUow()
	doc := seedDocument(uow, entity.DocumentIndexed)
	bp := seedBlueprint(uow, doc.Id, entity.BlueprintConfig{
		Total:       10,
		McqCount:    7,
		EssayCount:  3,
		Cognitive:   entity.CognitiveSpread{LOTS: 4, MOTS: 4, HOTS: 2},
		Difficulty:  entity.DifficultySpread{Easy: 3, Medium: 5, Hard: 2},
		TopKContext: 3,
	})
	svc := newBlueprintService(uow, 42)

	res, err := svc.BuildItems(context.Background(), bp.Id)
	require.NoError(t, err)
	require.Len(t, res.Items, 10)

	typeCounts := map[string]int{}
	cognitiveCounts := map[string]int{}
	difficultyCounts := map[string]int{}
	for i, item := range res.Items {
		assert.Equal(t, i+1, item.No)
		typeCounts[item.Type]++
		cognitiveCounts[item.Cognitive]++
		difficultyCounts[item.Difficulty]++
	}

	assert.Equal(t, 7, typeCounts["MCQ"])
	assert.Equal(t, 3, typeCounts["ESSAY"])
	assert.Equal(t, 4, cognitiveCounts["LOTS"])
	assert.Equal(t, 4, cognitiveCounts["MOTS"])
	assert.Equal(t, 2, cognitiveCounts["HOTS"])
	assert.Equal(t, 3, difficultyCounts["EASY"])
	assert.Equal(t, 5, difficultyCounts["MEDIUM"])
	assert.Equal(t, 2, difficultyCounts["HARD"])
}

func TestBuildItemsReplacesPreviousItems(t *testing.T) {
	uow := newFakeUow()
	doc := seedDocument(uow, entity.DocumentIndexed)
	bp := seedBlueprint(uow, doc.Id, entity.BlueprintConfig{
		Total:       4,
		McqCount:    2,
		EssayCount:  2,
		Cognitive:   entity.CognitiveSpread{LOTS: 2, MOTS: 1, HOTS: 1},
		Difficulty:  entity.DifficultySpread{Easy: 2, Medium: 1, Hard: 1},
		TopKContext: 3,
	})
	svc := newBlueprintService(uow, 7)

	_, err := svc.BuildItems(context.Background(), bp.Id)
	require.NoError(t, err)
	firstIds := make(map[uuid.UUID]bool)
	for _, item := range uow.items.items {
		firstIds[item.Id] = true
	}

	_, err = svc.BuildItems(context.Background(), bp.Id)
	require.NoError(t, err)
	require.Len(t, uow.items.items, 4)
	for _, item := range uow.items.items {
		assert.False(t, firstIds[item.Id], "old items should have been replaced")
	}
}

func TestBuildItemsUnknownBlueprint(t *testing.T) {
	uow := newFakeUow()
	svc := newBlueprintService(uow, 1)

	_, err := svc.BuildItems(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
