package service

import (
	"context"
	"fmt"
	"time"

	"quizbank-be/internal/constant"
	"quizbank-be/internal/dto"
	"quizbank-be/internal/entity"
	"quizbank-be/internal/pkg/apperror"
	"quizbank-be/internal/pkg/logger"
	"quizbank-be/internal/repository/specification"
	"quizbank-be/internal/repository/unitofwork"
	"quizbank-be/pkg/queue"

	"github.com/google/uuid"
)

type IGenerationService interface {
	StartRun(ctx context.Context, blueprintId uuid.UUID) (*dto.StartRunResponse, error)
	GetRun(ctx context.Context, runId uuid.UUID) (*dto.ShowRunResponse, error)
	GetQuestions(ctx context.Context, runId uuid.UUID) (*dto.RunQuestionsResponse, error)
}

type generationService struct {
	uowFactory unitofwork.RepositoryFactory
	jobs       *queue.Queue
	log        logger.ILogger
}

func NewGenerationService(
	uowFactory unitofwork.RepositoryFactory,
	jobs *queue.Queue,
	log logger.ILogger,
) IGenerationService {
	return &generationService{
		uowFactory: uowFactory,
		jobs:       jobs,
		log:        log,
	}
}

// StartRun creates a run and fans its blueprint items out into fixed-size
// batch jobs. Batch job ids are deterministic per run, so re-invoking
// StartRun on the same run never double-enqueues a batch.
func (s *generationService) StartRun(ctx context.Context, blueprintId uuid.UUID) (*dto.StartRunResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	bp, err := uow.BlueprintRepository().FindOne(ctx, specification.ByID{ID: blueprintId})
	if err != nil {
		return nil, err
	}
	if bp == nil {
		return nil, apperror.NotFound("blueprint not found")
	}

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: bp.DocumentId})
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.Status != entity.DocumentIndexed {
		return nil, apperror.Conflict("blueprint's document is not INDEXED")
	}

	items, err := uow.BlueprintItemRepository().FindAll(ctx,
		specification.ByBlueprintId{BlueprintId: blueprintId},
		specification.OrderBy{Field: "no"},
	)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperror.Conflict("blueprint has no items, build them first")
	}

	run := entity.GenerationRun{
		Id:          uuid.New(),
		BlueprintId: blueprintId,
		Status:      entity.RunQueued,
		TotalItems:  len(items),
		CreatedAt:   time.Now(),
	}
	if err := uow.GenerationRunRepository().Create(ctx, &run); err != nil {
		return nil, err
	}

	batches := 0
	for start := 0; start < len(items); start += constant.GenerationBatchSize {
		end := start + constant.GenerationBatchSize
		if end > len(items) {
			end = len(items)
		}

		ids := make([]uuid.UUID, 0, end-start)
		for _, item := range items[start:end] {
			ids = append(ids, item.Id)
		}

		batches++
		jobId := fmt.Sprintf("%s:batch:%d", run.Id, batches)
		err := s.jobs.Enqueue(ctx, constant.JobGenerateBatch, jobId,
			dto.GenerateBatchJob{RunId: run.Id, BlueprintItemIds: ids, BatchNo: batches},
			queue.Options{Attempts: 8, Backoff: 2 * time.Second})
		if err != nil {
			return nil, err
		}
	}

	if err := uow.GenerationRunRepository().UpdateStatus(ctx, run.Id, entity.RunRunning); err != nil {
		return nil, err
	}

	s.log.Info("generation", "run started", map[string]interface{}{
		"runId":      run.Id.String(),
		"totalItems": run.TotalItems,
		"batches":    batches,
	})

	return &dto.StartRunResponse{
		RunId:      run.Id,
		Status:     string(entity.RunRunning),
		TotalItems: run.TotalItems,
		Batches:    batches,
	}, nil
}

func (s *generationService) GetRun(ctx context.Context, runId uuid.UUID) (*dto.ShowRunResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	run, err := uow.GenerationRunRepository().FindOne(ctx, specification.ByID{ID: runId})
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, apperror.NotFound("run not found")
	}

	return &dto.ShowRunResponse{
		Id:          run.Id,
		BlueprintId: run.BlueprintId,
		Status:      string(run.Status),
		TotalItems:  run.TotalItems,
		DoneItems:   run.DoneItems,
		FailedItems: run.FailedItems,
		CreatedAt:   run.CreatedAt,
	}, nil
}

func (s *generationService) GetQuestions(ctx context.Context, runId uuid.UUID) (*dto.RunQuestionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	run, err := uow.GenerationRunRepository().FindOne(ctx, specification.ByID{ID: runId})
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, apperror.NotFound("run not found")
	}

	questions, err := uow.QuestionRepository().FindAll(ctx,
		specification.ByRunId{RunId: runId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.RunQuestionsResponse{
		RunId:     runId,
		Questions: make([]dto.QuestionResponse, len(questions)),
	}
	for i, q := range questions {
		res.Questions[i] = dto.QuestionResponse{
			Id:              q.Id,
			BlueprintItemId: q.BlueprintItemId,
			Type:            string(q.Type),
			Stem:            q.Stem,
			Options:         q.Options,
			AnswerKey:       q.AnswerKey,
			Explanation:     q.Explanation,
			Model:           q.Model,
		}
		if q.ExpectedAnswer != nil {
			res.Questions[i].ExpectedAnswer = q.ExpectedAnswer
		}
		if len(q.KeywordGroups) > 0 {
			res.Questions[i].KeywordGroups = q.KeywordGroups
		}
		if len(q.Rubric) > 0 {
			res.Questions[i].Rubric = q.Rubric
		}
	}
	return res, nil
}
