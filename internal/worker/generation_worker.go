package worker

import (
	"context"
	"fmt"
	"time"

	"quizbank-be/internal/constant"
	"quizbank-be/internal/dto"
	"quizbank-be/internal/entity"
	"quizbank-be/internal/pkg/logger"
	"quizbank-be/internal/repository/specification"
	"quizbank-be/internal/repository/unitofwork"
	"quizbank-be/pkg/events"
	"quizbank-be/pkg/llm"
	"quizbank-be/pkg/nats"
	"quizbank-be/pkg/queue"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// GenerationWorker consumes generate-batch jobs. Each delivery is fully
// idempotent: items that already have a question are skipped, so retries and
// duplicate deliveries converge instead of duplicating work.
type GenerationWorker struct {
	uowFactory unitofwork.RepositoryFactory
	llmClient  *llm.Client
	jobs       *queue.Queue
	bus        *nats.Publisher
	log        logger.ILogger
	rpm        int
}

func NewGenerationWorker(
	uowFactory unitofwork.RepositoryFactory,
	llmClient *llm.Client,
	jobs *queue.Queue,
	bus *nats.Publisher,
	log logger.ILogger,
	rpm int,
) *GenerationWorker {
	if rpm <= 0 {
		rpm = 4
	}
	return &GenerationWorker{
		uowFactory: uowFactory,
		llmClient:  llmClient,
		jobs:       jobs,
		bus:        bus,
		log:        log,
		rpm:        rpm,
	}
}

func (w *GenerationWorker) Register() error {
	// Single lane plus a requests-per-minute ceiling keeps the LLM quota safe
	limiter := rate.NewLimiter(rate.Limit(float64(w.rpm)/60.0), w.rpm)
	return w.jobs.Register(constant.JobGenerateBatch, queue.WorkerConfig{
		Concurrency: 1,
		Limiter:     limiter,
	}, w.handleBatch)
}

func (w *GenerationWorker) handleBatch(ctx context.Context, d queue.Delivery) error {
	var job dto.GenerateBatchJob
	if err := d.Bind(&job); err != nil {
		return err
	}

	uow := w.uowFactory.NewUnitOfWork(ctx)

	err := w.process(ctx, uow, job)
	if err == nil {
		return nil
	}

	w.log.Error("generation-worker", "batch failed", map[string]interface{}{
		"runId":   job.RunId.String(),
		"batchNo": job.BatchNo,
		"attempt": d.Attempt,
		"error":   err.Error(),
	})

	// On the last attempt every still-missing item in this batch counts as
	// failed, so the run can reach a terminal state.
	if d.FinalAttempt() {
		missing, cerr := w.countMissing(ctx, uow, job.RunId, job.BlueprintItemIds)
		if cerr != nil {
			w.log.Error("generation-worker", "failed accounting on final attempt", map[string]interface{}{
				"runId": job.RunId.String(),
				"error": cerr.Error(),
			})
		} else if missing > 0 {
			if ierr := uow.GenerationRunRepository().IncrementFailed(ctx, job.RunId, missing); ierr != nil {
				w.log.Error("generation-worker", "failed counter update failed", map[string]interface{}{
					"runId": job.RunId.String(),
					"error": ierr.Error(),
				})
			}
		}
		if ferr := w.finalizeRunIfDone(ctx, uow, job.RunId); ferr != nil {
			w.log.Error("generation-worker", "finalize failed", map[string]interface{}{
				"runId": job.RunId.String(),
				"error": ferr.Error(),
			})
		}
	}
	return err
}

func (w *GenerationWorker) process(ctx context.Context, uow unitofwork.UnitOfWork, job dto.GenerateBatchJob) error {
	// 1. Skip check: only items without a question need work
	existing, err := uow.QuestionRepository().ExistingItemIds(ctx, job.RunId, job.BlueprintItemIds)
	if err != nil {
		return err
	}
	existingSet := make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		existingSet[id] = true
	}

	missingIds := make([]uuid.UUID, 0, len(job.BlueprintItemIds))
	for _, id := range job.BlueprintItemIds {
		if !existingSet[id] {
			missingIds = append(missingIds, id)
		}
	}
	if len(missingIds) == 0 {
		return w.finalizeRunIfDone(ctx, uow, job.RunId)
	}

	// 2. Context assembly
	items, err := uow.BlueprintItemRepository().FindByIds(ctx, missingIds)
	if err != nil {
		return err
	}
	if len(items) != len(missingIds) {
		return fmt.Errorf("run %s: expected %d blueprint items, found %d", job.RunId, len(missingIds), len(items))
	}

	run, err := uow.GenerationRunRepository().FindOne(ctx, specification.ByID{ID: job.RunId})
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s not found", job.RunId)
	}

	bp, err := uow.BlueprintRepository().FindOne(ctx, specification.ByID{ID: run.BlueprintId})
	if err != nil {
		return err
	}
	if bp == nil {
		return fmt.Errorf("blueprint %s not found", run.BlueprintId)
	}

	chunks, err := uow.ChunkRepository().FindAll(ctx,
		specification.ByDocumentId{DocumentId: bp.DocumentId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("document %s has no chunks", bp.DocumentId)
	}

	tasks := make([]generationTask, len(items))
	for i, item := range items {
		chunk := chunks[(item.No-1)%len(chunks)]
		tasks[i] = generationTask{
			Item:    item,
			ChunkId: chunk.Id,
			Context: clampRunes(chunk.ChunkText, constant.MaxContextCharsPerItem),
		}
	}

	// 3. Model call
	result, err := w.llmClient.GenerateJSON(ctx, buildBatchPrompt(tasks), llm.WithMaxOutputTokens(8000))
	if err != nil {
		return err
	}

	// 4. Coerce, normalize, validate
	rawResults := coerceResults(result.JSON)
	byItem := make(map[uuid.UUID]generatedQuestion, len(rawResults))
	for _, raw := range rawResults {
		q := normalizeQuestion(raw)
		if err := validateQuestion(q); err != nil {
			return err
		}
		itemId, err := uuid.Parse(q.BlueprintItemId)
		if err != nil {
			return fmt.Errorf("result has invalid blueprintItemId %q", q.BlueprintItemId)
		}
		if _, dup := byItem[itemId]; dup {
			return fmt.Errorf("duplicate result for blueprint item %s", itemId)
		}
		byItem[itemId] = q
	}

	// 5. Re-enqueue items the model dropped, one singleton job each
	taskById := make(map[uuid.UUID]generationTask, len(tasks))
	for _, t := range tasks {
		taskById[t.Item.Id] = t
	}
	for _, id := range missingIds {
		if _, ok := byItem[id]; ok {
			continue
		}
		jobId := fmt.Sprintf("%s:miss:%s", job.RunId, id)
		err := w.jobs.Enqueue(ctx, constant.JobGenerateBatch, jobId,
			dto.GenerateBatchJob{RunId: job.RunId, BlueprintItemIds: []uuid.UUID{id}, BatchNo: job.BatchNo},
			queue.Options{Attempts: 6, Backoff: 2 * time.Second})
		if err != nil {
			return err
		}
		w.log.Warn("generation-worker", "item missing from model output, re-enqueued", map[string]interface{}{
			"runId":           job.RunId.String(),
			"blueprintItemId": id.String(),
		})
	}

	// 6. Persist and count
	created := 0
	for itemId, q := range byItem {
		task, ok := taskById[itemId]
		if !ok {
			// model answered for an item outside this batch; drop it
			continue
		}
		wasCreated, err := w.persistQuestion(ctx, uow, job.RunId, task, q, result.Model)
		if err != nil {
			return err
		}
		if wasCreated {
			created++
		}
	}

	if created > 0 {
		if err := uow.GenerationRunRepository().IncrementDone(ctx, job.RunId, created); err != nil {
			return err
		}
	}

	w.log.Info("generation-worker", "batch processed", map[string]interface{}{
		"runId":   job.RunId.String(),
		"batchNo": job.BatchNo,
		"created": created,
		"missing": len(missingIds) - len(byItem),
	})

	// 7. Finalization
	return w.finalizeRunIfDone(ctx, uow, job.RunId)
}

// persistQuestion creates the question, or updates it when a concurrent
// delivery got there first. Returns whether a new row was created.
func (w *GenerationWorker) persistQuestion(ctx context.Context, uow unitofwork.UnitOfWork, runId uuid.UUID, task generationTask, q generatedQuestion, model string) (bool, error) {
	question := entity.Question{
		Id:              uuid.New(),
		RunId:           runId,
		BlueprintItemId: task.Item.Id,
		Type:            q.Type,
		Stem:            q.Stem,
		Options:         q.Options,
		AnswerKey:       q.AnswerKey,
		Explanation:     q.Explanation,
		ExpectedAnswer:  q.ExpectedAnswer,
		KeywordGroups:   q.KeywordGroups,
		Rubric:          q.Rubric,
		SourceChunkIds:  []uuid.UUID{task.ChunkId},
		Model:           model,
		CreatedAt:       time.Now(),
	}

	existing, err := uow.QuestionRepository().FindByRunAndItem(ctx, runId, task.Item.Id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		if err := uow.QuestionRepository().Create(ctx, &question); err != nil {
			return false, err
		}
		return true, nil
	}

	question.Id = existing.Id
	if err := uow.QuestionRepository().UpdateByRunAndItem(ctx, &question); err != nil {
		return false, err
	}
	return false, nil
}

func (w *GenerationWorker) countMissing(ctx context.Context, uow unitofwork.UnitOfWork, runId uuid.UUID, itemIds []uuid.UUID) (int, error) {
	existing, err := uow.QuestionRepository().ExistingItemIds(ctx, runId, itemIds)
	if err != nil {
		return 0, err
	}
	return len(itemIds) - len(existing), nil
}

func (w *GenerationWorker) finalizeRunIfDone(ctx context.Context, uow unitofwork.UnitOfWork, runId uuid.UUID) error {
	run, err := uow.GenerationRunRepository().FindOne(ctx, specification.ByID{ID: runId})
	if err != nil {
		return err
	}
	if run == nil || !run.Terminal() {
		return nil
	}
	if run.Status == entity.RunCompleted || run.Status == entity.RunFailed {
		return nil
	}

	status := entity.RunCompleted
	if run.FailedItems > 0 {
		status = entity.RunFailed
	}
	if err := uow.GenerationRunRepository().UpdateStatus(ctx, runId, status); err != nil {
		return err
	}

	w.log.Info("generation-worker", "run finalized", map[string]interface{}{
		"runId":       runId.String(),
		"status":      string(status),
		"doneItems":   run.DoneItems,
		"failedItems": run.FailedItems,
	})

	if w.bus != nil {
		if err := w.bus.Publish(ctx, events.NewRunFinalized(runId, string(status), run.DoneItems, run.FailedItems)); err != nil {
			w.log.Warn("events", "run finalized event publish failed", map[string]interface{}{
				"runId": runId.String(),
				"error": err.Error(),
			})
		}
	}
	return nil
}
