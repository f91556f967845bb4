package worker

import (
	"context"
	"time"

	"quizbank-be/internal/constant"
	"quizbank-be/internal/dto"
	"quizbank-be/internal/entity"
	"quizbank-be/internal/pkg/apperror"
	"quizbank-be/internal/pkg/logger"
	"quizbank-be/internal/repository/specification"
	"quizbank-be/internal/repository/unitofwork"
	"quizbank-be/pkg/chunker"
	"quizbank-be/pkg/embedding"
	"quizbank-be/pkg/events"
	"quizbank-be/pkg/nats"
	"quizbank-be/pkg/queue"

	"github.com/google/uuid"
)

// IndexingWorker consumes chunk and embed jobs. Chunking rebuilds the chunk
// set from stored pages; embedding fills missing vectors in batches and is
// resumable, the missing-embedding query being the only checkpoint.
type IndexingWorker struct {
	uowFactory unitofwork.RepositoryFactory
	embedder   embedding.Provider
	jobs       *queue.Queue
	bus        *nats.Publisher
	log        logger.ILogger
}

func NewIndexingWorker(
	uowFactory unitofwork.RepositoryFactory,
	embedder embedding.Provider,
	jobs *queue.Queue,
	bus *nats.Publisher,
	log logger.ILogger,
) *IndexingWorker {
	return &IndexingWorker{
		uowFactory: uowFactory,
		embedder:   embedder,
		jobs:       jobs,
		bus:        bus,
		log:        log,
	}
}

func (w *IndexingWorker) Register() error {
	if err := w.jobs.Register(constant.JobChunk, queue.WorkerConfig{}, w.handleChunk); err != nil {
		return err
	}
	return w.jobs.Register(constant.JobEmbed, queue.WorkerConfig{}, w.handleEmbed)
}

func (w *IndexingWorker) handleChunk(ctx context.Context, d queue.Delivery) error {
	var job dto.ChunkJob
	if err := d.Bind(&job); err != nil {
		return err
	}

	uow := w.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: job.DocumentId})
	if err != nil {
		return err
	}
	if doc == nil {
		return apperror.NotFound("document not found")
	}

	if err := w.chunk(ctx, uow, doc, job); err != nil {
		w.failDocument(ctx, uow, doc.Id, "chunk", d.Attempt, err)
		return err
	}

	return w.jobs.Enqueue(ctx, constant.JobEmbed, "",
		dto.EmbedJob{DocumentId: doc.Id, BatchSize: constant.DefaultEmbedBatchSize},
		queue.Options{Attempts: 3, Backoff: time.Second})
}

func (w *IndexingWorker) chunk(ctx context.Context, uow unitofwork.UnitOfWork, doc *entity.Document, job dto.ChunkJob) error {
	if err := uow.DocumentRepository().UpdateStatus(ctx, doc.Id, entity.DocumentIndexing); err != nil {
		return err
	}
	publishStatus(ctx, w.bus, w.log, doc.Id, entity.DocumentIndexing)

	pages, err := uow.DocumentPageRepository().FindAll(ctx,
		specification.ByDocumentId{DocumentId: doc.Id},
		specification.OrderBy{Field: "page_no"},
	)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return apperror.Conflict("document has no pages, parse it first")
	}

	if job.Reset {
		if err := uow.ChunkRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
			return err
		}
	}

	tokenTarget := job.TokenTarget
	if tokenTarget <= 0 {
		tokenTarget = constant.DefaultTokenTarget
	}

	pageTexts := make([]string, len(pages))
	for i, p := range pages {
		pageTexts[i] = p.CleanedText
	}

	built := chunker.BuildChunks(pageTexts, tokenTarget)

	now := time.Now()
	chunks := make([]*entity.Chunk, len(built))
	for i, c := range built {
		chunks[i] = &entity.Chunk{
			DocumentId: doc.Id,
			ChunkText:  c.Text,
			TokenCount: c.TokenCount,
			Metadata: entity.ChunkMetadata{
				PageStart: c.PageStart,
				PageEnd:   c.PageEnd,
			},
			CreatedAt: now.Add(time.Duration(i) * time.Microsecond), // preserve build order under created_at sorting
		}
	}
	if err := uow.ChunkRepository().CreateBulk(ctx, chunks); err != nil {
		return err
	}

	w.log.Info("indexing-worker", "document chunked", map[string]interface{}{
		"documentId":  doc.Id.String(),
		"chunks":      len(chunks),
		"tokenTarget": tokenTarget,
	})
	return nil
}

func (w *IndexingWorker) handleEmbed(ctx context.Context, d queue.Delivery) error {
	var job dto.EmbedJob
	if err := d.Bind(&job); err != nil {
		return err
	}

	uow := w.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: job.DocumentId})
	if err != nil {
		return err
	}
	if doc == nil {
		return apperror.NotFound("document not found")
	}

	if err := w.embed(ctx, uow, doc, job); err != nil {
		w.failDocument(ctx, uow, doc.Id, "embed", d.Attempt, err)
		return err
	}
	return nil
}

func (w *IndexingWorker) embed(ctx context.Context, uow unitofwork.UnitOfWork, doc *entity.Document, job dto.EmbedJob) error {
	batchSize := job.BatchSize
	if batchSize <= 0 {
		batchSize = constant.DefaultEmbedBatchSize
	}

	// This query is the resumption checkpoint: a retried job naturally skips
	// everything already embedded.
	pending, err := uow.ChunkRepository().FindAll(ctx,
		specification.ByDocumentId{DocumentId: doc.Id},
		specification.MissingEmbedding{},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return err
	}

	total := len(pending)
	done := 0
	for start := 0; start < total; start += batchSize {
		end := start + batchSize
		if end > total {
			end = total
		}
		batch := pending[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.ChunkText
		}

		result, err := w.embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return err
		}

		for i, c := range batch {
			meta := c.Metadata
			meta.EmbeddingModel = result.Model
			meta.EmbeddingDim = result.Dim
			if err := uow.ChunkRepository().UpdateEmbedding(ctx, c.Id, result.Vectors[i], meta); err != nil {
				return err
			}
		}

		done += len(batch)
		w.log.Info("indexing-worker", "embedding progress", map[string]interface{}{
			"documentId": doc.Id.String(),
			"done":       done,
			"total":      total,
		})
		w.publishProgress(ctx, doc.Id, done, total)
	}

	if err := uow.DocumentRepository().UpdateStatus(ctx, doc.Id, entity.DocumentIndexed); err != nil {
		return err
	}
	publishStatus(ctx, w.bus, w.log, doc.Id, entity.DocumentIndexed)

	w.log.Info("indexing-worker", "document indexed", map[string]interface{}{
		"documentId": doc.Id.String(),
		"embedded":   done,
	})
	return nil
}

func (w *IndexingWorker) publishProgress(ctx context.Context, documentId uuid.UUID, done, total int) {
	if w.bus == nil {
		return
	}
	if err := w.bus.Publish(ctx, events.NewIndexingProgress(documentId, done, total)); err != nil {
		w.log.Warn("events", "progress event publish failed", map[string]interface{}{
			"documentId": documentId.String(),
			"error":      err.Error(),
		})
	}
}

func (w *IndexingWorker) failDocument(ctx context.Context, uow unitofwork.UnitOfWork, documentId uuid.UUID, stage string, attempt int, cause error) {
	w.log.Error("indexing-worker", stage+" failed", map[string]interface{}{
		"documentId": documentId.String(),
		"attempt":    attempt,
		"error":      cause.Error(),
	})
	if err := uow.DocumentRepository().UpdateStatus(ctx, documentId, entity.DocumentFailed); err != nil {
		w.log.Error("indexing-worker", "failed to mark document FAILED", map[string]interface{}{
			"documentId": documentId.String(),
			"error":      err.Error(),
		})
	}
	publishStatus(ctx, w.bus, w.log, documentId, entity.DocumentFailed)
}
