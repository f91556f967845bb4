package worker

import (
	"context"
	"os"
	"time"

	"quizbank-be/internal/constant"
	"quizbank-be/internal/dto"
	"quizbank-be/internal/entity"
	"quizbank-be/internal/pkg/apperror"
	"quizbank-be/internal/pkg/logger"
	"quizbank-be/internal/repository/specification"
	"quizbank-be/internal/repository/unitofwork"
	"quizbank-be/pkg/events"
	"quizbank-be/pkg/nats"
	"quizbank-be/pkg/parser"
	"quizbank-be/pkg/queue"

	"github.com/google/uuid"
)

// DocumentWorker consumes parse jobs: extract text, store pages, score
// quality, and optionally chain into chunking.
type DocumentWorker struct {
	uowFactory unitofwork.RepositoryFactory
	parser     *parser.Parser
	jobs       *queue.Queue
	bus        *nats.Publisher
	log        logger.ILogger
}

func NewDocumentWorker(
	uowFactory unitofwork.RepositoryFactory,
	p *parser.Parser,
	jobs *queue.Queue,
	bus *nats.Publisher,
	log logger.ILogger,
) *DocumentWorker {
	return &DocumentWorker{
		uowFactory: uowFactory,
		parser:     p,
		jobs:       jobs,
		bus:        bus,
		log:        log,
	}
}

func (w *DocumentWorker) Register() error {
	return w.jobs.Register(constant.JobParse, queue.WorkerConfig{}, w.handleParse)
}

func (w *DocumentWorker) handleParse(ctx context.Context, d queue.Delivery) error {
	var job dto.ParseJob
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

	if err := w.parse(ctx, uow, doc); err != nil {
		w.log.Error("parse-worker", "parse failed", map[string]interface{}{
			"documentId": doc.Id.String(),
			"attempt":    d.Attempt,
			"error":      err.Error(),
		})
		if ferr := uow.DocumentRepository().UpdateStatus(ctx, doc.Id, entity.DocumentFailed); ferr != nil {
			w.log.Error("parse-worker", "failed to mark document FAILED", map[string]interface{}{
				"documentId": doc.Id.String(),
				"error":      ferr.Error(),
			})
		}
		publishStatus(ctx, w.bus, w.log, doc.Id, entity.DocumentFailed)
		return err
	}

	if job.ChainIndex {
		return w.jobs.Enqueue(ctx, constant.JobChunk, "",
			dto.ChunkJob{DocumentId: doc.Id, TokenTarget: constant.DefaultTokenTarget, Reset: true},
			queue.Options{Attempts: 3, Backoff: time.Second})
	}
	return nil
}

func (w *DocumentWorker) parse(ctx context.Context, uow unitofwork.UnitOfWork, doc *entity.Document) error {
	if err := uow.DocumentRepository().UpdateStatus(ctx, doc.Id, entity.DocumentParsing); err != nil {
		return err
	}
	publishStatus(ctx, w.bus, w.log, doc.Id, entity.DocumentParsing)

	data, err := os.ReadFile(doc.FileRef)
	if err != nil {
		return err
	}

	result, err := w.parser.ParseBuffer(doc.FileType, data)
	if err != nil {
		return err
	}

	// Pages are replaced wholesale on every parse
	if err := uow.DocumentPageRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
		return err
	}

	now := time.Now()
	pages := make([]*entity.DocumentPage, len(result.Pages))
	for i, text := range result.Pages {
		pages[i] = &entity.DocumentPage{
			DocumentId:  doc.Id,
			PageNo:      i + 1,
			RawText:     text,
			CleanedText: text,
			CreatedAt:   now,
		}
	}
	if err := uow.DocumentPageRepository().CreateBulk(ctx, pages); err != nil {
		return err
	}

	score := result.QualityScore
	doc.Status = entity.DocumentParsed
	doc.QualityScore = &score
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return err
	}
	publishStatus(ctx, w.bus, w.log, doc.Id, entity.DocumentParsed)

	w.log.Info("parse-worker", "document parsed", map[string]interface{}{
		"documentId":   doc.Id.String(),
		"pages":        len(pages),
		"qualityScore": score,
	})
	return nil
}

// publishStatus pushes a lifecycle event to NATS. A nil or failing bus never
// breaks the pipeline.
func publishStatus(ctx context.Context, bus *nats.Publisher, log logger.ILogger, documentId uuid.UUID, status entity.DocumentStatus) {
	if bus == nil {
		return
	}
	if err := bus.Publish(ctx, events.NewDocumentStatusChanged(documentId, string(status))); err != nil {
		log.Warn("events", "status event publish failed", map[string]interface{}{
			"documentId": documentId.String(),
			"status":     string(status),
			"error":      err.Error(),
		})
	}
}
