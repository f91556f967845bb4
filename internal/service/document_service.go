package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
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

type IDocumentService interface {
	Upload(ctx context.Context, title, fileType string, data []byte) (*dto.UploadDocumentResponse, error)
	RequestParse(ctx context.Context, id uuid.UUID) (*dto.ParseDocumentResponse, error)
	RequestIndex(ctx context.Context, id uuid.UUID) (*dto.IndexDocumentResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowDocumentResponse, error)
	GetAll(ctx context.Context) ([]*dto.ShowDocumentResponse, error)
	Pages(ctx context.Context, id uuid.UUID) ([]*dto.DocumentPageResponse, error)
	Chunks(ctx context.Context, id uuid.UUID) ([]*dto.DocumentChunkResponse, error)
}

type documentService struct {
	uowFactory unitofwork.RepositoryFactory
	jobs       *queue.Queue
	log        logger.ILogger
	uploadDir  string
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	jobs *queue.Queue,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory: uowFactory,
		jobs:       jobs,
		log:        log,
		uploadDir:  "./uploads",
	}
}

func (s *documentService) Upload(ctx context.Context, title, fileType string, data []byte) (*dto.UploadDocumentResponse, error) {
	if len(data) == 0 {
		return nil, apperror.Invalid("empty file")
	}

	id := uuid.New()
	fileRef := filepath.Join(s.uploadDir, fmt.Sprintf("%s.%s", id, fileType))

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(fileRef, data, 0o644); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc := entity.Document{
		Id:        id,
		Title:     title,
		FileRef:   fileRef,
		FileType:  fileType,
		Status:    entity.DocumentUploaded,
		CreatedAt: time.Now(),
	}
	if err := uow.DocumentRepository().Create(ctx, &doc); err != nil {
		return nil, err
	}

	s.log.Info("document", "document uploaded", map[string]interface{}{
		"documentId": doc.Id.String(),
		"fileType":   fileType,
		"bytes":      len(data),
	})

	return &dto.UploadDocumentResponse{Id: doc.Id, Status: string(doc.Status)}, nil
}

// RequestParse queues a standalone re-parse without chaining into chunking.
func (s *documentService) RequestParse(ctx context.Context, id uuid.UUID) (*dto.ParseDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NotFound("document not found")
	}
	if doc.Status == entity.DocumentParsing || doc.Status == entity.DocumentIndexing {
		return nil, apperror.Conflictf("document is %s, retry later", doc.Status)
	}

	err = s.jobs.Enqueue(ctx, constant.JobParse, "",
		dto.ParseJob{DocumentId: doc.Id},
		queue.Options{Attempts: 3, Backoff: time.Second})
	if err != nil {
		return nil, err
	}

	return &dto.ParseDocumentResponse{Id: doc.Id, Status: string(doc.Status)}, nil
}

// RequestIndex drives the parse-then-index state machine. A fresh or failed
// document gets a parse job that chains into chunking; an already parsed one
// skips straight to chunking with a reset. Mid-flight documents are rejected
// so duplicate work is never queued.
func (s *documentService) RequestIndex(ctx context.Context, id uuid.UUID) (*dto.IndexDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NotFound("document not found")
	}

	var queued string
	switch doc.Status {
	case entity.DocumentUploaded, entity.DocumentFailed:
		err = s.jobs.Enqueue(ctx, constant.JobParse, "",
			dto.ParseJob{DocumentId: doc.Id, ChainIndex: true},
			queue.Options{Attempts: 3, Backoff: time.Second})
		queued = "parse"
	case entity.DocumentParsed, entity.DocumentIndexed:
		err = s.jobs.Enqueue(ctx, constant.JobChunk, "",
			dto.ChunkJob{DocumentId: doc.Id, TokenTarget: constant.DefaultTokenTarget, Reset: true},
			queue.Options{Attempts: 3, Backoff: time.Second})
		queued = "chunk"
	default:
		return nil, apperror.Conflictf("document is %s, retry later", doc.Status)
	}
	if err != nil {
		return nil, err
	}

	return &dto.IndexDocumentResponse{
		Id:     doc.Id,
		Status: string(doc.Status),
		Queued: queued,
	}, nil
}

func (s *documentService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NotFound("document not found")
	}

	pageCount, err := uow.DocumentPageRepository().Count(ctx, specification.ByDocumentId{DocumentId: id})
	if err != nil {
		return nil, err
	}
	chunkCount, err := uow.ChunkRepository().Count(ctx, specification.ByDocumentId{DocumentId: id})
	if err != nil {
		return nil, err
	}

	return toDocumentResponse(doc, int(pageCount), int(chunkCount)), nil
}

func (s *documentService) GetAll(ctx context.Context) ([]*dto.ShowDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	docs, err := uow.DocumentRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ShowDocumentResponse, len(docs))
	for i, doc := range docs {
		result[i] = toDocumentResponse(doc, 0, 0)
	}
	return result, nil
}

func (s *documentService) Pages(ctx context.Context, id uuid.UUID) ([]*dto.DocumentPageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NotFound("document not found")
	}

	pages, err := uow.DocumentPageRepository().FindAll(ctx,
		specification.ByDocumentId{DocumentId: id},
		specification.OrderBy{Field: "page_no"},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.DocumentPageResponse, len(pages))
	for i, p := range pages {
		result[i] = &dto.DocumentPageResponse{
			Id:          p.Id,
			PageNo:      p.PageNo,
			CleanedText: p.CleanedText,
			CreatedAt:   p.CreatedAt,
		}
	}
	return result, nil
}

func (s *documentService) Chunks(ctx context.Context, id uuid.UUID) ([]*dto.DocumentChunkResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NotFound("document not found")
	}

	chunks, err := uow.ChunkRepository().FindAll(ctx,
		specification.ByDocumentId{DocumentId: id},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.DocumentChunkResponse, len(chunks))
	for i, c := range chunks {
		result[i] = &dto.DocumentChunkResponse{
			Id:         c.Id,
			ChunkText:  c.ChunkText,
			TokenCount: c.TokenCount,
			PageStart:  c.Metadata.PageStart,
			PageEnd:    c.Metadata.PageEnd,
			Embedded:   c.HasEmbedding(),
			CreatedAt:  c.CreatedAt,
		}
	}
	return result, nil
}

func toDocumentResponse(doc *entity.Document, pageCount, chunkCount int) *dto.ShowDocumentResponse {
	return &dto.ShowDocumentResponse{
		Id:           doc.Id,
		Title:        doc.Title,
		FileType:     doc.FileType,
		Status:       string(doc.Status),
		QualityScore: doc.QualityScore,
		PageCount:    pageCount,
		ChunkCount:   chunkCount,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}
