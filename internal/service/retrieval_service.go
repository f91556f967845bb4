package service

import (
	"context"
	"math"
	"sort"
	"time"

	"quizbank-be/internal/constant"
	"quizbank-be/internal/dto"
	"quizbank-be/internal/entity"
	"quizbank-be/internal/pkg/apperror"
	"quizbank-be/internal/pkg/logger"
	"quizbank-be/internal/repository/specification"
	"quizbank-be/internal/repository/unitofwork"
	"quizbank-be/pkg/embedding"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

type IRetrievalService interface {
	Search(ctx context.Context, documentId uuid.UUID, query string, topK int) (*dto.SearchResponse, error)
}

type retrievalService struct {
	uowFactory unitofwork.RepositoryFactory
	embedder   embedding.Provider
	queryCache *gocache.Cache
	log        logger.ILogger
}

func NewRetrievalService(
	uowFactory unitofwork.RepositoryFactory,
	embedder embedding.Provider,
	log logger.ILogger,
) IRetrievalService {
	return &retrievalService{
		uowFactory: uowFactory,
		embedder:   embedder,
		queryCache: gocache.New(10*time.Minute, 15*time.Minute),
		log:        log,
	}
}

func (s *retrievalService) Search(ctx context.Context, documentId uuid.UUID, query string, topK int) (*dto.SearchResponse, error) {
	if topK <= 0 {
		topK = constant.DefaultTopKContext
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: documentId})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NotFound("document not found")
	}
	if doc.Status != entity.DocumentIndexed {
		return nil, apperror.Conflictf("document is %s, not INDEXED", doc.Status)
	}

	chunks, err := uow.ChunkRepository().FindAll(ctx,
		specification.ByDocumentId{DocumentId: documentId},
		specification.HasEmbedding{},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, apperror.Conflict("document has no embedded chunks")
	}

	queryVector, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	type scored struct {
		chunk      *entity.Chunk
		similarity float64
	}
	results := make([]scored, len(chunks))
	for i, chunk := range chunks {
		results[i] = scored{
			chunk:      chunk,
			similarity: CosineSimilarity(queryVector, chunk.Embedding),
		}
	}

	// SliceStable keeps creation order among equal scores
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].similarity > results[j].similarity
	})

	if topK > len(results) {
		topK = len(results)
	}

	hits := make([]dto.SearchHit, topK)
	for i := 0; i < topK; i++ {
		r := results[i]
		hits[i] = dto.SearchHit{
			ChunkId:    r.chunk.Id,
			Snippet:    Snippet(r.chunk.ChunkText, constant.SnippetLength),
			Similarity: r.similarity,
			PageStart:  r.chunk.Metadata.PageStart,
			PageEnd:    r.chunk.Metadata.PageEnd,
			TokenCount: r.chunk.TokenCount,
		}
	}

	return &dto.SearchResponse{
		DocumentId: documentId,
		Query:      query,
		Hits:       hits,
	}, nil
}

func (s *retrievalService) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if cached, ok := s.queryCache.Get(query); ok {
		return cached.([]float32), nil
	}

	res, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	s.queryCache.Set(query, res.Vector, gocache.DefaultExpiration)
	return res.Vector, nil
}

// CosineSimilarity returns dot(a,b)/(‖a‖·‖b‖), or 0 when either vector has
// zero norm.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Snippet truncates text to at most max characters.
func Snippet(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
