package worker

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizbank-be/internal/constant"
	"quizbank-be/internal/dto"
	"quizbank-be/internal/entity"
	"quizbank-be/internal/pkg/logger"
	"quizbank-be/pkg/embedding"
	"quizbank-be/pkg/queue"

	"github.com/google/uuid"
)

type countingEmbedder struct {
	mu      sync.Mutex
	batches [][]string
}

func (e *countingEmbedder) EmbedDocuments(_ context.Context, texts []string) (*embedding.BatchResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.batches = append(e.batches, texts)
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0}
	}
	return &embedding.BatchResult{Vectors: vectors, Model: "fake-embed", Dim: 2}, nil
}

func (e *countingEmbedder) EmbedQuery(_ context.Context, _ string) (*embedding.QueryResult, error) {
	return &embedding.QueryResult{Vector: []float32{1, 0}, Model: "fake-embed", Dim: 2}, nil
}

func (e *countingEmbedder) embeddedTexts() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, b := range e.batches {
		n += len(b)
	}
	return n
}

func chunkDelivery(t *testing.T, job dto.ChunkJob) queue.Delivery {
	t.Helper()
	payload, err := json.Marshal(job)
	require.NoError(t, err)
	return queue.Delivery{Name: constant.JobChunk, Payload: payload, Attempt: 1, MaxAttempts: 3}
}

func embedDelivery(t *testing.T, job dto.EmbedJob) queue.Delivery {
	t.Helper()
	payload, err := json.Marshal(job)
	require.NoError(t, err)
	return queue.Delivery{Name: constant.JobEmbed, Payload: payload, Attempt: 1, MaxAttempts: 3}
}

func newIndexingWorker(t *testing.T, uow *fakeUow, embedder embedding.Provider) (*IndexingWorker, *queue.Queue) {
	t.Helper()
	jobs := queue.New(queue.NewMemoryKeyStore(), logger.NewNopLogger())
	t.Cleanup(func() { _ = jobs.Close() })
	return NewIndexingWorker(&fakeFactory{uow: uow}, embedder, jobs, nil, logger.NewNopLogger()), jobs
}

func seedParsedDocument(uow *fakeUow, pageTexts []string) *entity.Document {
	doc := &entity.Document{
		Id:        uuid.New(),
		Title:     "Basis Data",
		FileType:  "txt",
		Status:    entity.DocumentParsed,
		CreatedAt: time.Now(),
	}
	uow.docs.docs = append(uow.docs.docs, doc)
	for i, text := range pageTexts {
		uow.pages.pages = append(uow.pages.pages, &entity.DocumentPage{
			Id:          uuid.New(),
			DocumentId:  doc.Id,
			PageNo:      i + 1,
			RawText:     text,
			CleanedText: text,
			CreatedAt:   time.Now(),
		})
	}
	return doc
}

func TestChunkJobBuildsChunksAndQueuesEmbed(t *testing.T) {
	uow := newFakeUow()
	doc := seedParsedDocument(uow, []string{
		strings.Repeat("Normalisasi basis data. ", 50),
		strings.Repeat("Indeks dan transaksi. ", 50),
	})

	w, jobs := newIndexingWorker(t, uow, &countingEmbedder{})

	var mu sync.Mutex
	var embedJobs []dto.EmbedJob
	require.NoError(t, jobs.Register(constant.JobEmbed, queue.WorkerConfig{}, func(_ context.Context, d queue.Delivery) error {
		var job dto.EmbedJob
		if err := d.Bind(&job); err != nil {
			return err
		}
		mu.Lock()
		embedJobs = append(embedJobs, job)
		mu.Unlock()
		return nil
	}))

	err := w.handleChunk(context.Background(), chunkDelivery(t, dto.ChunkJob{
		DocumentId:  doc.Id,
		TokenTarget: 100,
		Reset:       true,
	}))
	require.NoError(t, err)

	require.NotEmpty(t, uow.chunks.chunks)
	for _, c := range uow.chunks.chunks {
		assert.Equal(t, doc.Id, c.DocumentId)
		assert.Greater(t, c.TokenCount, 0)
		assert.GreaterOrEqual(t, c.Metadata.PageStart, 1)
	}
	assert.Equal(t, entity.DocumentIndexing, doc.Status)

	deadline := time.Now().Add(3 * time.Second)
	for {
		mu.Lock()
		n := len(embedJobs)
		mu.Unlock()
		if n == 1 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, embedJobs, 1)
	assert.Equal(t, doc.Id, embedJobs[0].DocumentId)
	assert.Equal(t, constant.DefaultEmbedBatchSize, embedJobs[0].BatchSize)
}

func TestChunkJobResetReplacesOldChunks(t *testing.T) {
	uow := newFakeUow()
	doc := seedParsedDocument(uow, []string{strings.Repeat("Materi kuliah. ", 60)})
	stale := &entity.Chunk{Id: uuid.New(), DocumentId: doc.Id, ChunkText: "lama"}
	uow.chunks.chunks = append(uow.chunks.chunks, stale)

	w, _ := newIndexingWorker(t, uow, &countingEmbedder{})

	err := w.handleChunk(context.Background(), chunkDelivery(t, dto.ChunkJob{
		DocumentId: doc.Id,
		Reset:      true,
	}))
	require.NoError(t, err)

	for _, c := range uow.chunks.chunks {
		assert.NotEqual(t, stale.Id, c.Id)
	}
}

func TestChunkJobFailsWithoutPages(t *testing.T) {
	uow := newFakeUow()
	doc := &entity.Document{Id: uuid.New(), Status: entity.DocumentUploaded, CreatedAt: time.Now()}
	uow.docs.docs = append(uow.docs.docs, doc)

	w, _ := newIndexingWorker(t, uow, &countingEmbedder{})

	err := w.handleChunk(context.Background(), chunkDelivery(t, dto.ChunkJob{DocumentId: doc.Id}))
	require.Error(t, err)
	assert.Equal(t, entity.DocumentFailed, doc.Status)
}

func TestEmbedJobResumesFromMissingEmbeddings(t *testing.T) {
	uow := newFakeUow()
	doc := seedParsedDocument(uow, nil)
	doc.Status = entity.DocumentIndexing

	// three chunks already embedded, two still pending
	for i := 0; i < 5; i++ {
		c := &entity.Chunk{
			Id:         uuid.New(),
			DocumentId: doc.Id,
			ChunkText:  "bagian materi",
			CreatedAt:  time.Now(),
		}
		if i < 3 {
			c.Embedding = []float32{1, 0}
		}
		uow.chunks.chunks = append(uow.chunks.chunks, c)
	}

	embedder := &countingEmbedder{}
	w, _ := newIndexingWorker(t, uow, embedder)

	err := w.handleEmbed(context.Background(), embedDelivery(t, dto.EmbedJob{DocumentId: doc.Id, BatchSize: 8}))
	require.NoError(t, err)

	assert.Equal(t, 2, embedder.embeddedTexts(), "only pending chunks get embedded")
	for _, c := range uow.chunks.chunks {
		assert.True(t, c.HasEmbedding())
		assert.Equal(t, "fake-embed", c.Metadata.EmbeddingModel)
	}
	assert.Equal(t, entity.DocumentIndexed, doc.Status)
}

func TestEmbedJobBatchesBySize(t *testing.T) {
	uow := newFakeUow()
	doc := seedParsedDocument(uow, nil)
	doc.Status = entity.DocumentIndexing

	for i := 0; i < 5; i++ {
		uow.chunks.chunks = append(uow.chunks.chunks, &entity.Chunk{
			Id:         uuid.New(),
			DocumentId: doc.Id,
			ChunkText:  "bagian materi",
			CreatedAt:  time.Now(),
		})
	}

	embedder := &countingEmbedder{}
	w, _ := newIndexingWorker(t, uow, embedder)

	err := w.handleEmbed(context.Background(), embedDelivery(t, dto.EmbedJob{DocumentId: doc.Id, BatchSize: 2}))
	require.NoError(t, err)

	require.Len(t, embedder.batches, 3)
	assert.Len(t, embedder.batches[0], 2)
	assert.Len(t, embedder.batches[2], 1)
}
