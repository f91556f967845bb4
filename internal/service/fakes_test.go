package service

import (
	"context"

	"quizbank-be/internal/entity"
	"quizbank-be/internal/repository/contract"
	"quizbank-be/internal/repository/specification"
	"quizbank-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// In-memory repository fakes. They interpret only the specifications the
// services actually pass: ByID for lookups, ByDocumentId/ByBlueprintId/ByRunId
// for scoping, HasEmbedding/MissingEmbedding for chunk filters. Ordering specs
// are ignored; insertion order stands in for created_at order.

func specUUID(specs []specification.Specification) (uuid.UUID, bool) {
	for _, s := range specs {
		if byID, ok := s.(specification.ByID); ok {
			return byID.ID, true
		}
	}
	return uuid.Nil, false
}

type fakeDocumentRepo struct {
	docs []*entity.Document
}

func (r *fakeDocumentRepo) Create(_ context.Context, doc *entity.Document) error {
	r.docs = append(r.docs, doc)
	return nil
}

func (r *fakeDocumentRepo) Update(_ context.Context, doc *entity.Document) error {
	for i, d := range r.docs {
		if d.Id == doc.Id {
			r.docs[i] = doc
		}
	}
	return nil
}

func (r *fakeDocumentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.DocumentStatus) error {
	for _, d := range r.docs {
		if d.Id == id {
			d.Status = status
		}
	}
	return nil
}

func (r *fakeDocumentRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Document, error) {
	id, ok := specUUID(specs)
	if !ok {
		return nil, nil
	}
	for _, d := range r.docs {
		if d.Id == id {
			return d, nil
		}
	}
	return nil, nil
}

func (r *fakeDocumentRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.Document, error) {
	return r.docs, nil
}

type fakeDocumentPageRepo struct {
	pages []*entity.DocumentPage
}

func (r *fakeDocumentPageRepo) CreateBulk(_ context.Context, pages []*entity.DocumentPage) error {
	r.pages = append(r.pages, pages...)
	return nil
}

func (r *fakeDocumentPageRepo) DeleteByDocumentId(_ context.Context, documentId uuid.UUID) error {
	kept := r.pages[:0]
	for _, p := range r.pages {
		if p.DocumentId != documentId {
			kept = append(kept, p)
		}
	}
	r.pages = kept
	return nil
}

func (r *fakeDocumentPageRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.DocumentPage, error) {
	return r.pages, nil
}

func (r *fakeDocumentPageRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.pages)), nil
}

type fakeChunkRepo struct {
	chunks []*entity.Chunk
}

func (r *fakeChunkRepo) CreateBulk(_ context.Context, chunks []*entity.Chunk) error {
	r.chunks = append(r.chunks, chunks...)
	return nil
}

func (r *fakeChunkRepo) DeleteByDocumentId(_ context.Context, documentId uuid.UUID) error {
	kept := r.chunks[:0]
	for _, c := range r.chunks {
		if c.DocumentId != documentId {
			kept = append(kept, c)
		}
	}
	r.chunks = kept
	return nil
}

func (r *fakeChunkRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Chunk, error) {
	var out []*entity.Chunk
	for _, c := range r.chunks {
		if chunkMatches(c, specs) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeChunkRepo) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	found, _ := r.FindAll(context.Background(), specs...)
	return int64(len(found)), nil
}

func (r *fakeChunkRepo) UpdateEmbedding(_ context.Context, id uuid.UUID, vector []float32, meta entity.ChunkMetadata) error {
	for _, c := range r.chunks {
		if c.Id == id {
			c.Embedding = vector
			c.Metadata.EmbeddingModel = meta.EmbeddingModel
			c.Metadata.EmbeddingDim = meta.EmbeddingDim
		}
	}
	return nil
}

func chunkMatches(c *entity.Chunk, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByDocumentId:
			if c.DocumentId != spec.DocumentId {
				return false
			}
		case specification.HasEmbedding:
			if !c.HasEmbedding() {
				return false
			}
		case specification.MissingEmbedding:
			if c.HasEmbedding() {
				return false
			}
		}
	}
	return true
}

type fakeBlueprintRepo struct {
	blueprints []*entity.Blueprint
}

func (r *fakeBlueprintRepo) Create(_ context.Context, bp *entity.Blueprint) error {
	r.blueprints = append(r.blueprints, bp)
	return nil
}

func (r *fakeBlueprintRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Blueprint, error) {
	id, ok := specUUID(specs)
	if !ok {
		return nil, nil
	}
	for _, bp := range r.blueprints {
		if bp.Id == id {
			return bp, nil
		}
	}
	return nil, nil
}

type fakeBlueprintItemRepo struct {
	items []*entity.BlueprintItem
}

func (r *fakeBlueprintItemRepo) CreateBulk(_ context.Context, items []*entity.BlueprintItem) error {
	r.items = append(r.items, items...)
	return nil
}

func (r *fakeBlueprintItemRepo) DeleteByBlueprintId(_ context.Context, blueprintId uuid.UUID) error {
	kept := r.items[:0]
	for _, item := range r.items {
		if item.BlueprintId != blueprintId {
			kept = append(kept, item)
		}
	}
	r.items = kept
	return nil
}

func (r *fakeBlueprintItemRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.BlueprintItem, error) {
	var out []*entity.BlueprintItem
	for _, item := range r.items {
		match := true
		for _, s := range specs {
			if spec, ok := s.(specification.ByBlueprintId); ok && item.BlueprintId != spec.BlueprintId {
				match = false
			}
		}
		if match {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeBlueprintItemRepo) FindByIds(_ context.Context, ids []uuid.UUID) ([]*entity.BlueprintItem, error) {
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []*entity.BlueprintItem
	for _, item := range r.items {
		if wanted[item.Id] {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeBlueprintItemRepo) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	found, _ := r.FindAll(context.Background(), specs...)
	return int64(len(found)), nil
}

type fakeGenerationRunRepo struct {
	runs []*entity.GenerationRun
}

func (r *fakeGenerationRunRepo) Create(_ context.Context, run *entity.GenerationRun) error {
	r.runs = append(r.runs, run)
	return nil
}

func (r *fakeGenerationRunRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.RunStatus) error {
	for _, run := range r.runs {
		if run.Id == id {
			run.Status = status
		}
	}
	return nil
}

func (r *fakeGenerationRunRepo) IncrementDone(_ context.Context, id uuid.UUID, n int) error {
	for _, run := range r.runs {
		if run.Id == id {
			run.DoneItems += n
		}
	}
	return nil
}

func (r *fakeGenerationRunRepo) IncrementFailed(_ context.Context, id uuid.UUID, n int) error {
	for _, run := range r.runs {
		if run.Id == id {
			run.FailedItems += n
		}
	}
	return nil
}

func (r *fakeGenerationRunRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.GenerationRun, error) {
	id, ok := specUUID(specs)
	if !ok {
		return nil, nil
	}
	for _, run := range r.runs {
		if run.Id == id {
			return run, nil
		}
	}
	return nil, nil
}

type fakeQuestionRepo struct {
	questions []*entity.Question
}

func (r *fakeQuestionRepo) Create(_ context.Context, q *entity.Question) error {
	r.questions = append(r.questions, q)
	return nil
}

func (r *fakeQuestionRepo) UpdateByRunAndItem(_ context.Context, q *entity.Question) error {
	for i, existing := range r.questions {
		if existing.RunId == q.RunId && existing.BlueprintItemId == q.BlueprintItemId {
			r.questions[i] = q
		}
	}
	return nil
}

func (r *fakeQuestionRepo) FindByRunAndItem(_ context.Context, runId, blueprintItemId uuid.UUID) (*entity.Question, error) {
	for _, q := range r.questions {
		if q.RunId == runId && q.BlueprintItemId == blueprintItemId {
			return q, nil
		}
	}
	return nil, nil
}

func (r *fakeQuestionRepo) ExistingItemIds(_ context.Context, runId uuid.UUID, itemIds []uuid.UUID) ([]uuid.UUID, error) {
	wanted := make(map[uuid.UUID]bool, len(itemIds))
	for _, id := range itemIds {
		wanted[id] = true
	}
	var out []uuid.UUID
	for _, q := range r.questions {
		if q.RunId == runId && wanted[q.BlueprintItemId] {
			out = append(out, q.BlueprintItemId)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Question, error) {
	var out []*entity.Question
	for _, q := range r.questions {
		match := true
		for _, s := range specs {
			if spec, ok := s.(specification.ByRunId); ok && q.RunId != spec.RunId {
				match = false
			}
		}
		if match {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) DeleteByRunId(_ context.Context, runId uuid.UUID) error {
	kept := r.questions[:0]
	for _, q := range r.questions {
		if q.RunId != runId {
			kept = append(kept, q)
		}
	}
	r.questions = kept
	return nil
}

type fakeUow struct {
	docs      *fakeDocumentRepo
	pages     *fakeDocumentPageRepo
	chunks    *fakeChunkRepo
	bps       *fakeBlueprintRepo
	items     *fakeBlueprintItemRepo
	runs      *fakeGenerationRunRepo
	questions *fakeQuestionRepo
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		docs:      &fakeDocumentRepo{},
		pages:     &fakeDocumentPageRepo{},
		chunks:    &fakeChunkRepo{},
		bps:       &fakeBlueprintRepo{},
		items:     &fakeBlueprintItemRepo{},
		runs:      &fakeGenerationRunRepo{},
		questions: &fakeQuestionRepo{},
	}
}

func (u *fakeUow) Begin(_ context.Context) error { return nil }
func (u *fakeUow) Commit() error                 { return nil }
func (u *fakeUow) Rollback() error               { return nil }

func (u *fakeUow) DocumentRepository() contract.DocumentRepository           { return u.docs }
func (u *fakeUow) DocumentPageRepository() contract.DocumentPageRepository   { return u.pages }
func (u *fakeUow) ChunkRepository() contract.ChunkRepository                 { return u.chunks }
func (u *fakeUow) BlueprintRepository() contract.BlueprintRepository         { return u.bps }
func (u *fakeUow) BlueprintItemRepository() contract.BlueprintItemRepository { return u.items }
func (u *fakeUow) GenerationRunRepository() contract.GenerationRunRepository { return u.runs }
func (u *fakeUow) QuestionRepository() contract.QuestionRepository           { return u.questions }

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork {
	return f.uow
}
