package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"quizbank-be/internal/constant"
	"quizbank-be/internal/dto"
	"quizbank-be/internal/entity"
	"quizbank-be/internal/pkg/apperror"
	"quizbank-be/internal/pkg/logger"
	"quizbank-be/internal/repository/specification"
	"quizbank-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IBlueprintService interface {
	Create(ctx context.Context, req *dto.CreateBlueprintRequest) (*dto.CreateBlueprintResponse, error)
	BuildItems(ctx context.Context, blueprintId uuid.UUID) (*dto.BuildItemsResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ShowBlueprintResponse, error)
}

type blueprintService struct {
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBlueprintService takes an explicit rand source so item interleaving is
// reproducible under test.
func NewBlueprintService(
	uowFactory unitofwork.RepositoryFactory,
	rng *rand.Rand,
	log logger.ILogger,
) IBlueprintService {
	return &blueprintService{
		uowFactory: uowFactory,
		rng:        rng,
		log:        log,
	}
}

func (s *blueprintService) Create(ctx context.Context, req *dto.CreateBlueprintRequest) (*dto.CreateBlueprintResponse, error) {
	cfg := entity.BlueprintConfig{
		Total:      req.Total,
		McqCount:   req.McqCount,
		EssayCount: req.EssayCount,
		Cognitive: entity.CognitiveSpread{
			LOTS: req.Cognitive.LOTS,
			MOTS: req.Cognitive.MOTS,
			HOTS: req.Cognitive.HOTS,
		},
		Difficulty: entity.DifficultySpread{
			Easy:   req.Difficulty.Easy,
			Medium: req.Difficulty.Medium,
			Hard:   req.Difficulty.Hard,
		},
		TopKContext: req.TopKContext,
	}
	if cfg.TopKContext <= 0 {
		cfg.TopKContext = constant.DefaultTopKContext
	}

	if cfg.McqCount+cfg.EssayCount != cfg.Total {
		return nil, apperror.Invalid("mcq_count + essay_count must equal total")
	}
	if cfg.Cognitive.Sum() != cfg.Total {
		return nil, apperror.Invalid("cognitive counts must sum to total")
	}
	if cfg.Difficulty.Sum() != cfg.Total {
		return nil, apperror.Invalid("difficulty counts must sum to total")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: req.DocumentId})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NotFound("document not found")
	}
	if doc.Status != entity.DocumentIndexed {
		return nil, apperror.Conflictf("document is %s, not INDEXED", doc.Status)
	}

	bp := entity.Blueprint{
		Id:         uuid.New(),
		DocumentId: req.DocumentId,
		Title:      req.Title,
		Config:     cfg,
		CreatedAt:  time.Now(),
	}
	if err := uow.BlueprintRepository().Create(ctx, &bp); err != nil {
		return nil, err
	}

	return &dto.CreateBlueprintResponse{Id: bp.Id}, nil
}

// BuildItems deletes any previous items and regenerates the full set. The
// type, cognitive and difficulty multisets are shuffled independently, so
// per-position assignment is uncorrelated across the three axes while the
// marginal counts always match the config.
func (s *blueprintService) BuildItems(ctx context.Context, blueprintId uuid.UUID) (*dto.BuildItemsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	bp, err := uow.BlueprintRepository().FindOne(ctx, specification.ByID{ID: blueprintId})
	if err != nil {
		return nil, err
	}
	if bp == nil {
		return nil, apperror.NotFound("blueprint not found")
	}

	if err := uow.BlueprintItemRepository().DeleteByBlueprintId(ctx, blueprintId); err != nil {
		return nil, err
	}

	cfg := bp.Config
	types := expand(
		pair[entity.QuestionType]{entity.QuestionMCQ, cfg.McqCount},
		pair[entity.QuestionType]{entity.QuestionEssay, cfg.EssayCount},
	)
	cognitives := expand(
		pair[entity.CognitiveLevel]{entity.CognitiveLOTS, cfg.Cognitive.LOTS},
		pair[entity.CognitiveLevel]{entity.CognitiveMOTS, cfg.Cognitive.MOTS},
		pair[entity.CognitiveLevel]{entity.CognitiveHOTS, cfg.Cognitive.HOTS},
	)
	difficulties := expand(
		pair[entity.Difficulty]{entity.DifficultyEasy, cfg.Difficulty.Easy},
		pair[entity.Difficulty]{entity.DifficultyMedium, cfg.Difficulty.Medium},
		pair[entity.Difficulty]{entity.DifficultyHard, cfg.Difficulty.Hard},
	)

	s.mu.Lock()
	shuffle(s.rng, types)
	shuffle(s.rng, cognitives)
	shuffle(s.rng, difficulties)
	s.mu.Unlock()

	now := time.Now()
	items := make([]*entity.BlueprintItem, cfg.Total)
	for i := 0; i < cfg.Total; i++ {
		items[i] = &entity.BlueprintItem{
			Id:          uuid.New(),
			BlueprintId: blueprintId,
			No:          i + 1,
			Type:        types[i],
			Cognitive:   cognitives[i],
			Difficulty:  difficulties[i],
			CreatedAt:   now,
		}
	}

	if err := uow.BlueprintItemRepository().CreateBulk(ctx, items); err != nil {
		return nil, err
	}

	s.log.Info("blueprint", "items rebuilt", map[string]interface{}{
		"blueprintId": blueprintId.String(),
		"count":       len(items),
	})

	res := &dto.BuildItemsResponse{
		BlueprintId: blueprintId,
		Items:       make([]dto.BlueprintItemResponse, len(items)),
	}
	for i, item := range items {
		res.Items[i] = toItemResponse(item)
	}
	return res, nil
}

func (s *blueprintService) Get(ctx context.Context, id uuid.UUID) (*dto.ShowBlueprintResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	bp, err := uow.BlueprintRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if bp == nil {
		return nil, apperror.NotFound("blueprint not found")
	}

	items, err := uow.BlueprintItemRepository().FindAll(ctx,
		specification.ByBlueprintId{BlueprintId: id},
		specification.OrderBy{Field: "no"},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.ShowBlueprintResponse{
		Id:         bp.Id,
		DocumentId: bp.DocumentId,
		Title:      bp.Title,
		Config:     bp.Config,
		Items:      make([]dto.BlueprintItemResponse, len(items)),
		CreatedAt:  bp.CreatedAt,
	}
	for i, item := range items {
		res.Items[i] = toItemResponse(item)
	}
	return res, nil
}

func toItemResponse(item *entity.BlueprintItem) dto.BlueprintItemResponse {
	return dto.BlueprintItemResponse{
		Id:         item.Id,
		No:         item.No,
		Type:       string(item.Type),
		Cognitive:  string(item.Cognitive),
		Difficulty: string(item.Difficulty),
		Objective:  item.Objective,
	}
}

type pair[T any] struct {
	value T
	count int
}

func expand[T any](pairs ...pair[T]) []T {
	out := make([]T, 0)
	for _, p := range pairs {
		for i := 0; i < p.count; i++ {
			out = append(out, p.value)
		}
	}
	return out
}

func shuffle[T any](rng *rand.Rand, s []T) {
	rng.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}
