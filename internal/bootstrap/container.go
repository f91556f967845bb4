package bootstrap

import (
	"context"
	"log"
	"math/rand"
	"time"

	"quizbank-be/internal/config"
	"quizbank-be/internal/controller"
	"quizbank-be/internal/pkg/logger"
	"quizbank-be/internal/repository/unitofwork"
	"quizbank-be/internal/service"
	"quizbank-be/internal/worker"
	"quizbank-be/pkg/embedding"
	embeddinggemini "quizbank-be/pkg/embedding/gemini"
	"quizbank-be/pkg/llm"
	llmgemini "quizbank-be/pkg/llm/gemini"
	"quizbank-be/pkg/parser"
	"quizbank-be/pkg/queue"

	pktNats "quizbank-be/pkg/nats"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DocumentController   controller.IDocumentController
	BlueprintController  controller.IBlueprintController
	GenerationController controller.IGenerationController

	// Exposed for main.go to drain on shutdown
	Jobs     *queue.Queue
	EventBus *pktNats.Publisher
	Logger   logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis backs job dedupe keys; without it the queue falls back to
	// process-local dedupe
	var jobKeys queue.KeyStore
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Using in-memory job dedupe", err)
		jobKeys = queue.NewMemoryKeyStore()
	} else {
		jobKeys = queue.NewRedisKeyStore(rdb, 24*time.Hour)
	}

	jobs := queue.New(jobKeys, sysLogger)

	// 3. AI Providers
	embeddingProvider := embedding.Provider(embeddinggemini.NewGeminiProvider(
		cfg.Ai.GoogleGeminiKey,
		cfg.Ai.EmbeddingModel,
		cfg.Ai.EmbeddingDim,
	))
	log.Printf("[INFO] Using Embedding Provider: GEMINI (%s)", cfg.Ai.EmbeddingModel)

	llmClient := llm.NewClient(llmgemini.NewGeminiProvider(
		cfg.Ai.GoogleGeminiKey,
		cfg.Ai.GenerationModel,
	))
	log.Printf("[INFO] Using LLM Provider: GEMINI (%s)", cfg.Ai.GenerationModel)

	docParser := parser.New(parser.NewTextExtractor())

	// 4. Services
	documentService := service.NewDocumentService(uowFactory, jobs, sysLogger)
	retrievalService := service.NewRetrievalService(uowFactory, embeddingProvider, sysLogger)
	blueprintService := service.NewBlueprintService(
		uowFactory,
		rand.New(rand.NewSource(time.Now().UnixNano())),
		sysLogger,
	)
	generationService := service.NewGenerationService(uowFactory, jobs, sysLogger)

	// 5. Workers
	documentWorker := worker.NewDocumentWorker(uowFactory, docParser, jobs, natsPub, sysLogger)
	indexingWorker := worker.NewIndexingWorker(uowFactory, embeddingProvider, jobs, natsPub, sysLogger)
	generationWorker := worker.NewGenerationWorker(
		uowFactory,
		llmClient,
		jobs,
		natsPub,
		sysLogger,
		cfg.Pipeline.GenerationRPM,
	)

	if err := documentWorker.Register(); err != nil {
		log.Fatalf("[FATAL] Failed to register document worker: %v", err)
	}
	if err := indexingWorker.Register(); err != nil {
		log.Fatalf("[FATAL] Failed to register indexing worker: %v", err)
	}
	if err := generationWorker.Register(); err != nil {
		log.Fatalf("[FATAL] Failed to register generation worker: %v", err)
	}

	// 6. Controllers
	return &Container{
		DocumentController:   controller.NewDocumentController(documentService, retrievalService),
		BlueprintController:  controller.NewBlueprintController(blueprintService),
		GenerationController: controller.NewGenerationController(generationService),

		Jobs:     jobs,
		EventBus: natsPub,
		Logger:   sysLogger,
	}
}
