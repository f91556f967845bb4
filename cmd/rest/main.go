package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"quizbank-be/internal/bootstrap"
	"quizbank-be/internal/config"
	"quizbank-be/internal/server"
	"quizbank-be/internal/tracer"
	"quizbank-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	// Workers register their queue consumers inside the container
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	go func() {
		if err := srv.Run(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// 6. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	if err := srv.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := container.Jobs.Close(); err != nil {
		log.Printf("Queue shutdown error: %v", err)
	}
	if container.EventBus != nil {
		container.EventBus.Close()
	}
	_ = container.Logger.Sync()
}
