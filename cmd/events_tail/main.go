package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"quizbank-be/pkg/events"
	"quizbank-be/pkg/nats"

	"github.com/joho/godotenv"
)

// Tails pipeline lifecycle events from NATS. Useful while watching a long
// indexing or generation run without polling the REST API.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	sub, err := nats.NewSubscriber(natsURL)
	if err != nil {
		log.Fatalf("Error: Failed to connect to NATS at %s: %v", natsURL, err)
	}
	defer sub.Close()

	err = sub.Subscribe("pipeline.>", "events-tail", func(_ context.Context, event events.Event) error {
		pretty, err := json.Marshal(event.Payload())
		if err != nil {
			return err
		}
		fmt.Printf("[%s] %s %s\n", event.Timestamp().Format("15:04:05"), event.EventType(), pretty)
		return nil
	})
	if err != nil {
		log.Fatalf("Error: Failed to subscribe: %v", err)
	}

	log.Println("Tailing pipeline events. Ctrl+C to stop.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}
