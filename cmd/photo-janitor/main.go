package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"dayzone/internal/config"
	"dayzone/internal/queue"
)

func main() {
	cfg := config.Load()
	if cfg.AMQPURL == "" {
		log.Fatal("AMQP_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := queue.NewConsumer(cfg.AMQPURL, cfg.PhotoQueue, queue.NewJanitor(cfg.UploadDir))
	log.Printf("photo-janitor: consuming %q, upload root %q", cfg.PhotoQueue, cfg.UploadDir)

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("photo-janitor: %v", err)
	}
	log.Println("photo-janitor: stopped")
}
