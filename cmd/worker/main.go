package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"ukuvi-assistant/cmd"
	"ukuvi-assistant/internal/config"
	"ukuvi-assistant/internal/messaging"
)

func main() {
	log.Println("Starting Worker Process...")

	cmd.LoadEnvFile()
	cfg := cmd.LoadConfig()

	if cfg.Queue != config.QueueRabbitMQ {
		log.Fatalf("worker requires QUEUE=rabbitmq, got %q", cfg.Queue)
	}

	store := cmd.CreateStore(cfg)

	receiver, err := messaging.NewRabbitMQReceiver(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("Worker: Failed to start message consumer: %v", err)
	}

	worker := messaging.NewConversationWorker(store, receiver, cfg.WriteTimeout)

	go worker.Start()

	log.Println("Worker started. Waiting for tasks. Press Ctrl+C to exit.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Unacknowledged deliveries are requeued by the broker once the
	// connection closes.
	log.Println("Shutdown signal received, stopping worker...")
	worker.Stop()

	log.Println("Worker process stopped.")
}
