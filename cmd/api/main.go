package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ukuvi-assistant/cmd"
	"ukuvi-assistant/internal/api"
	"ukuvi-assistant/internal/config"
	"ukuvi-assistant/internal/messaging"
	"ukuvi-assistant/internal/ratelimit"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func createPublisher(cfg *config.Config) (messaging.Publisher, *messaging.InMemoryQueue) {
	if cfg.Queue == config.QueueRabbitMQ {
		publisher, err := messaging.NewRabbitMQPublisher(cfg.RabbitMQURL)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		return publisher, nil
	}

	queue := messaging.NewInMemoryQueue(cfg.QueueSize)
	return queue, queue
}

func main() {
	log.Println("Starting API Server...")

	cmd.LoadEnvFile()
	cfg := cmd.LoadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source, closeRules := cmd.CreateRuleSource(ctx, cfg)
	defer closeRules()

	responder := cmd.CreateResponder(cfg, source)
	store := cmd.CreateStore(cfg)
	objects := cmd.CreateObjectStore(ctx, cfg)

	limiter := ratelimit.NewSlidingWindow(ratelimit.Config{
		Cap:         cfg.RateLimit,
		Window:      cfg.RateLimitWindow,
		MaxSessions: cfg.RateLimitMaxSessions,
	})
	limiter.StartSweeper(ctx, cfg.RateLimitSweepInterval)

	publisher, queue := createPublisher(cfg)

	var worker *messaging.ConversationWorker
	workerDone := make(chan struct{})
	if queue != nil {
		worker = messaging.NewConversationWorker(store, queue, cfg.WriteTimeout)
		go func() {
			worker.Start()
			close(workerDone)
		}()
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	chatHandler := api.NewChatService(limiter, responder, publisher, store)
	backendHandler := api.NewBackendService(store, objects, cfg.ExportBucket, responder, source)

	backendHandler.AddRoutes(r)
	r.Route("/api", func(r chi.Router) {
		chatHandler.AddRoutes(r)
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		slog.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	slog.Info("server started", "port", cfg.Port, "responder", responder.Name(), "store", cfg.Store, "queue", cfg.Queue)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.Port, err)
	}

	// Drain pending conversation writes before exiting.
	if worker != nil {
		worker.Stop()
		<-workerDone
	} else {
		publisher.Close()
	}

	slog.Info("server stopped")
}
