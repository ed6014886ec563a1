package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/soundprint-labs/soundprint/internal/adapters/acousticbrainz"
	"github.com/soundprint-labs/soundprint/internal/adapters/musicbrainz"
	"github.com/soundprint-labs/soundprint/internal/adapters/ollama"
	"github.com/soundprint-labs/soundprint/internal/adapters/rest"
	"github.com/soundprint-labs/soundprint/internal/adapters/sqlite"
	"github.com/soundprint-labs/soundprint/internal/adapters/youtube"
	"github.com/soundprint-labs/soundprint/internal/core/services"
	"github.com/soundprint-labs/soundprint/internal/logger"
	"github.com/soundprint-labs/soundprint/internal/worker"
)

func main() {
	// 1. Configuration (Environment Variables)
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	log := logger.New()

	port := envOr("PORT", "8080")
	dbPath := envOr("DB_PATH", "soundprint.db")
	workers := envIntOr("WORKERS", 2)
	queueSize := envIntOr("QUEUE_SIZE", 100)

	// 2. Initialize "Driven" Adapters (The Tools)
	// -- Database Adapter
	repo, err := sqlite.NewAdapter(dbPath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer repo.Close()

	// -- Upstream music metadata services
	resolver := musicbrainz.NewClient(os.Getenv("MUSICBRAINZ_URL"), musicbrainz.DefaultConfig())
	features := acousticbrainz.NewClient(os.Getenv("ACOUSTICBRAINZ_URL"), 15*time.Second)

	// -- LLM + video lookup
	recommender := ollama.NewClient(os.Getenv("OLLAMA_HOST"), os.Getenv("OLLAMA_MODEL"))
	media := youtube.NewClient(os.Getenv("YOUTUBE_API_URL"), os.Getenv("YOUTUBE_API_KEY"))
	if os.Getenv("YOUTUBE_API_KEY") == "" {
		log.Warn("YOUTUBE_API_KEY not set; video lookups will fail")
	}

	// 3. Initialize Core Logic (The Driver)
	// We inject the specific adapters into the agnostic services.
	pipeline := services.NewPipeline(resolver, features, services.DefaultPipelineConfig())
	svc := services.NewOrchestrator(repo, recommender, media)

	// 4. Background pool: batches are processed off the request path.
	pool := worker.NewPool(pipeline, repo, queueSize)
	pool.Start(workers)
	defer pool.Stop()

	handler := rest.NewHandler(svc, pool)

	// 5. Start the Server
	log.WithField("port", port).Info("soundprint API is running")

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("shutdown error: %v", err)
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
