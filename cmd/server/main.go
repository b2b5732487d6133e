package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pep299/review-summarizer/internal/application"
	"github.com/pep299/review-summarizer/internal/transport/server"
)

var (
	Version   string = "dev"
	Commit    string = "unknown"
	BuildTime string = "unknown"
)

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showHelp {
		fmt.Printf("Review Summarizer Server\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nEnvironment Variables:\n")
		fmt.Printf("  SUMMARIZER_BACKEND    huggingface or gemini (default: huggingface)\n")
		fmt.Printf("  HF_API_TOKEN          Hugging Face inference token\n")
		fmt.Printf("  GEMINI_API_KEY        Gemini API key (gemini backend only)\n")
		fmt.Printf("  MODEL_NAME            Summarization model (default: t5-small)\n")
		fmt.Printf("  PORT                  Server port (default: 8080)\n")
		fmt.Printf("  HOST                  Server host (default: 0.0.0.0)\n")
		fmt.Printf("  AUTH_TOKEN            Bearer token for /summaries and /scores\n")
		fmt.Printf("  CACHE_TYPE            none, memory or cloud-storage (default: none)\n")
		fmt.Printf("  CACHE_PRUNE_SCHEDULE  Cron schedule for cache pruning (default: @hourly)\n")
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("Review Summarizer Server\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Commit: %s\n", Commit)
		fmt.Printf("Build Time: %s\n", BuildTime)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := application.New(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Close()

	cfg := app.Config
	logger := app.Logger

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:      server.NewRouter(app),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.ModelTimeoutDuration() + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	c := cron.New()
	if app.Cache != nil {
		_, err := c.AddFunc(cfg.CachePruneSchedule, func() {
			removed, err := app.PruneCache(ctx)
			if err != nil {
				logger.Error("Cache prune failed", "error", err)
				return
			}
			stats, err := app.CacheStats(ctx)
			if err != nil {
				logger.Warn("Cache pruned, stats unavailable", "removed", removed, "error", err)
				return
			}
			logger.Info("Cache pruned",
				"removed", removed,
				"entries", stats.TotalEntries,
				"hit_rate", stats.HitRate,
				"size_bytes", stats.SizeBytes)
		})
		if err != nil {
			logger.Error("Failed to schedule cache pruning", "schedule", cfg.CachePruneSchedule, "error", err)
		} else {
			logger.Info("Scheduled cache pruning", "schedule", cfg.CachePruneSchedule)
		}
	}
	c.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("Starting server", "addr", httpServer.Addr, "version", Version, "backend", cfg.Backend)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-sigChan
	logger.Info("Shutting down server")

	cancel()
	<-c.Stop().Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownWait)*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
