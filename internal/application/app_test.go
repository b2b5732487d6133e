package application

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pep299/review-summarizer/internal/infrastructure"
	"github.com/pep299/review-summarizer/internal/mocks"
	"github.com/pep299/review-summarizer/internal/model"
	"github.com/pep299/review-summarizer/internal/repository"
)

func testConfig() *infrastructure.Config {
	return &infrastructure.Config{
		MaxUploadMB:    1,
		Backend:        repository.BackendHuggingFace,
		HFBaseURL:      "http://127.0.0.1:1",
		ModelName:      "t5-small",
		Device:         "auto",
		ModelTimeout:   5,
		MaxInputTokens: 512,
		MaxReviews:     200,
		CacheType:      infrastructure.CacheTypeNone,
		LogFormat:      "text",
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildDefaults(t *testing.T) {
	app, err := Build(context.Background(), testConfig(), discardLogger(), &mocks.MockSummarizer{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer app.Close()

	if app.Cache != nil {
		t.Error("Expected no cache for CACHE_TYPE=none")
	}
	if app.Service == nil || app.SummariesHandler == nil || app.ScoresHandler == nil {
		t.Fatal("Expected service and handlers to be wired")
	}

	removed, err := app.PruneCache(context.Background())
	if err != nil || removed != 0 {
		t.Errorf("PruneCache without cache = %d, %v", removed, err)
	}
	if stats, err := app.CacheStats(context.Background()); stats != nil || err != nil {
		t.Errorf("CacheStats without cache = %+v, %v", stats, err)
	}
}

func TestBuildWithLexiconFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	if err := os.WriteFile(path, []byte("price: [bargain, steal]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.LexiconFile = path

	app, err := Build(context.Background(), cfg, discardLogger(), &mocks.MockSummarizer{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer app.Close()

	got := app.Service.Lexicon().Keywords(model.AspectPrice)
	if strings.Join(got, ",") != "bargain,steal" {
		t.Errorf("Expected lexicon override, got %v", got)
	}
}

func TestBuildErrors(t *testing.T) {
	invalidLexicon := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(invalidLexicon, []byte("colour: [red]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		modify  func(*infrastructure.Config)
		wantErr string
	}{
		{
			name:    "missing lexicon file",
			modify:  func(c *infrastructure.Config) { c.LexiconFile = filepath.Join(t.TempDir(), "missing.yaml") },
			wantErr: "loading aspect lexicon",
		},
		{
			name:    "unknown lexicon aspect",
			modify:  func(c *infrastructure.Config) { c.LexiconFile = invalidLexicon },
			wantErr: "loading aspect lexicon",
		},
		{
			name:    "unsupported cache type",
			modify:  func(c *infrastructure.Config) { c.CacheType = "redis" },
			wantErr: "creating cache",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(cfg)

			_, err := Build(context.Background(), cfg, discardLogger(), &mocks.MockSummarizer{})
			if err == nil {
				t.Fatal("Expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBuildWithMemoryCache(t *testing.T) {
	cfg := testConfig()
	cfg.CacheType = infrastructure.CacheTypeMemory
	cfg.CacheDurationHours = 1

	app, err := Build(context.Background(), cfg, discardLogger(), &mocks.MockSummarizer{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if app.Cache == nil {
		t.Fatal("Expected memory cache")
	}
	stats, err := app.CacheStats(context.Background())
	if err != nil || stats == nil || stats.TotalEntries != 0 {
		t.Errorf("Unexpected cache stats: %+v, %v", stats, err)
	}
	if err := app.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestNewBackend(t *testing.T) {
	cfg := testConfig()
	backend, err := NewBackend(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewBackend failed: %v", err)
	}
	if backend.Name() != repository.BackendHuggingFace {
		t.Errorf("Expected huggingface backend, got %s", backend.Name())
	}

	cfg.Backend = "openai"
	if _, err := NewBackend(context.Background(), cfg); err == nil {
		t.Error("Expected error for unsupported backend")
	}
}
