package infrastructure

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMemoryCache(t *testing.T) {
	cache := NewMemoryCache(1 * time.Hour)
	defer cache.Close()
	ctx := context.Background()

	entry := &CacheEntry{Backend: "huggingface", Summary: "Test summary."}
	if err := cache.Set(ctx, "test-key", entry); err != nil {
		t.Fatalf("Failed to set cache entry: %v", err)
	}

	retrieved, err := cache.Get(ctx, "test-key")
	if err != nil {
		t.Fatalf("Failed to get cache entry: %v", err)
	}
	if retrieved.Summary != entry.Summary {
		t.Errorf("Expected summary '%s', got '%s'", entry.Summary, retrieved.Summary)
	}
	if retrieved.Key != "test-key" || retrieved.AccessCount != 1 {
		t.Errorf("Unexpected entry metadata: %+v", retrieved)
	}

	if _, err := cache.Get(ctx, "non-existent"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}

	stats, err := cache.GetStats(ctx)
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if stats.TotalEntries != 1 || stats.HitCount != 1 || stats.MissCount != 1 || stats.HitRate != 0.5 {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	if err := cache.Delete(ctx, "test-key"); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if _, err := cache.Get(ctx, "test-key"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	cache := NewMemoryCache(50 * time.Millisecond)
	defer cache.Close()
	ctx := context.Background()

	cache.Set(ctx, "a", &CacheEntry{Summary: "a"})
	cache.Set(ctx, "b", &CacheEntry{Summary: "b"})

	time.Sleep(100 * time.Millisecond)

	removed, err := cache.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 pruned entries, got %d", removed)
	}
	if _, err := cache.Get(ctx, "a"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected expired entry to miss, got %v", err)
	}
}

func TestMemoryCacheCloseIsIdempotent(t *testing.T) {
	cache := NewMemoryCache(time.Hour)
	if err := cache.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("Second Close failed: %v", err)
	}
}

func TestGenerateKey(t *testing.T) {
	a := GenerateKey("huggingface", "summarize: good")
	b := GenerateKey("huggingface", "summarize: good")
	c := GenerateKey("gemini", "summarize: good")

	if a != b {
		t.Error("Expected identical inputs to produce identical keys")
	}
	if a == c {
		t.Error("Expected different backends to produce different keys")
	}
	if !strings.HasPrefix(a, "summary:") || len(a) != len("summary:")+32 {
		t.Errorf("Unexpected key format: %s", a)
	}
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()

	cache, err := NewCache(ctx, &Config{CacheType: CacheTypeNone})
	if err != nil || cache != nil {
		t.Errorf("Expected no cache for type none, got %v, %v", cache, err)
	}

	cache, err = NewCache(ctx, &Config{CacheType: CacheTypeMemory, CacheDurationHours: 1})
	if err != nil {
		t.Fatalf("Failed to create memory cache: %v", err)
	}
	defer cache.Close()
	if _, ok := cache.(*MemoryCache); !ok {
		t.Errorf("Expected *MemoryCache, got %T", cache)
	}

	if _, err := NewCache(ctx, &Config{CacheType: "redis"}); err == nil {
		t.Error("Expected error for unsupported cache type")
	}
}

func TestExpiredMetadata(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		metadata map[string]string
		expected bool
	}{
		{"past", map[string]string{"expires_at": "2026-01-01T11:00:00Z"}, true},
		{"future", map[string]string{"expires_at": "2026-01-01T13:00:00Z"}, false},
		{"missing", nil, false},
		{"malformed", map[string]string{"expires_at": "tomorrow"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expired(tt.metadata, now); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
