package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pep299/review-summarizer/internal/aspect"
	"github.com/pep299/review-summarizer/internal/composer"
	"github.com/pep299/review-summarizer/internal/infrastructure"
	"github.com/pep299/review-summarizer/internal/repository"
	"github.com/pep299/review-summarizer/internal/review"
	"github.com/pep299/review-summarizer/internal/service"
	"github.com/pep299/review-summarizer/internal/transport/handler"
)

// Application represents the application with all business logic components
type Application struct {
	Config  *infrastructure.Config
	Logger  *slog.Logger
	Cache   infrastructure.Cache
	Service *service.Summary

	SummariesHandler *handler.Summaries
	ScoresHandler    *handler.Scores
	AspectsHandler   *handler.Aspects
	ConfigHandler    *handler.Config
	CacheHandler     *handler.CacheStats

	closers []io.Closer
}

// New loads configuration and creates an application instance with all
// dependencies.
func New(ctx context.Context) (*Application, error) {
	cfg, err := infrastructure.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, logCloser := infrastructure.NewLogger(cfg)

	backend, err := NewBackend(ctx, cfg)
	if err != nil {
		logCloser.Close()
		return nil, err
	}

	app, err := Build(ctx, cfg, logger, backend)
	if err != nil {
		logCloser.Close()
		return nil, err
	}
	app.closers = append(app.closers, logCloser)
	return app, nil
}

// NewLocal creates an application that can load and rank reviews but has
// no summarization backend. Its Service rejects Summarize calls.
func NewLocal(ctx context.Context) (*Application, error) {
	cfg, err := infrastructure.LoadLocal()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, logCloser := infrastructure.NewLogger(cfg)

	loader, scorer, lexicon, err := buildScoring(cfg, logger)
	if err != nil {
		logCloser.Close()
		return nil, err
	}

	return &Application{
		Config:         cfg,
		Logger:         logger,
		Service:        service.NewSummary(loader, scorer, nil, logger),
		AspectsHandler: handler.NewAspects(lexicon),
		closers:        []io.Closer{logCloser},
	}, nil
}

// NewBackend creates the summarization backend selected by cfg.
func NewBackend(ctx context.Context, cfg *infrastructure.Config) (repository.Backend, error) {
	switch cfg.Backend {
	case repository.BackendGemini:
		client, err := repository.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.ModelMaxLength)
		if err != nil {
			return nil, fmt.Errorf("creating gemini backend: %w", err)
		}
		return client, nil
	case repository.BackendHuggingFace:
		return repository.NewHuggingFaceClient(repository.HuggingFaceConfig{
			BaseURL: cfg.HFBaseURL,
			Token:   cfg.HFAPIToken,
			Model:   cfg.ModelName,
			UseGPU:  cfg.UseGPU(),
			Params: repository.GenerationParams{
				MaxLength:     cfg.ModelMaxLength,
				MinLength:     cfg.ModelMinLength,
				NumBeams:      cfg.ModelNumBeams,
				EarlyStopping: true,
			},
			Timeout: cfg.ModelTimeoutDuration(),
		}), nil
	default:
		return nil, fmt.Errorf("unsupported summarizer backend: %s", cfg.Backend)
	}
}

// Build wires an application around an existing backend.
func Build(ctx context.Context, cfg *infrastructure.Config, logger *slog.Logger, backend repository.Backend) (*Application, error) {
	loader, scorer, lexicon, err := buildScoring(cfg, logger)
	if err != nil {
		return nil, err
	}

	var closers []io.Closer
	if c, ok := backend.(io.Closer); ok {
		closers = append(closers, c)
	}

	cache, err := infrastructure.NewCache(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}
	summarizer := backend
	if cache != nil {
		summarizer = repository.NewCachedBackend(backend, cache, logger)
		closers = append(closers, cache)
		logger.Info("Summary cache enabled", "type", cfg.CacheType)
	}

	comp := composer.New(summarizer, scorer, composer.Options{
		MaxInputTokens: cfg.MaxInputTokens,
		MaxReviews:     cfg.MaxReviews,
		Backend:        backend.Name(),
		Timeout:        cfg.ModelTimeoutDuration(),
	}, logger)

	svc := service.NewSummary(loader, scorer, comp, logger)

	logger.Info("Application initialized",
		"backend", backend.Name(),
		"device", cfg.Device,
		"max_reviews", cfg.MaxReviews,
		"max_input_tokens", cfg.MaxInputTokens)

	return &Application{
		Config:           cfg,
		Logger:           logger,
		Cache:            cache,
		Service:          svc,
		SummariesHandler: handler.NewSummaries(svc, cfg.MaxUploadBytes()),
		ScoresHandler:    handler.NewScores(svc, cfg.MaxUploadBytes()),
		AspectsHandler:   handler.NewAspects(lexicon),
		ConfigHandler:    handler.NewConfig(cfg),
		CacheHandler:     handler.NewCacheStats(cache),
		closers:          closers,
	}, nil
}

func buildScoring(cfg *infrastructure.Config, logger *slog.Logger) (*review.Loader, *aspect.Scorer, aspect.Lexicon, error) {
	lexicon := aspect.DefaultLexicon()
	if cfg.LexiconFile != "" {
		var err error
		lexicon, err = aspect.LoadLexicon(cfg.LexiconFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("loading aspect lexicon: %w", err)
		}
		logger.Info("Loaded aspect lexicon", "file", cfg.LexiconFile)
	}

	loaderOpts := review.Options{MaxReviews: cfg.MaxReviews}
	if cfg.SkipNonEnglish {
		loaderOpts.Detector = review.NewLinguaDetector()
	}
	return review.NewLoader(loaderOpts, logger), aspect.NewScorer(lexicon), lexicon, nil
}

// PruneCache removes expired cache entries. It is a no-op without a cache.
func (a *Application) PruneCache(ctx context.Context) (int, error) {
	if a.Cache == nil {
		return 0, nil
	}
	return a.Cache.Prune(ctx)
}

// CacheStats reports cache statistics, or nil without a cache.
func (a *Application) CacheStats(ctx context.Context) (*infrastructure.Stats, error) {
	if a.Cache == nil {
		return nil, nil
	}
	return a.Cache.GetStats(ctx)
}

// Close cleans up application resources
func (a *Application) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
