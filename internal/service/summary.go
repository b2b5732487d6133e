package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pep299/review-summarizer/internal/aspect"
	"github.com/pep299/review-summarizer/internal/composer"
	"github.com/pep299/review-summarizer/internal/model"
	"github.com/pep299/review-summarizer/internal/review"
)

// ErrNoSummarizer is returned by Summarize on a service built without a
// composer.
var ErrNoSummarizer = errors.New("no summarization backend configured")

// SummaryResult is the outcome of summarizing one CSV upload.
type SummaryResult struct {
	Summary *model.Summary `json:"summary"`
	Report  *review.Report `json:"report"`
}

// ScoreResult lists the ranked reviews of one CSV upload.
type ScoreResult struct {
	Reviews    []model.ScoredReview `json:"reviews"`
	Preference model.Preference     `json:"preference"`
	Report     *review.Report       `json:"report"`
}

type Summary struct {
	loader   *review.Loader
	scorer   *aspect.Scorer
	composer *composer.Composer
	logger   *slog.Logger
}

func NewSummary(
	loader *review.Loader,
	scorer *aspect.Scorer,
	composer *composer.Composer,
	logger *slog.Logger,
) *Summary {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summary{
		loader:   loader,
		scorer:   scorer,
		composer: composer,
		logger:   logger,
	}
}

// Summarize loads reviews from r, scores them and composes a summary
// personalized for pref.
func (s *Summary) Summarize(ctx context.Context, r io.Reader, pref model.Preference) (*SummaryResult, error) {
	if s.composer == nil {
		return nil, ErrNoSummarizer
	}
	startTime := time.Now()

	pref, err := checkPreference(pref)
	if err != nil {
		return nil, err
	}

	reviews, report, err := s.loader.Load(r)
	if err != nil {
		return nil, fmt.Errorf("loading reviews: %w", err)
	}
	loadDuration := time.Since(startTime)

	composeStart := time.Now()
	summary, err := s.composer.Compose(ctx, reviews, s.scorer.ScoreAll(reviews), pref)
	if err != nil {
		return nil, fmt.Errorf("composing summary: %w", err)
	}
	composeDuration := time.Since(composeStart)

	s.logger.Info("Summary completed",
		"reviews", summary.ReviewsTotal,
		"selected", summary.ReviewsSelected,
		"skipped", len(report.Skipped),
		"backend", summary.Backend,
		"total_duration_ms", time.Since(startTime).Milliseconds(),
		"load_duration_ms", loadDuration.Milliseconds(),
		"compose_duration_ms", composeDuration.Milliseconds())

	return &SummaryResult{Summary: summary, Report: report}, nil
}

// Score loads reviews from r and ranks them for pref without calling the
// summarization model.
func (s *Summary) Score(ctx context.Context, r io.Reader, pref model.Preference) (*ScoreResult, error) {
	pref, err := checkPreference(pref)
	if err != nil {
		return nil, err
	}

	reviews, report, err := s.loader.Load(r)
	if err != nil {
		return nil, fmt.Errorf("loading reviews: %w", err)
	}

	ranked := composer.Rank(reviews, s.scorer.ScoreAll(reviews), pref)
	if len(ranked) > 0 {
		s.logger.Debug("Top ranked review",
			"line", ranked[0].Line,
			"weight", ranked[0].Weight,
			"scores", aspect.Describe(ranked[0].Scores))
	}

	return &ScoreResult{Reviews: ranked, Preference: pref, Report: report}, nil
}

// Lexicon returns the keyword cues in use.
func (s *Summary) Lexicon() aspect.Lexicon {
	return s.scorer.Lexicon()
}

func checkPreference(pref model.Preference) (model.Preference, error) {
	pref = composer.WithDefaults(pref)
	if err := pref.Validate(); err != nil {
		return nil, err
	}
	return pref, nil
}
