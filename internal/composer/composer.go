// Package composer turns scored reviews into a personalized summary.
package composer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pep299/review-summarizer/internal/aspect"
	"github.com/pep299/review-summarizer/internal/model"
)

const (
	DefaultMaxInputTokens = 512
	DefaultMaxReviews     = 200
)

// Summarizer generates abstractive summaries from a prepared model input.
type Summarizer interface {
	Summarize(ctx context.Context, input string) (string, error)
}

// Options configures a Composer.
type Options struct {
	// MaxInputTokens bounds the model input, prefix and separators included.
	MaxInputTokens int
	// MaxReviews bounds how many reviews are sent to the model.
	MaxReviews int
	// Backend names the summarizer in results and errors.
	Backend string
	// Timeout bounds a single model call. Zero means no extra deadline.
	Timeout time.Duration
}

// Composer selects reviews, calls the summarizer and personalizes its output.
type Composer struct {
	summarizer Summarizer
	scorer     *aspect.Scorer
	opts       Options
	logger     *slog.Logger
	now        func() time.Time
}

// New creates a Composer. Zero option values fall back to the defaults.
func New(summarizer Summarizer, scorer *aspect.Scorer, opts Options, logger *slog.Logger) *Composer {
	if opts.MaxInputTokens <= 0 {
		opts.MaxInputTokens = DefaultMaxInputTokens
	}
	if opts.MaxReviews <= 0 {
		opts.MaxReviews = DefaultMaxReviews
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{
		summarizer: summarizer,
		scorer:     scorer,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
	}
}

// Compose builds the summary of reviews for the given preference. scores
// must hold one entry per review, in the same order.
//
// With no reviews a placeholder summary is returned and the summarizer is
// not called. Summarizer failures are returned as *model.ModelError.
func (c *Composer) Compose(ctx context.Context, reviews []model.Review, scores []model.AspectScore, pref model.Preference) (*model.Summary, error) {
	if len(scores) != len(reviews) {
		return nil, fmt.Errorf("got %d scores for %d reviews", len(scores), len(reviews))
	}
	pref = WithDefaults(pref)
	if err := pref.Validate(); err != nil {
		return nil, err
	}

	summary := &model.Summary{
		Backend:      c.opts.Backend,
		ReviewsTotal: len(reviews),
		GeneratedAt:  c.now(),
	}

	if len(reviews) == 0 {
		summary.Text = model.PlaceholderSummary
		summary.AspectCoverage = Coverage(nil)
		summary.Mentions = c.scorer.Mentions("")
		return summary, nil
	}

	ranked := Rank(reviews, scores, pref)
	texts := make([]string, len(ranked))
	for i, r := range ranked {
		texts[i] = r.Text
	}
	chosen := selectTexts(texts, c.opts.MaxInputTokens, c.opts.MaxReviews)
	selected := ranked[:len(chosen)]

	input := BuildInput(chosen)
	c.logger.Debug("Prepared model input",
		"backend", c.opts.Backend,
		"selected", len(selected),
		"tokens", CountTokens(input))

	generated, err := c.generate(ctx, input)
	if err != nil {
		return nil, err
	}

	summary.Text = Personalize(generated, pref, c.scorer)
	summary.AspectCoverage = Coverage(selected)
	summary.Mentions = c.scorer.Mentions(summary.Text)
	summary.ReviewsSelected = len(selected)
	summary.AverageRating = averageRating(selected)
	return summary, nil
}

func (c *Composer) generate(ctx context.Context, input string) (string, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := c.summarizer.Summarize(ctx, input)
	if err != nil {
		c.logger.Error("Summarization failed", "backend", c.opts.Backend, "error", err)
		return "", &model.ModelError{Backend: c.opts.Backend, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &model.ModelError{Backend: c.opts.Backend, Err: model.ErrEmptySummary}
	}

	c.logger.Info("Generated summary",
		"backend", c.opts.Backend,
		"duration", time.Since(start))
	return text, nil
}

func averageRating(selected []model.ScoredReview) float64 {
	if len(selected) == 0 {
		return 0
	}
	var sum float64
	for _, r := range selected {
		sum += r.Rating
	}
	return sum / float64(len(selected))
}
