// Package review reads product reviews from CSV input.
package review

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/pep299/review-summarizer/internal/model"
)

const (
	ColumnText   = "review_text"
	ColumnRating = "rating"
)

// RequiredColumns lists the header names every review CSV must carry.
var RequiredColumns = []string{ColumnText, ColumnRating}

// DefaultMaxReviews caps how many rows one upload may contribute.
const DefaultMaxReviews = 200

// ColumnError is returned when the CSV header lacks a required column.
type ColumnError struct {
	Missing []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("CSV must contain columns %s, missing: %s",
		strings.Join(RequiredColumns, ", "), strings.Join(e.Missing, ", "))
}

// FormatError is returned when the CSV header cannot be parsed.
type FormatError struct {
	Line int
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed CSV header on line %d: %v", e.Line, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// SkippedRow records a data row that was dropped while loading.
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Report describes the outcome of one Load call.
type Report struct {
	Loaded    int          `json:"loaded"`
	Skipped   []SkippedRow `json:"skipped,omitempty"`
	Truncated bool         `json:"truncated"`
}

// LanguageDetector identifies the language of a review.
type LanguageDetector interface {
	// Detect returns an ISO 639-1 code and whether detection was confident.
	Detect(text string) (string, bool)
}

// Options controls loading.
type Options struct {
	MaxReviews int
	// Detector, when set, drops reviews confidently detected as non-English.
	Detector LanguageDetector
}

// Loader parses review CSV data.
type Loader struct {
	opts   Options
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger falls back to slog.Default.
func NewLoader(opts Options, logger *slog.Logger) *Loader {
	if opts.MaxReviews <= 0 {
		opts.MaxReviews = DefaultMaxReviews
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{opts: opts, logger: logger}
}

// Load reads reviews from r. A missing required column fails the whole
// load with *ColumnError and an unparsable header with *FormatError;
// malformed data rows are skipped and reported.
func (l *Loader) Load(r io.Reader) ([]model.Review, *Report, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, &ColumnError{Missing: append([]string(nil), RequiredColumns...)}
	}
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, nil, &FormatError{Line: pe.StartLine, Err: pe.Err}
		}
		return nil, nil, fmt.Errorf("reading CSV header: %w", err)
	}

	textIdx, ratingIdx, err := columnIndexes(header)
	if err != nil {
		return nil, nil, err
	}

	report := &Report{}
	var reviews []model.Review

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				l.skip(report, pe.StartLine, pe.Err.Error())
				continue
			}
			return nil, nil, fmt.Errorf("reading CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if len(record) != len(header) {
			l.skip(report, line, fmt.Sprintf("expected %d fields, got %d", len(header), len(record)))
			continue
		}

		text := Preprocess(record[textIdx])
		if text == "" {
			l.skip(report, line, "empty review_text")
			continue
		}

		rating, err := parseRating(record[ratingIdx])
		if err != nil {
			l.skip(report, line, err.Error())
			continue
		}

		rev := model.Review{Text: text, Rating: rating, Line: line}
		if l.opts.Detector != nil {
			lang, ok := l.opts.Detector.Detect(text)
			if ok {
				rev.Language = lang
				if lang != "en" {
					l.skip(report, line, "language "+lang+" is not supported")
					continue
				}
			}
		}

		if len(reviews) == l.opts.MaxReviews {
			report.Truncated = true
			break
		}
		reviews = append(reviews, rev)
	}

	report.Loaded = len(reviews)
	l.logger.Info("Loaded reviews",
		"loaded", report.Loaded,
		"skipped", len(report.Skipped),
		"truncated", report.Truncated)
	return reviews, report, nil
}

func (l *Loader) skip(report *Report, line int, reason string) {
	report.Skipped = append(report.Skipped, SkippedRow{Line: line, Reason: reason})
	l.logger.Warn("Skipping malformed review row", "line", line, "reason", reason)
}

// Preprocess trims text and collapses line breaks and repeated whitespace.
func Preprocess(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func columnIndexes(header []string) (int, int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		name := strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return 0, 0, &ColumnError{Missing: missing}
	}
	return index[ColumnText], index[ColumnRating], nil
}

func parseRating(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("empty rating")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid rating %q", raw)
	}
	return v, nil
}
