package review

import (
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

func newTestLoader(opts Options) *Loader {
	return NewLoader(opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLoad(t *testing.T) {
	data := "review_text,rating\n" +
		"\"This product is very cheap but breaks easily.\",2\n" +
		"\"Excellent quality and worth every penny!\",5\n" +
		"\"Easy to use\nbut a bit expensive.\",4\n"

	reviews, report, err := newTestLoader(Options{}).Load(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(reviews) != 3 {
		t.Fatalf("Expected 3 reviews, got %d", len(reviews))
	}
	if report.Loaded != 3 || len(report.Skipped) != 0 || report.Truncated {
		t.Errorf("Unexpected report: %+v", report)
	}
	if reviews[2].Text != "Easy to use but a bit expensive." {
		t.Errorf("Expected line breaks collapsed, got %q", reviews[2].Text)
	}
	if reviews[1].Rating != 5 {
		t.Errorf("Expected rating 5, got %v", reviews[1].Rating)
	}
	if reviews[0].Line != 2 || reviews[1].Line != 3 || reviews[2].Line != 4 {
		t.Errorf("Unexpected line numbers: %d %d %d", reviews[0].Line, reviews[1].Line, reviews[2].Line)
	}
}

func TestLoadHeaderVariants(t *testing.T) {
	data := "\ufeffID, Rating ,Review_Text\n1,4.5,Solid build\n"

	reviews, _, err := newTestLoader(Options{}).Load(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(reviews) != 1 || reviews[0].Text != "Solid build" || reviews[0].Rating != 4.5 {
		t.Errorf("Unexpected reviews: %+v", reviews)
	}
}

func TestLoadMissingColumns(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		missing []string
	}{
		{"missing rating", "review_text\nGreat product\n", []string{"rating"}},
		{"missing text", "rating,comment\n5,ok\n", []string{"review_text"}},
		{"empty input", "", []string{"review_text", "rating"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := newTestLoader(Options{}).Load(strings.NewReader(tt.data))
			var colErr *ColumnError
			if !errors.As(err, &colErr) {
				t.Fatalf("Expected ColumnError, got %v", err)
			}
			if !reflect.DeepEqual(colErr.Missing, tt.missing) {
				t.Errorf("Expected missing %v, got %v", tt.missing, colErr.Missing)
			}
		})
	}
}

func TestLoadMalformedHeader(t *testing.T) {
	_, _, err := newTestLoader(Options{}).Load(strings.NewReader("review_\"text,rating\nok,1\n"))

	var fmtErr *FormatError
	if !errors.As(err, &fmtErr) {
		t.Fatalf("Expected FormatError, got %v", err)
	}
	if fmtErr.Line != 1 {
		t.Errorf("Expected line 1, got %d", fmtErr.Line)
	}
	if !errors.Is(err, csv.ErrBareQuote) {
		t.Errorf("Expected wrapped csv.ErrBareQuote, got %v", fmtErr.Err)
	}
}

func TestLoadSkipsMalformedRows(t *testing.T) {
	data := "review_text,rating\n" +
		"Good value,5\n" +
		",3\n" +
		"No rating here,abc\n" +
		"Too,many,fields\n" +
		"Works fine,4\n"

	reviews, report, err := newTestLoader(Options{}).Load(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(reviews) != 2 {
		t.Fatalf("Expected 2 reviews, got %d", len(reviews))
	}
	if len(report.Skipped) != 3 {
		t.Fatalf("Expected 3 skipped rows, got %+v", report.Skipped)
	}

	lines := []int{report.Skipped[0].Line, report.Skipped[1].Line, report.Skipped[2].Line}
	if !reflect.DeepEqual(lines, []int{3, 4, 5}) {
		t.Errorf("Unexpected skipped lines: %v", lines)
	}
	if report.Skipped[0].Reason != "empty review_text" {
		t.Errorf("Unexpected reason: %s", report.Skipped[0].Reason)
	}
}

func TestLoadMaxReviews(t *testing.T) {
	data := "review_text,rating\na,1\nb,2\nc,3\n"

	reviews, report, err := newTestLoader(Options{MaxReviews: 2}).Load(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(reviews) != 2 || !report.Truncated {
		t.Errorf("Expected 2 reviews and truncation, got %d, %+v", len(reviews), report)
	}
}

type fakeDetector map[string]string

func (f fakeDetector) Detect(text string) (string, bool) {
	lang, ok := f[text]
	return lang, ok
}

func TestLoadLanguageFilter(t *testing.T) {
	data := "review_text,rating\nGreat value,5\nTrès bon produit,4\nok,3\n"
	detector := fakeDetector{
		"Great value":      "en",
		"Très bon produit": "fr",
	}

	reviews, report, err := newTestLoader(Options{Detector: detector}).Load(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(reviews) != 2 {
		t.Fatalf("Expected 2 reviews, got %d", len(reviews))
	}
	if reviews[0].Language != "en" {
		t.Errorf("Expected language en, got %q", reviews[0].Language)
	}
	// Undetected text is kept.
	if reviews[1].Text != "ok" || reviews[1].Language != "" {
		t.Errorf("Unexpected review: %+v", reviews[1])
	}
	if len(report.Skipped) != 1 || report.Skipped[0].Line != 3 {
		t.Errorf("Unexpected skipped rows: %+v", report.Skipped)
	}
}

func TestPreprocess(t *testing.T) {
	got := Preprocess("  This Product is GREAT!\r\n\r\nVery   durable. ")
	if got != "This Product is GREAT! Very durable." {
		t.Errorf("Preprocess() = %q", got)
	}
}

func TestLinguaDetector(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping language model test in short mode")
	}
	d := NewLinguaDetector()

	tests := []struct {
		text string
		want string
	}{
		{"This blender is powerful and easy to clean, definitely worth the price.", "en"},
		{"Ce mixeur est puissant et facile à nettoyer, il vaut vraiment son prix.", "fr"},
	}
	for _, tt := range tests {
		got, ok := d.Detect(tt.text)
		if !ok || got != tt.want {
			t.Errorf("Detect(%q) = %q, %v; want %q", tt.text, got, ok, tt.want)
		}
	}
}
