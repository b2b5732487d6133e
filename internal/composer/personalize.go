package composer

import (
	"sort"
	"strings"
	"unicode"

	"github.com/pep299/review-summarizer/internal/aspect"
	"github.com/pep299/review-summarizer/internal/model"
)

// Personalize moves the sentences that mention highly weighted aspects to
// the front. Sentences with equal relevance keep the model's order, and
// every sentence ends with terminal punctuation.
func Personalize(text string, pref model.Preference, scorer *aspect.Scorer) string {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return ""
	}

	relevance := make([]float64, len(sentences))
	for i, s := range sentences {
		for a, n := range scorer.Mentions(s) {
			relevance[i] += float64(n) * pref[a]
		}
	}

	order := make([]int, len(sentences))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return relevance[order[i]] > relevance[order[j]]
	})

	out := make([]string, len(order))
	for i, idx := range order {
		out[i] = terminate(sentences[idx])
	}
	return strings.Join(out, " ")
}

// SplitSentences breaks text after '.', '!' or '?' when followed by
// whitespace or the end of the text.
func SplitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func terminate(s string) string {
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	return s + "."
}
