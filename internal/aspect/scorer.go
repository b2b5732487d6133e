// Package aspect scores review text against the fixed product aspects
// using keyword cues.
package aspect

import (
	"strconv"
	"strings"

	"github.com/pep299/review-summarizer/internal/model"
)

// densityFactor scales the match ratio so that one cue in every five
// content words already saturates the score at 1.
const densityFactor = 5.0

// Scorer assigns aspect relevance to review text. It is safe for
// concurrent use once built.
type Scorer struct {
	lexicon Lexicon
	cues    map[model.Aspect][][]string
}

// NewScorer compiles the lexicon cues into token sequences.
func NewScorer(lex Lexicon) *Scorer {
	s := &Scorer{
		lexicon: lex,
		cues:    make(map[model.Aspect][][]string, len(lex)),
	}
	for _, a := range model.Aspects() {
		for _, cue := range lex[a] {
			if toks := Tokenize(cue); len(toks) > 0 {
				s.cues[a] = append(s.cues[a], toks)
			}
		}
	}
	return s
}

// Lexicon returns the lexicon the scorer was built from.
func (s *Scorer) Lexicon() Lexicon {
	return s.lexicon
}

// Score returns the relevance of text to every aspect. Text without any
// content words yields an all-zero score.
func (s *Scorer) Score(text string) model.AspectScore {
	score := model.NewAspectScore()

	tokens := Tokenize(text)
	content := len(ContentTokens(tokens))
	if content == 0 {
		return score
	}

	for a, n := range s.count(tokens) {
		v := float64(n) / float64(content) * densityFactor
		if v > 1 {
			v = 1
		}
		score[a] = v
	}
	return score
}

// ScoreAll scores reviews in order.
func (s *Scorer) ScoreAll(reviews []model.Review) []model.AspectScore {
	scores := make([]model.AspectScore, len(reviews))
	for i, r := range reviews {
		scores[i] = s.Score(r.Text)
	}
	return scores
}

// Mentions counts cue matches per aspect without normalizing.
func (s *Scorer) Mentions(text string) map[model.Aspect]int {
	out := make(map[model.Aspect]int, len(s.cues))
	for _, a := range model.Aspects() {
		out[a] = 0
	}
	for a, n := range s.count(Tokenize(text)) {
		out[a] = n
	}
	return out
}

// count returns, per aspect, how many token positions start a cue match.
// A position counts at most once per aspect.
func (s *Scorer) count(tokens []string) map[model.Aspect]int {
	counts := make(map[model.Aspect]int)
	for i := range tokens {
		for a, cues := range s.cues {
			for _, cue := range cues {
				if matchAt(tokens, i, cue) {
					counts[a]++
					break
				}
			}
		}
	}
	return counts
}

func matchAt(tokens []string, i int, cue []string) bool {
	if i+len(cue) > len(tokens) {
		return false
	}
	for j, c := range cue {
		if tokens[i+j] != c {
			return false
		}
	}
	return true
}

// Describe renders a short "aspect=value" listing, mostly for logs.
func Describe(score model.AspectScore) string {
	var b strings.Builder
	for i, a := range model.Aspects() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(string(a))
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(score[a], 'f', 2, 64))
	}
	return b.String()
}
