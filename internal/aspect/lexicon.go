package aspect

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/pep299/review-summarizer/internal/model"
)

// Lexicon holds the keyword cues for every aspect. A cue may be a single
// word ("cheap") or a phrase ("easy to use").
type Lexicon map[model.Aspect][]string

// DefaultLexicon returns the built-in keyword table.
func DefaultLexicon() Lexicon {
	return Lexicon{
		model.AspectPrice:       {"price", "cost", "expensive", "cheap", "affordable", "value", "worth"},
		model.AspectDurability:  {"durable", "sturdy", "break", "broken", "last", "quality", "build"},
		model.AspectEaseOfUse:   {"easy", "simple", "complicated", "difficult", "user-friendly", "intuitive"},
		model.AspectQuality:     {"quality", "excellent", "poor", "great", "bad", "premium", "superior"},
		model.AspectPerformance: {"performance", "fast", "slow", "efficient", "powerful", "weak"},
	}
}

// LoadLexicon reads a YAML file of the form
//
//	price: [cheap, expensive]
//	ease_of_use: [easy, "easy to use"]
//
// Aspects present in the file replace the default cues; the others keep them.
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon file: %w", err)
	}
	return ParseLexicon(data)
}

// ParseLexicon decodes YAML lexicon data on top of DefaultLexicon.
func ParseLexicon(data []byte) (Lexicon, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing lexicon: %w", err)
	}

	lex := DefaultLexicon()
	for name, cues := range raw {
		a, err := model.ParseAspect(name)
		if err != nil {
			return nil, fmt.Errorf("lexicon: %w", err)
		}
		cleaned := normalizeCues(cues)
		if len(cleaned) == 0 {
			return nil, fmt.Errorf("lexicon: aspect %s has no keywords", a)
		}
		lex[a] = cleaned
	}
	return lex, nil
}

// Keywords returns the cues of one aspect, sorted, for display.
func (l Lexicon) Keywords(a model.Aspect) []string {
	out := append([]string(nil), l[a]...)
	sort.Strings(out)
	return out
}

func normalizeCues(cues []string) []string {
	seen := make(map[string]struct{}, len(cues))
	out := make([]string, 0, len(cues))
	for _, c := range cues {
		c = Normalize(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
