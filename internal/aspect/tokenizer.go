package aspect

import (
	"strings"
	"unicode"
)

// Normalize lowercases text and collapses every run of whitespace,
// including CR and LF, into a single space.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Tokenize splits text into lowercase word tokens. Apostrophes and hyphens
// inside a word are kept so "user-friendly" and "don't" stay whole.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-')
	})

	tokens := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'-")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// ContentTokens drops stop words from tokens.
func ContentTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !IsStopword(t) {
			out = append(out, t)
		}
	}
	return out
}
