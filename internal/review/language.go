package review

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// candidateLanguages are the languages most product reviews arrive in.
// Restricting the set keeps detection fast and memory use low.
var candidateLanguages = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Portuguese,
	lingua.Italian,
	lingua.Dutch,
	lingua.Japanese,
	lingua.Chinese,
}

// LinguaDetector detects review languages with lingua-go.
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLinguaDetector builds a detector over the candidate languages.
func NewLinguaDetector() *LinguaDetector {
	d := lingua.NewLanguageDetectorBuilder().
		FromLanguages(candidateLanguages...).
		WithMinimumRelativeDistance(0.1).
		Build()
	return &LinguaDetector{detector: d}
}

// Detect returns the lowercase ISO 639-1 code of text. Short or ambiguous
// text is reported as not detected.
func (d *LinguaDetector) Detect(text string) (string, bool) {
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
