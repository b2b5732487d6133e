package model

import (
	"fmt"
	"math"
	"strings"
)

// Aspect is one of the fixed product-review dimensions.
type Aspect string

const (
	AspectPrice       Aspect = "price"
	AspectDurability  Aspect = "durability"
	AspectEaseOfUse   Aspect = "ease_of_use"
	AspectQuality     Aspect = "quality"
	AspectPerformance Aspect = "performance"
)

// DefaultPreferenceValue is the slider position used when a request omits an aspect.
const DefaultPreferenceValue = 0.5

var aspects = []Aspect{
	AspectPrice,
	AspectDurability,
	AspectEaseOfUse,
	AspectQuality,
	AspectPerformance,
}

// Aspects returns every aspect in display order.
func Aspects() []Aspect {
	out := make([]Aspect, len(aspects))
	copy(out, aspects)
	return out
}

// ParseAspect converts a name such as "ease_of_use" into an Aspect.
func ParseAspect(name string) (Aspect, error) {
	a := Aspect(strings.ToLower(strings.TrimSpace(name)))
	if !a.Valid() {
		return "", fmt.Errorf("unknown aspect: %q", name)
	}
	return a, nil
}

// Valid reports whether a belongs to the fixed aspect set.
func (a Aspect) Valid() bool {
	for _, known := range aspects {
		if a == known {
			return true
		}
	}
	return false
}

// Label returns a human readable name, e.g. "Ease Of Use".
func (a Aspect) Label() string {
	words := strings.Split(string(a), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// AspectScore maps each aspect to a relevance value in [0,1].
type AspectScore map[Aspect]float64

// NewAspectScore returns a score with every aspect present and set to zero.
func NewAspectScore() AspectScore {
	s := make(AspectScore, len(aspects))
	for _, a := range aspects {
		s[a] = 0
	}
	return s
}

// IsZero reports whether no aspect has a positive score.
func (s AspectScore) IsZero() bool {
	for _, v := range s {
		if v != 0 {
			return false
		}
	}
	return true
}

// Preference maps each aspect to the weight a user assigned to it.
type Preference map[Aspect]float64

// DefaultPreference returns every aspect at DefaultPreferenceValue.
func DefaultPreference() Preference {
	p := make(Preference, len(aspects))
	for _, a := range aspects {
		p[a] = DefaultPreferenceValue
	}
	return p
}

// Validate checks that every key is a known aspect and every value is within [0,1].
func (p Preference) Validate() error {
	for a, v := range p {
		if !a.Valid() {
			return &ValidationError{Field: string(a), Message: "unknown aspect"}
		}
		if math.IsNaN(v) || v < 0 || v > 1 {
			return &ValidationError{Field: string(a), Message: fmt.Sprintf("preference %v must be between 0 and 1", v)}
		}
	}
	return nil
}
