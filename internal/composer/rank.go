package composer

import (
	"sort"

	"github.com/pep299/review-summarizer/internal/model"
)

// CompositeWeight is the preference-weighted sum of a review's aspect scores.
func CompositeWeight(score model.AspectScore, pref model.Preference) float64 {
	var w float64
	for _, a := range model.Aspects() {
		w += score[a] * pref[a]
	}
	return w
}

// Rank orders reviews by composite weight, highest first. Reviews with equal
// weight keep their input order. Rank numbers start at 1.
func Rank(reviews []model.Review, scores []model.AspectScore, pref model.Preference) []model.ScoredReview {
	ranked := make([]model.ScoredReview, len(reviews))
	for i, r := range reviews {
		ranked[i] = model.ScoredReview{
			Review: r,
			Scores: scores[i],
			Weight: CompositeWeight(scores[i], pref),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Weight > ranked[j].Weight
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// Coverage returns, per aspect, the weighted mean of the selected reviews'
// scores. When every weight is zero the plain mean is used instead.
func Coverage(selected []model.ScoredReview) map[model.Aspect]float64 {
	coverage := make(map[model.Aspect]float64, len(model.Aspects()))
	for _, a := range model.Aspects() {
		coverage[a] = 0
	}
	if len(selected) == 0 {
		return coverage
	}

	var total float64
	for _, r := range selected {
		total += r.Weight
	}

	for _, a := range model.Aspects() {
		var sum float64
		for _, r := range selected {
			if total > 0 {
				sum += r.Weight * r.Scores[a]
			} else {
				sum += r.Scores[a]
			}
		}
		if total > 0 {
			coverage[a] = clamp(sum / total)
		} else {
			coverage[a] = clamp(sum / float64(len(selected)))
		}
	}
	return coverage
}

// WithDefaults returns a copy of pref where every missing aspect is set
// to model.DefaultPreferenceValue.
func WithDefaults(pref model.Preference) model.Preference {
	out := model.DefaultPreference()
	for a, v := range pref {
		out[a] = v
	}
	return out
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
