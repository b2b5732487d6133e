package model

import "time"

// PlaceholderSummary is returned when there is nothing to summarize.
const PlaceholderSummary = "No reviews to summarize."

// Summary is the personalized summary of a set of reviews.
type Summary struct {
	Text           string             `json:"text"`
	AspectCoverage map[Aspect]float64 `json:"aspect_coverage"`

	// Mentions counts keyword cues per aspect inside Text.
	Mentions        map[Aspect]int `json:"mentions"`
	ReviewsTotal    int            `json:"reviews_total"`
	ReviewsSelected int            `json:"reviews_selected"`
	AverageRating   float64        `json:"average_rating"`
	Backend         string         `json:"backend,omitempty"`
	GeneratedAt     time.Time      `json:"generated_at"`
}

// ScoredReview pairs a review with its aspect scores and composite weight.
type ScoredReview struct {
	Review
	Scores AspectScore `json:"scores"`
	Weight float64     `json:"weight"`
	Rank   int         `json:"rank"`
}
