package model

// Review is a single product review read from the uploaded CSV.
type Review struct {
	Text   string  `json:"review_text"`
	Rating float64 `json:"rating"`

	// Line is the 1-based CSV line the review came from.
	Line int `json:"line"`
	// Language is the detected ISO 639-1 code, empty when detection is off.
	Language string `json:"language,omitempty"`
}
