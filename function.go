// Package reviewsummarizer exposes the review summarizer as a Google Cloud Function.
package reviewsummarizer

import (
	"net/http"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/pep299/review-summarizer/internal/transport/server"
)

// FunctionName is the Cloud Functions entry point.
const FunctionName = "SummarizeReviews"

func init() {
	functions.HTTP(FunctionName, SummarizeReviews)
}

// SummarizeReviews serves the HTTP API inside Cloud Functions.
func SummarizeReviews(w http.ResponseWriter, r *http.Request) {
	server.HandleRequest(w, r)
}
