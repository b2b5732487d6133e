package handler

import (
	"net/http"

	"github.com/pep299/review-summarizer/internal/service"
	"github.com/pep299/review-summarizer/internal/transport/response"
)

type Summaries struct {
	service  *service.Summary
	maxBytes int64
}

func NewSummaries(svc *service.Summary, maxBytes int64) *Summaries {
	return &Summaries{
		service:  svc,
		maxBytes: maxBytes,
	}
}

func (h *Summaries) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	file, pref, err := readUpload(w, r, h.maxBytes)
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Close()

	result, err := h.service.Summarize(r.Context(), file, pref)
	if err != nil {
		writeError(w, err)
		return
	}

	response.WriteSuccess(w, "Summary generated", result)
}

type Scores struct {
	service  *service.Summary
	maxBytes int64
}

func NewScores(svc *service.Summary, maxBytes int64) *Scores {
	return &Scores{
		service:  svc,
		maxBytes: maxBytes,
	}
}

func (h *Scores) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	file, pref, err := readUpload(w, r, h.maxBytes)
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Close()

	result, err := h.service.Score(r.Context(), file, pref)
	if err != nil {
		writeError(w, err)
		return
	}

	response.WriteSuccess(w, "Reviews scored", result)
}
