package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pep299/review-summarizer/internal/aspect"
	"github.com/pep299/review-summarizer/internal/infrastructure"
	"github.com/pep299/review-summarizer/internal/model"
	"github.com/pep299/review-summarizer/internal/transport/response"
)

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type aspectInfo struct {
	Name     model.Aspect `json:"name"`
	Label    string       `json:"label"`
	Keywords []string     `json:"keywords"`
}

type aspectsResponse struct {
	Aspects           []aspectInfo `json:"aspects"`
	DefaultPreference float64      `json:"default_preference"`
	MinPreference     float64      `json:"min_preference"`
	MaxPreference     float64      `json:"max_preference"`
}

type Aspects struct {
	lexicon aspect.Lexicon
}

func NewAspects(lexicon aspect.Lexicon) *Aspects {
	return &Aspects{lexicon: lexicon}
}

func (h *Aspects) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := aspectsResponse{
		DefaultPreference: model.DefaultPreferenceValue,
		MinPreference:     0,
		MaxPreference:     1,
	}
	for _, a := range model.Aspects() {
		resp.Aspects = append(resp.Aspects, aspectInfo{
			Name:     a,
			Label:    a.Label(),
			Keywords: h.lexicon.Keywords(a),
		})
	}
	response.WriteSuccess(w, "", resp)
}

type Config struct {
	cfg *infrastructure.Config
}

func NewConfig(cfg *infrastructure.Config) *Config {
	return &Config{cfg: cfg}
}

// ServeHTTP returns the configuration; secrets are excluded by their JSON tags.
func (h *Config) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response.WriteSuccess(w, "", h.cfg)
}

type CacheStats struct {
	cache infrastructure.Cache
}

// NewCacheStats serves statistics for cache, which may be nil when caching
// is disabled.
func NewCacheStats(cache infrastructure.Cache) *CacheStats {
	return &CacheStats{cache: cache}
}

func (h *CacheStats) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		response.WriteSuccess(w, "cache disabled", nil)
		return
	}
	stats, err := h.cache.GetStats(r.Context())
	if err != nil {
		response.WriteInternalError(w, "reading cache stats: "+err.Error())
		return
	}
	response.WriteSuccess(w, "", stats)
}
