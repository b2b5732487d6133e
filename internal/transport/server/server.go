package server

import (
	"context"
	"log"
	"net/http"
	"runtime/debug"
	"sync"

	"github.com/gorilla/mux"

	"github.com/pep299/review-summarizer/internal/application"
	"github.com/pep299/review-summarizer/internal/transport/handler"
	"github.com/pep299/review-summarizer/internal/transport/middleware"
)

// APIPrefix is the path prefix of every route.
const APIPrefix = "/api/v1"

// NewRouter maps the application handlers onto their routes.
func NewRouter(app *application.Application) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(app.Logger))

	api := r.PathPrefix(APIPrefix).Subrouter()
	api.HandleFunc("/health", handler.Health).Methods("GET")
	api.Handle("/aspects", app.AspectsHandler).Methods("GET")
	api.Handle("/config", app.ConfigHandler).Methods("GET")
	api.Handle("/cache/stats", app.CacheHandler).Methods("GET")

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Auth(app.Config.AuthToken))
	protected.Handle("/summaries", app.SummariesHandler).Methods("POST")
	protected.Handle("/scores", app.ScoresHandler).Methods("POST")

	return r
}

// CreateHandler creates the main HTTP handler for the application
func CreateHandler(ctx context.Context) (http.Handler, *application.Application, error) {
	app, err := application.New(ctx)
	if err != nil {
		log.Printf("Error creating application: %v\nStack:\n%s", err, debug.Stack())
		return nil, nil, err
	}
	return NewRouter(app), app, nil
}

var (
	initOnce      sync.Once
	sharedHandler http.Handler
	initErr       error
)

// HandleRequest handles a single HTTP request (for Cloud Functions). The
// application is built on the first request and reused by later ones so
// the model client outlives a single invocation.
func HandleRequest(w http.ResponseWriter, r *http.Request) {
	initOnce.Do(func() {
		sharedHandler, _, initErr = CreateHandler(context.Background())
	})
	if initErr != nil {
		log.Printf("Failed to create handler: %v", initErr)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	sharedHandler.ServeHTTP(w, r)
}
