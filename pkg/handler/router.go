package handler

import (
	"mime"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yumyai/blutable/internal/util"
	"github.com/yumyai/blutable/logger"
	"github.com/yumyai/blutable/pkg/middle"
)

func NewRouter(app *AppContext, staticDir string) http.Handler {
	mux := http.NewServeMux()

	// Error route
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	// Loading
	mux.HandleFunc("GET /{$}", app.MainPage)
	mux.HandleFunc("POST /load/file", app.LoadFilePage)
	mux.HandleFunc("POST /load/url", app.LoadURLPage)
	mux.HandleFunc("POST /load/example", app.LoadExamplePage)
	mux.HandleFunc("POST /load/reopen", app.ReopenPage)
	mux.HandleFunc("GET /load", app.LoadParamPage)
	mux.HandleFunc("GET /load/jobs/{job_id}", app.LoadJobPage)
	mux.HandleFunc("POST /reset", app.ResetPage)

	// Results
	mux.HandleFunc("GET /results", app.ResultsPage)
	mux.HandleFunc("GET /results/section", app.SectionFragment)
	mux.HandleFunc("GET /results/query", app.QueryDetail)

	// API routes
	mux.HandleFunc("GET /api/v1/health", app.HealthCheck)
	mux.HandleFunc("GET /api/v1/results", app.ResultsAPI)
	mux.HandleFunc("GET /api/v1/documents", app.DocumentsAPI)
	mux.Handle("GET /metrics", promhttp.Handler())

	setupStaticFiles(mux, staticDir)

	return middle.Chain(mux,
		middle.RequestIDMiddleware(logger.L()),
		middle.LoggingMiddleware(logger.L()),
	)
}

// Static files are optional; the pages carry their own styles.
func setupStaticFiles(mux *http.ServeMux, dir string) {
	if dir == "" || !util.DirExists(dir) {
		logger.Debug("No static directory, skipping", zap.String("dir", dir))
		return
	}
	_ = mime.AddExtensionType(".js", "text/javascript")
	_ = mime.AddExtensionType(".css", "text/css")
	fs := http.FileServer(http.Dir(dir))
	mux.Handle("GET /static/", http.StripPrefix("/static/", fs))
}
