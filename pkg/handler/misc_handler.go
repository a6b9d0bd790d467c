// Handler for miscellaneous endpoints such as health check

package handler

import (
	"net/http"
	"time"
)

// Version is reported by the health endpoint; set at startup.
var Version = "dev"

type HealthResponse struct {
	Health    string    `json:"health"`
	Version   string    `json:"version"`
	Sessions  int       `json:"sessions"`
	Timestamp time.Time `json:"timestamp"`
}

func (app *AppContext) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Health:    "ok",
		Version:   Version,
		Sessions:  app.Sessions.Len(),
		Timestamp: time.Now(),
	})
}
