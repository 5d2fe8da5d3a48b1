package endpoints

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/otwartedane/mcod/pkg/server"
	"github.com/otwartedane/mcod/pkg/server/store"
)

// StatusResponse is the body of GET /
type StatusResponse struct {
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// RegisterStatusEndpoints registers the status and health endpoints
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/", handleStatus()).Methods("GET")
	s.Router.HandleFunc("/health", handleHealth(s.HealthStore, s.Logger)).Methods("GET")
}

func handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, StatusResponse{
			Version:    server.Version,
			APIVersion: server.APIVersion,
		})
	}
}

func handleHealth(healthStore store.HealthStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := healthStore.CheckConnectivity(r.Context()); err != nil {
			logger.Warn("health check failed", zap.Error(err))
			respondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:   "error",
				Database: "unavailable",
			})
			return
		}
		respondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
