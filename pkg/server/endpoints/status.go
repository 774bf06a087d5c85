package endpoints

import (
	"net/http"
	"net/url"

	"github.com/doodlesbykumbi/localauth/pkg/server"
	"github.com/doodlesbykumbi/localauth/pkg/server/store"
)

// StatusResponse represents the response from /status
type StatusResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// RegisterStatusEndpoints registers the status endpoint
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/status", handleStatus(s.HealthStore)).Methods("GET")
}

// RegisterMetricsEndpoint serves Prometheus metrics when the server has a metrics handler
func RegisterMetricsEndpoint(s *server.Server) {
	if s.MetricsHandler == nil {
		return
	}
	s.Router.Handle("/metrics", s.MetricsHandler).Methods("GET")
}

func handleStatus(health store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := health.CheckConnectivity(r.Context()); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, StatusResponse{Status: "unavailable", Database: err.Error()})
			return
		}
		respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok", Database: "ok"})
	}
}

// unescapeVar decodes a route variable; the router uses encoded paths
func unescapeVar(v string) (string, error) {
	return url.PathUnescape(v)
}
