package server

import (
	"encoding/json"
	"net/http"

	"github.com/lattiq/emailservice"
)

type healthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider,omitempty"`
	Version  string `json:"version"`
	Commit   string `json:"commit"`
}

// HealthHandler reports liveness and build information.
func HealthHandler(provider string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		info := emailservice.GetVersionInfo()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:   "ok",
			Provider: provider,
			Version:  info.Version,
			Commit:   info.GitCommit,
		})
	}
}
