package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter wires the email endpoint and health check.
func NewRouter(email *EmailHandler, health http.HandlerFunc, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(AccessLog(log))
	r.Use(Recover(log))

	r.Method(http.MethodPost, "/api/email", email)
	r.Get("/healthz", health)

	return r
}
