package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lattiq/emailservice"
)

// Fixed response bodies.
const (
	SuccessMessage    = "Email enviado com sucesso!"
	FailureMessage    = "Erro enquanto enviava o email."
	BadRequestMessage = "Requisição inválida."
)

// maxBodyBytes caps the request payload.
const maxBodyBytes = 1 << 20

// EmailRequest is the inbound payload of POST /api/email.
type EmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// EmailHandler forwards inbound requests to a Sender.
type EmailHandler struct {
	sender emailservice.Sender
	logger *slog.Logger
	tracer trace.Tracer
}

// NewEmailHandler creates a handler backed by sender.
func NewEmailHandler(sender emailservice.Sender, logger *slog.Logger) *EmailHandler {
	return &EmailHandler{
		sender: sender,
		logger: logger.With(slog.String("component", "email_handler")),
		tracer: otel.Tracer("github.com/lattiq/emailservice/internal/server"),
	}
}

// ServeHTTP handles POST /api/email.
func (h *EmailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "server.EmailHandler.ServeHTTP")
	defer span.End()

	var req EmailRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid request payload", slog.String("error", err.Error()))
		span.SetStatus(codes.Error, "invalid payload")
		writeText(w, http.StatusBadRequest, BadRequestMessage)
		return
	}

	span.SetAttributes(attribute.String("emailservice.to", req.To))

	err := h.sender.Send(ctx, req.To, req.Subject, req.Body)

	var sendErr *emailservice.SendError
	switch {
	case err == nil:
		h.logger.InfoContext(ctx, "email sent", slog.String("to", req.To))
		writeText(w, http.StatusOK, SuccessMessage)
	case errors.As(err, &sendErr):
		h.logger.ErrorContext(ctx, "email send failed",
			slog.String("to", req.To),
			slog.String("provider", sendErr.Provider),
			slog.Any("cause", sendErr.Cause),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		writeText(w, http.StatusInternalServerError, FailureMessage)
	case emailservice.IsValidationError(err):
		h.logger.WarnContext(ctx, "email rejected", slog.String("error", err.Error()))
		span.SetStatus(codes.Error, "validation failed")
		writeText(w, http.StatusBadRequest, BadRequestMessage)
	default:
		h.logger.ErrorContext(ctx, "email send failed", slog.String("error", err.Error()))
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		writeText(w, http.StatusInternalServerError, FailureMessage)
	}
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
