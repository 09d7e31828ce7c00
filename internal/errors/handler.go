package errors

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"nsepulse/internal/breakout"
	"nsepulse/internal/middleware"
)

// ErrorHandler provides centralized error handling for the HTTP layer. It
// maps engine errors onto API error responses and logs the server-side cause
// with the request context.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError converts any error to a structured API response and writes it.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())
	apiErr := h.toAPIError(err)

	logFn := h.logger.ErrorContext
	if apiErr.StatusCode < http.StatusInternalServerError {
		// Client errors are expected and logged at a lower level.
		logFn = h.logger.WarnContext
	}
	logFn(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("error_code", apiErr.ErrorCode),
		slog.Int("status", apiErr.StatusCode),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	if renderErr := render.Render(w, r, apiErr); renderErr != nil {
		h.logger.ErrorContext(r.Context(), "failed to render error response",
			slog.String("error", renderErr.Error()),
		)
	}
}

// toAPIError maps engine and context errors onto the API error taxonomy.
// Unrecognized errors become opaque internal server errors.
func (h *ErrorHandler) toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, breakout.ErrInvalidTarget):
		return ErrInvalidTarget
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return New(http.StatusGatewayTimeout, "REQUEST_TIMEOUT", "The request took too long to process")
	default:
		return ErrInternalServer
	}
}
