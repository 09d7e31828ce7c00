package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "nsepulse/internal/errors"
	"nsepulse/internal/middleware"
)

const dateLayout = "2006-01-02"

// AnalysisHandler serves the breakout analysis endpoints.
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
	batchNotify  func(count int)
}

// NewAnalysisHandler creates the handler for the analysis routes.
func NewAnalysisHandler(service AnalysisServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "analysis_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// SetBatchNotifier registers a callback invoked after each successful batch
// run, used to push completion events to websocket clients.
func (h *AnalysisHandler) SetBatchNotifier(fn func(count int)) {
	h.batchNotify = fn
}

// Routes returns the analysis routes.
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/prediction", h.GetPrediction)
	r.Get("/predictions", h.GetPredictions)
	r.Get("/snapshot", h.GetSnapshot)
	r.Get("/narrative", h.GetNarrative)
	r.Get("/breakouts", h.GetBreakouts)

	return r
}

// dateParam extracts and validates the ?date= query parameter.
func (h *AnalysisHandler) dateParam(r *http.Request) (time.Time, error) {
	dateStr := r.URL.Query().Get("date")
	if err := h.validate.Var(dateStr, "required,datetime="+dateLayout); err != nil {
		return time.Time{}, apierrors.ErrValidation("date", "Date is required in YYYY-MM-DD format")
	}
	return time.Parse(dateLayout, dateStr)
}

// GetPrediction handles GET /api/analysis/prediction?date=YYYY-MM-DD
func (h *AnalysisHandler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	date, err := h.dateParam(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "computing prediction",
		slog.String("request_id", reqID),
		slog.String("date", date.Format(dateLayout)),
	)

	prediction, err := h.service.Predict(r.Context(), date)
	if err != nil {
		h.logger.WarnContext(r.Context(), "prediction failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("date", date.Format(dateLayout)),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   prediction,
	})
}

// GetPredictions handles GET /api/analysis/predictions
func (h *AnalysisHandler) GetPredictions(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "computing batch predictions",
		slog.String("request_id", reqID),
		slog.Int("days", h.service.Days()),
	)

	predictions, err := h.service.PredictAll(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "batch prediction failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if h.batchNotify != nil {
		h.batchNotify(len(predictions))
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   predictions,
		"count":  len(predictions),
	})
}

// GetSnapshot handles GET /api/analysis/snapshot?date=YYYY-MM-DD
func (h *AnalysisHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	date, err := h.dateParam(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	snapshot, err := h.service.Snapshot(r.Context(), date)
	if err != nil {
		h.logger.WarnContext(r.Context(), "snapshot failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("date", date.Format(dateLayout)),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   snapshot,
	})
}

// GetNarrative handles GET /api/analysis/narrative?date=YYYY-MM-DD
func (h *AnalysisHandler) GetNarrative(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	date, err := h.dateParam(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	narrative, err := h.service.Narrative(r.Context(), date)
	if err != nil {
		h.logger.WarnContext(r.Context(), "narrative failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("date", date.Format(dateLayout)),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   narrative,
	})
}

// GetBreakouts handles GET /api/analysis/breakouts
func (h *AnalysisHandler) GetBreakouts(w http.ResponseWriter, r *http.Request) {
	dates := h.service.Breakouts(r.Context())

	formatted := make([]string, 0, len(dates))
	for _, d := range dates {
		formatted = append(formatted, d.Format(dateLayout))
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   formatted,
		"count":  len(formatted),
	})
}
