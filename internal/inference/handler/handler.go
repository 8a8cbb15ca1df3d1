package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"waterquality/internal/inference"
	dErrors "waterquality/pkg/domain-errors"
	"waterquality/pkg/platform/httputil"
	"waterquality/pkg/requestcontext"
)

// Service defines the interface for prediction.
type Service interface {
	Predict(ctx context.Context, country string, airQuality, pm25 float64) (inference.Prediction, error)
}

// Catalog exposes the reference lists.
type Catalog interface {
	Countries() []string
	Cities() []string
}

// Handler wires the JSON prediction API to the inference service.
type Handler struct {
	service Service
	catalog Catalog
	logger  *slog.Logger
}

// New constructs a prediction handler with its dependencies.
func New(service Service, catalog Catalog, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		catalog: catalog,
		logger:  logger,
	}
}

// Register mounts the API endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/predict", h.HandlePredict)
	r.Get("/countries", h.HandleCountries)
	r.Get("/cities", h.HandleCities)
}

// HandlePredict handles POST /predict requests.
func (h *Handler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[PredictRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Predict(ctx, req.Country, *req.AirQuality, *req.PM25)
	if err != nil {
		h.logger.InfoContext(ctx, "prediction rejected",
			"request_id", requestID,
			"kind", inference.KindOf(err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		// The kind stays in logs and diagnostics; clients only see the generic failure.
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnprocessable, inference.PublicMessage))
		return
	}

	h.logger.InfoContext(ctx, "prediction served",
		"request_id", requestID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, fromPrediction(result))
}

// HandleCountries handles GET /countries.
func (h *Handler) HandleCountries(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, CountriesResponse{Countries: h.catalog.Countries()})
}

// HandleCities handles GET /cities.
func (h *Handler) HandleCities(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, CitiesResponse{Cities: h.catalog.Cities()})
}
