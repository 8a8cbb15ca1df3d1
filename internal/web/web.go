// Package web serves the single-page prediction form.
package web

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"waterquality/internal/inference"
	"waterquality/pkg/requestcontext"
)

//go:embed templates/index.html
var templateFS embed.FS

// Slider bounds and defaults. They constrain the form only; the service
// accepts any value.
const (
	AirQualityMin     = 0.0
	AirQualityMax     = 200.0
	AirQualityDefault = 50.0
	PM25Min           = 0.0
	PM25Max           = 100.0
	PM25Default       = 10.0
)

// ErrorMessage is the only failure text a user ever sees.
const ErrorMessage = "Error: " + inference.PublicMessage

// Service defines the interface for prediction.
type Service interface {
	Predict(ctx context.Context, country string, airQuality, pm25 float64) (inference.Prediction, error)
}

// Catalog provides the selectable countries and display cities.
type Catalog interface {
	Countries() []string
	CityColumns() (left, right []string)
}

// Handler renders the form and handles submissions.
type Handler struct {
	service Service
	catalog Catalog
	logger  *slog.Logger
	tmpl    *template.Template
}

type page struct {
	Title         string
	Countries     []string
	Country       string
	AirQuality    string
	PM25          string
	AirQualityMin string
	AirQualityMax string
	PM25Min       string
	PM25Max       string
	Prediction    string
	Error         string
	CitiesLeft    []string
	CitiesRight   []string
}

// New parses the embedded template. It fails only on a broken template.
func New(service Service, catalog Catalog, logger *slog.Logger) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &Handler{service: service, catalog: catalog, logger: logger, tmpl: tmpl}, nil
}

// Register mounts the page routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.HandleIndex)
	r.Post("/predict", h.HandlePredict)
}

// HandleIndex renders the form with default inputs.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	p := h.newPage()
	p.AirQuality = formatInput(AirQualityDefault)
	p.PM25 = formatInput(PM25Default)
	if len(p.Countries) > 0 {
		p.Country = p.Countries[0]
	}
	h.render(w, r, p)
}

// HandlePredict runs a prediction from the submitted form and re-renders the
// page with either the two-decimal result or the generic error.
func (h *Handler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	p := h.newPage()

	if err := r.ParseForm(); err != nil {
		h.logger.WarnContext(ctx, "failed to parse form", "request_id", requestID, "error", err)
		p.Error = ErrorMessage
		h.render(w, r, p)
		return
	}

	p.Country = r.PostForm.Get("country")
	aq, aqErr := parseInput(r.PostForm.Get("air_quality"), AirQualityDefault)
	pm, pmErr := parseInput(r.PostForm.Get("pm25"), PM25Default)
	p.AirQuality = echoInput(r.PostForm.Get("air_quality"), aq, aqErr)
	p.PM25 = echoInput(r.PostForm.Get("pm25"), pm, pmErr)

	if aqErr != nil || pmErr != nil {
		h.logger.InfoContext(ctx, "unparseable form input", "request_id", requestID)
		p.Error = ErrorMessage
		h.render(w, r, p)
		return
	}

	result, err := h.service.Predict(ctx, p.Country, aq, pm)
	if err != nil {
		h.logger.InfoContext(ctx, "prediction rejected",
			"request_id", requestID,
			"kind", inference.KindOf(err),
		)
		p.Error = ErrorMessage
		h.render(w, r, p)
		return
	}

	p.Prediction = result.Formatted()
	p.CitiesLeft, p.CitiesRight = h.catalog.CityColumns()
	h.render(w, r, p)
}

func (h *Handler) newPage() *page {
	return &page{
		Title:         "Water Quality Prediction",
		Countries:     h.catalog.Countries(),
		AirQualityMin: formatInput(AirQualityMin),
		AirQualityMax: formatInput(AirQualityMax),
		PM25Min:       formatInput(PM25Min),
		PM25Max:       formatInput(PM25Max),
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, p *page) {
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, p); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render page",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// parseInput returns def for an empty field.
func parseInput(raw string, def float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func echoInput(raw string, v float64, err error) string {
	if err != nil {
		return raw
	}
	return formatInput(v)
}

// formatInput renders whole numbers with one decimal ("50.0") and other
// values in their shortest form.
func formatInput(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
