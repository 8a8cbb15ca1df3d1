// Package inference turns a (country, air quality, PM2.5) triple into a
// water-quality prediction using the encoder and model loaded at startup.
package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"waterquality/internal/diagnostics"
	"waterquality/internal/inference/metrics"
	"waterquality/internal/model"
	"waterquality/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Encoder,DiagnosticsPublisher

// Encoder maps a country name to the integer code the model was trained on.
type Encoder interface {
	Encode(name string) (int, error)
}

// DiagnosticsPublisher receives the internal reason for each failure.
type DiagnosticsPublisher interface {
	Publish(ctx context.Context, event diagnostics.Event)
}

// Service runs predictions against an immutable encoder and model. It holds
// no mutable state and is safe for concurrent use.
type Service struct {
	encoder     Encoder
	model       model.Regressor
	logger      *slog.Logger
	metrics     *metrics.Metrics
	diagnostics DiagnosticsPublisher
	tracer      trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithDiagnostics(p DiagnosticsPublisher) Option {
	return func(s *Service) {
		s.diagnostics = p
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New constructs a Service. Both collaborators are required.
func New(enc Encoder, m model.Regressor, opts ...Option) (*Service, error) {
	if enc == nil {
		return nil, errors.New("encoder is required")
	}
	if m == nil {
		return nil, errors.New("model is required")
	}
	s := &Service{
		encoder: enc,
		model:   m,
		logger:  slog.Default(),
		tracer:  otel.Tracer("waterquality/internal/inference"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Predict encodes country, runs the model on (code, airQuality, pm25) and
// returns its output. Inputs are passed through without range checks.
//
// Every failure is reported as ErrPredictionFailure. Use KindOf on the
// returned error to tell an unknown country from a model failure.
func (s *Service) Predict(ctx context.Context, country string, airQuality, pm25 float64) (result Prediction, err error) {
	ctx, span := s.tracer.Start(ctx, "inference.Predict", trace.WithAttributes(
		attribute.String("country", country),
		attribute.String("model.kind", s.model.Kind()),
	))
	defer span.End()
	start := time.Now()

	// stage is the kind charged to a panic.
	stage := KindUnknownCategory
	defer func() {
		if r := recover(); r != nil {
			cause := fmt.Errorf("encode panic: %v", r)
			if stage == KindModelInference {
				cause = fmt.Errorf("%w: panic: %v", model.ErrInference, r)
			}
			result = Prediction{}
			err = s.fail(ctx, span, stage, country, cause)
		}
		s.metrics.ObservePredictLatency(time.Since(start))
	}()

	code, encErr := s.encoder.Encode(country)
	if encErr != nil {
		return Prediction{}, s.fail(ctx, span, KindUnknownCategory, country, encErr)
	}

	stage = KindModelInference
	features := model.Features{CountryCode: code, AirQuality: airQuality, PM25: pm25}
	out, modelErr := s.model.Predict([]model.Features{features})
	if modelErr != nil {
		if !errors.Is(modelErr, model.ErrInference) {
			modelErr = fmt.Errorf("%w: %w", model.ErrInference, modelErr)
		}
		return Prediction{}, s.fail(ctx, span, KindModelInference, country, modelErr)
	}
	if len(out) == 0 {
		return Prediction{}, s.fail(ctx, span, KindModelInference, country,
			fmt.Errorf("%w: model returned no output", model.ErrInference))
	}
	value := out[0]
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Prediction{}, s.fail(ctx, span, KindModelInference, country,
			fmt.Errorf("%w: model returned non-finite value %v", model.ErrInference, value))
	}

	s.metrics.IncrementSuccess()
	span.SetAttributes(attribute.Float64("prediction", value))
	return Prediction{Value: value}, nil
}

func (s *Service) fail(ctx context.Context, span trace.Span, kind Kind, country string, cause error) error {
	requestID := requestcontext.RequestID(ctx)

	span.RecordError(cause)
	span.SetStatus(codes.Error, string(kind))
	s.metrics.IncrementFailure(string(kind))

	s.logger.DebugContext(ctx, "prediction failed",
		"request_id", requestID,
		"kind", kind,
		"error", cause,
	)

	if s.diagnostics != nil {
		event := diagnostics.NewEvent(string(kind), country, cause, requestcontext.Now(ctx))
		event.RequestID = requestID
		event.ModelKind = s.model.Kind()
		s.diagnostics.Publish(ctx, event)
	}

	return &FailureError{kind: kind, cause: cause}
}
