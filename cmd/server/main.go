package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"waterquality/internal/bundle"
	"waterquality/internal/diagnostics"
	httpapi "waterquality/internal/http"
	"waterquality/internal/inference"
	"waterquality/internal/inference/handler"
	inferenceMetrics "waterquality/internal/inference/metrics"
	"waterquality/internal/model/onnx"
	"waterquality/internal/platform/config"
	"waterquality/internal/platform/httpserver"
	"waterquality/internal/platform/kafka"
	"waterquality/internal/platform/logger"
	"waterquality/internal/platform/metrics"
	"waterquality/internal/platform/postgres"
	"waterquality/internal/platform/redis"
	rlMetrics "waterquality/internal/ratelimit/metrics"
	ratelimit "waterquality/internal/ratelimit/middleware"
	"waterquality/internal/ratelimit/store/bucket"
	"waterquality/internal/reference"
	"waterquality/internal/web"
	"waterquality/pkg/platform/sentinel"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}
	log := logger.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		var loadErr *bundle.StartupLoadError
		switch {
		case errors.As(err, &loadErr), errors.Is(err, reference.ErrLoad):
			log.Error("startup data could not be loaded", "error", err)
		case errors.Is(err, sentinel.ErrUnavailable):
			log.Error("backing service unavailable", "error", err)
		default:
			log.Error("server stopped with error", "error", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	appMetrics := metrics.New()

	// Model bundle and reference data are independent; load both before listening.
	var (
		loaded  *bundle.Bundle
		catalog *reference.Catalog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loader := bundle.NewLoader(bundle.WithFactory(onnx.Kind, onnx.NewFactory(cfg.Model.OnnxLibraryPath)))
		b, err := loader.Load(cfg.Model.BundlePath)
		if err != nil {
			return err
		}
		loaded = b
		return nil
	})
	g.Go(func() error {
		src, closeSrc, err := referenceSource(gctx, cfg.Reference)
		if err != nil {
			return err
		}
		defer closeSrc()
		c, err := reference.Load(gctx, src)
		if err != nil {
			return err
		}
		catalog = c
		return nil
	})
	if err := g.Wait(); err != nil {
		if loaded != nil {
			_ = loaded.Close()
		}
		return err
	}
	defer loaded.Close()

	unknown := catalog.UnknownTo(loaded.Encoder)
	appMetrics.SetBundle(loaded.Model.Kind(), loaded.Metadata.Version, loaded.Encoder.Len())
	appMetrics.SetReference(len(catalog.Countries()), len(unknown))
	log.Info("model bundle loaded",
		"path", cfg.Model.BundlePath,
		"kind", loaded.Model.Kind(),
		"version", loaded.Metadata.Version,
		"vocabulary", loaded.Encoder.Len(),
	)
	log.Debug("encoder vocabulary", "classes", loaded.Encoder.Classes())
	if len(unknown) > 0 {
		log.Warn("selectable countries unknown to the encoder; predictions for them will fail",
			"count", len(unknown),
			"countries", unknown,
		)
		for _, name := range unknown {
			if class, ok := loaded.Encoder.NearMatch(name); ok {
				log.Warn("reference country differs from an encoder class only in whitespace or unicode form",
					"country", name,
					"class", class,
				)
			}
		}
	}

	var health []httpapi.HealthCheck

	publishers := diagnostics.Multi{diagnostics.NewLogPublisher(log)}
	kafkaClient, err := kafka.New(ctx, cfg.Kafka)
	if err != nil {
		return err
	}
	if kafkaClient != nil {
		defer kafkaClient.Close()
		publishers = append(publishers, diagnostics.NewKafkaPublisher(kafkaClient, cfg.Kafka.Topic, log))
		health = append(health, httpapi.HealthCheck{Name: "kafka", Check: kafkaClient.Ping})
		log.Info("diagnostics publishing to kafka", "topic", cfg.Kafka.Topic)
	}

	svc, err := inference.New(loaded.Encoder, loaded.Model,
		inference.WithLogger(log),
		inference.WithMetrics(inferenceMetrics.New()),
		inference.WithDiagnostics(publishers),
		inference.WithTracer(otel.Tracer(cfg.Tracing.ServiceName)),
	)
	if err != nil {
		return err
	}

	page, err := web.New(svc, catalog, log)
	if err != nil {
		return err
	}

	deps := httpapi.Deps{
		Logger:         log,
		API:            handler.New(svc, catalog, log),
		Web:            page,
		Metrics:        metrics.Handler(),
		TrustedProxies: cfg.TrustedProxies,
	}

	if cfg.RateLimit.Enabled {
		redisClient, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		var primary ratelimit.Store
		if redisClient != nil {
			defer redisClient.Close()
			primary = bucket.NewRedis(redisClient.Client)
			health = append(health, httpapi.HealthCheck{Name: "redis", Check: redisClient.Health})
		}
		m := rlMetrics.New()
		limiter := ratelimit.NewLimiter(primary, cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.Window,
			ratelimit.WithLimiterLogger(log),
			ratelimit.WithLimiterMetrics(m),
		)
		deps.RateLimiter = ratelimit.New(limiter, log, ratelimit.WithMetrics(m))
	}
	deps.Health = health

	srv := httpserver.New(cfg.Addr, httpapi.NewRouter(deps))

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting water quality service", "addr", cfg.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// referenceSource picks Postgres when a DSN is configured, else the CSV file.
// The returned func releases the source's resources.
func referenceSource(ctx context.Context, cfg config.ReferenceConfig) (reference.Source, func(), error) {
	if cfg.DSN == "" {
		return reference.NewCSVSource(cfg.CSVPath), func() {}, nil
	}
	db, err := postgres.Open(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", reference.ErrLoad, err)
	}
	return reference.NewPostgresSource(db, cfg.Table), func() { _ = db.Close() }, nil
}
