package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	Environment     string
	ShutdownTimeout time.Duration
	// TrustedProxies are the peers allowed to name the client through
	// X-Forwarded-For or X-Real-IP. Empty means the peer address is the client.
	TrustedProxies  []netip.Prefix
	Logging         LoggingConfig
	Model           ModelConfig
	Reference       ReferenceConfig
	Redis           RedisConfig
	Kafka           KafkaConfig
	RateLimit       RateLimitConfig
	Tracing         TracingConfig
}

// LoggingConfig selects the slog handler and level.
type LoggingConfig struct {
	Format string // "json" or "text"
	Level  string // "debug", "info", "warn", "error"
}

// ModelConfig locates the serialized encoder+model bundle.
type ModelConfig struct {
	BundlePath string
	// OnnxLibraryPath points at the onnxruntime shared library; only read when
	// the bundle declares an onnx model.
	OnnxLibraryPath string
}

// ReferenceConfig locates the country reference dataset. When DSN is set the
// countries are read from Postgres instead of the CSV file.
type ReferenceConfig struct {
	CSVPath string
	DSN     string
	Table   string
}

// RedisConfig configures the optional Redis connection backing rate limiting.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional diagnostics sink.
type KafkaConfig struct {
	Brokers     []string
	Topic       string
	CreateTopic bool
}

// RateLimitConfig bounds prediction requests per client IP.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerWindow int
	Window            time.Duration
}

// TracingConfig controls the OpenTelemetry tracer name.
type TracingConfig struct {
	ServiceName string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:        getEnv("WQ_ADDR", ":8080"),
		Environment: getEnv("WQ_ENV", "development"),
		Logging: LoggingConfig{
			Format: getEnv("LOG_FORMAT", "json"),
			Level:  getEnv("LOG_LEVEL", "info"),
		},
		Model: ModelConfig{
			BundlePath:      getEnv("MODEL_BUNDLE_PATH", "water_quality_model.json"),
			OnnxLibraryPath: os.Getenv("ONNXRUNTIME_LIB"),
		},
		Reference: ReferenceConfig{
			CSVPath: getEnv("REFERENCE_CSV_PATH", "Cities1.csv"),
			DSN:     os.Getenv("REFERENCE_DSN"),
			Table:   getEnv("REFERENCE_TABLE", "cities"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_DIAGNOSTICS_TOPIC", "water-quality.prediction-failures"),
		},
		Tracing: TracingConfig{
			ServiceName: getEnv("OTEL_SERVICE_NAME", "water-quality"),
		},
	}

	var err error
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.PoolSize, err = getInt("REDIS_POOL_SIZE", 10); err != nil {
		return Server{}, err
	}
	if cfg.Redis.MinIdleConns, err = getInt("REDIS_MIN_IDLE_CONNS", 2); err != nil {
		return Server{}, err
	}
	if cfg.Redis.DialTimeout, err = getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.ReadTimeout, err = getDuration("REDIS_READ_TIMEOUT", time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.WriteTimeout, err = getDuration("REDIS_WRITE_TIMEOUT", time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Kafka.CreateTopic, err = getBool("KAFKA_CREATE_TOPIC", false); err != nil {
		return Server{}, err
	}
	if cfg.RateLimit.Enabled, err = getBool("RATE_LIMIT_ENABLED", true); err != nil {
		return Server{}, err
	}
	if cfg.RateLimit.RequestsPerWindow, err = getInt("RATE_LIMIT_REQUESTS", 60); err != nil {
		return Server{}, err
	}
	if cfg.RateLimit.Window, err = getDuration("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return Server{}, err
	}

	if cfg.TrustedProxies, err = getPrefixes("TRUSTED_PROXIES"); err != nil {
		return Server{}, err
	}

	if cfg.RateLimit.Enabled && cfg.RateLimit.RequestsPerWindow <= 0 {
		return Server{}, fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", cfg.RateLimit.RequestsPerWindow)
	}
	return cfg, nil
}

// IsProduction reports whether the server runs with production defaults.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getPrefixes parses a comma-separated list of CIDRs or bare addresses.
func getPrefixes(key string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, part := range splitList(os.Getenv(key)) {
		if p, err := netip.ParsePrefix(part); err == nil {
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(part)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %q is not an address or CIDR", key, part)
		}
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
