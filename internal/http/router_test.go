package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"net/url"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/suite"

	"waterquality/internal/encoder"
	"waterquality/internal/inference"
	"waterquality/internal/inference/handler"
	"waterquality/internal/model"
	ratelimit "waterquality/internal/ratelimit/middleware"
	"waterquality/internal/reference"
	"waterquality/internal/web"
	dErrors "waterquality/pkg/domain-errors"
	"waterquality/pkg/platform/middleware/request"
	"waterquality/pkg/testutil"
)

// RouterSuite drives the assembled router end to end with in-memory components.
type RouterSuite struct {
	suite.Suite
	logger *slog.Logger
	deps   Deps
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	enc, err := encoder.FromClasses([]string{"Brazil", "Canada", "Germany"})
	s.Require().NoError(err)
	lin, err := model.NewLinear([]float64{0.5, 0.1, 0.2}, 3)
	s.Require().NoError(err)
	svc, err := inference.New(enc, lin)
	s.Require().NoError(err)
	cat, err := reference.NewCatalog([]string{"Brazil", "Germany"}, reference.DisplayCities())
	s.Require().NoError(err)
	page, err := web.New(svc, cat, s.logger)
	s.Require().NoError(err)

	s.deps = Deps{
		Logger:  s.logger,
		API:     handler.New(svc, cat, s.logger),
		Web:     page,
		Metrics: promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{}),
	}
}

func (s *RouterSuite) TestPredictThroughMiddleware() {
	router := NewRouter(s.deps)
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/predict", map[string]any{
		"country": "Germany", "air_quality": 50.0, "pm25": 10.0,
	})
	req.Header.Set(request.HeaderRequestID, "trace-me")
	rr := testutil.DoRequest(router, req)

	s.Require().Equal(http.StatusOK, rr.Code)
	s.Equal("trace-me", rr.Header().Get(request.HeaderRequestID))
	resp := testutil.UnmarshalResponse[handler.PredictResponse](s.T(), rr)
	s.Equal("11.00", resp.Formatted)
}

func (s *RouterSuite) TestFormPage() {
	router := NewRouter(s.deps)
	rr := testutil.DoRequest(router, testutil.NewFormRequest(s.T(), "/predict",
		url.Values{"country": {"Brazil"}, "air_quality": {"0"}, "pm25": {"0"}}))

	s.Require().Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), "Predicted Water Pollution Level</strong>: 3.00")
	s.NotEmpty(rr.Header().Get(request.HeaderRequestID))
}

func (s *RouterSuite) TestHealth() {
	s.Run("no checks", func() {
		rr := testutil.DoRequest(NewRouter(s.deps), testutil.NewJSONRequest(s.T(), http.MethodGet, "/healthz", nil))
		s.Equal(http.StatusOK, rr.Code)
		s.Equal("ok", testutil.UnmarshalResponse[healthResponse](s.T(), rr).Status)
	})

	s.Run("failing dependency", func() {
		deps := s.deps
		deps.Health = []HealthCheck{
			{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }},
		}
		rr := testutil.DoRequest(NewRouter(deps), testutil.NewJSONRequest(s.T(), http.MethodGet, "/healthz", nil))
		s.Equal(http.StatusServiceUnavailable, rr.Code)
		resp := testutil.UnmarshalResponse[healthResponse](s.T(), rr)
		s.Equal("degraded", resp.Status)
		s.Equal("connection refused", resp.Checks["redis"])
	})
}

func (s *RouterSuite) TestMetricsExposed() {
	rr := testutil.DoRequest(NewRouter(s.deps), testutil.NewJSONRequest(s.T(), http.MethodGet, "/metrics", nil))
	s.Equal(http.StatusOK, rr.Code)
}

func (s *RouterSuite) TestNotFound() {
	rr := testutil.DoRequest(NewRouter(s.deps), testutil.NewJSONRequest(s.T(), http.MethodGet, "/nope", nil))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, string(dErrors.CodeNotFound))
}

func (s *RouterSuite) TestRateLimitedAPI() {
	deps := s.deps
	limiter := ratelimit.NewLimiter(nil, 2, time.Minute)
	deps.RateLimiter = ratelimit.New(limiter, s.logger)
	router := NewRouter(deps)

	call := func() int {
		req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/v1/countries", nil)
		req.RemoteAddr = "203.0.113.9:5555"
		return testutil.DoRequest(router, req).Code
	}
	s.Equal(http.StatusOK, call())
	s.Equal(http.StatusOK, call())
	s.Equal(http.StatusTooManyRequests, call())

	// Health is outside the limited groups.
	rr := testutil.DoRequest(router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/healthz", nil))
	s.Equal(http.StatusOK, rr.Code)
}

func (s *RouterSuite) TestRateLimitKeyedByPeer() {
	s.Run("rotating forwarded-for from one peer shares a budget", func() {
		deps := s.deps
		deps.RateLimiter = ratelimit.New(ratelimit.NewLimiter(nil, 1, time.Minute), s.logger)
		router := NewRouter(deps)

		allowed := 0
		for i := range 50 {
			req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/v1/countries", nil)
			req.RemoteAddr = "203.0.113.9:5555"
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
			if testutil.DoRequest(router, req).Code == http.StatusOK {
				allowed++
			}
		}
		s.Equal(1, allowed)
	})

	s.Run("trusted proxy forwards distinct clients", func() {
		deps := s.deps
		deps.TrustedProxies = []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}
		deps.RateLimiter = ratelimit.New(ratelimit.NewLimiter(nil, 1, time.Minute), s.logger)
		router := NewRouter(deps)

		call := func(client string) int {
			req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/v1/countries", nil)
			req.RemoteAddr = "10.1.2.3:443"
			req.Header.Set("X-Forwarded-For", client)
			return testutil.DoRequest(router, req).Code
		}
		s.Equal(http.StatusOK, call("198.51.100.1"))
		s.Equal(http.StatusOK, call("198.51.100.2"))
		s.Equal(http.StatusTooManyRequests, call("198.51.100.1"))
	})
}
