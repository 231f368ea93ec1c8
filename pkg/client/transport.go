package client

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for remote API calls.
var (
	monbilletRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monbillet_requests_total",
		Help: "Total monbillet API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	monbilletRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "monbillet_request_duration_seconds",
		Help:    "monbillet API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"endpoint"})

	monbilletErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monbillet_errors_total",
		Help: "Total monbillet API errors by kind",
	}, []string{"kind"})
)

// transport performs single authenticated GET requests. Redirects are
// returned as-is and no request is retried.
type transport struct {
	httpClient *http.Client
	token      string
	userAgent  string
	logger     zerolog.Logger
}

func newTransport(cfg Config, logger zerolog.Logger) *transport {
	return &transport{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		token:     cfg.APIToken,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

// fetch issues one GET for url. Any status >= 400 is returned as an
// *APIError; lower statuses are returned with their body.
func (t *transport) fetch(ctx context.Context, url, endpoint string) ([]byte, int, error) {
	startTime := time.Now()
	defer func() {
		monbilletRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, &APIError{
			Kind:    KindInvalidArgument,
			URL:     url,
			Message: "cannot build request",
			Err:     err,
		}
	}
	req.Header.Set(HeaderName, t.token)
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept", "application/json")

	t.logger.Debug().
		Str("endpoint", endpoint).
		Msg("Executing monbillet request")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		monbilletErrorsTotal.WithLabelValues(string(KindNetwork)).Inc()
		monbilletRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, 0, &APIError{
			Kind:    KindNetwork,
			URL:     url,
			Message: "request to " + url + " failed",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	monbilletRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()

	if kind := classifyStatus(status); kind != "" {
		monbilletErrorsTotal.WithLabelValues(string(kind)).Inc()
		t.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", status).
			Str("kind", string(kind)).
			Msg("monbillet request error")
		return nil, status, &APIError{
			Kind:       kind,
			StatusCode: status,
			URL:        url,
			Message:    statusMessage(kind, status, url),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		monbilletErrorsTotal.WithLabelValues(string(KindNetwork)).Inc()
		return nil, status, &APIError{
			Kind:       KindNetwork,
			StatusCode: status,
			URL:        url,
			Message:    "cannot read response body",
			Err:        err,
		}
	}

	return body, status, nil
}

// endpointLabel reduces a resource path to a low-cardinality metric label:
// the query is dropped and identifiers become "{id}".
func endpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) > 1 {
		parts[1] = "{id}"
		parts = parts[:2]
	}
	return strings.Join(parts, "/")
}
