// Package trello is the client for the board service's REST API.
// Credentials travel as query parameters on every call, never as a header.
package trello

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cardctl/internal/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public API endpoint.
const DefaultBaseURL = "https://api.trello.com/1"

const instrumentationName = "cardctl/trello"

// Credentials is the key/token pair sent with every request.
type Credentials struct {
	Key   string
	Token string
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// RateLimit is requests per second; zero or less disables pacing.
	RateLimit float64
	RateBurst int
	Logger    *slog.Logger
}

// Client performs API calls on behalf of one set of credentials.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	creds    Credentials
	limiter  *rate.Limiter
	logger   *slog.Logger
	tracer   trace.Tracer
	requests metric.Int64Counter
}

// NewClient creates a client for the given credentials.
func NewClient(creds Credentials, opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.RateBurst
	if burst <= 0 {
		burst = 1
	}

	requests, err := otel.Meter(instrumentationName).Int64Counter(
		"cardctl.api.requests",
		metric.WithDescription("Board service API calls by method, route and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}

	return &Client{
		BaseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: opts.Timeout,
		},
		creds:    creds,
		limiter:  rate.NewLimiter(limit, burst),
		logger:   opts.Logger,
		tracer:   otel.Tracer(instrumentationName),
		requests: requests,
	}, nil
}

// ErrorKind classifies a RemoteError.
type ErrorKind int

const (
	// KindTransport means the request never produced a response.
	KindTransport ErrorKind = iota
	// KindParse means the response body was not the expected JSON.
	KindParse
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// RemoteError is returned when a call fails before a usable result exists.
type RemoteError struct {
	Method string
	Route  string
	Kind   ErrorKind
	Err    error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s: %s error: %v", e.Method, e.Route, e.Kind, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// APIError represents a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// Invoke sends method to path with params plus the credentials and decodes
// the JSON response into out. out may be nil when the body is not needed.
func (c *Client) Invoke(ctx context.Context, method, path string, params url.Values, out any) (err error) {
	route := routeTemplate(path)
	log := logger.FromContext(ctx, c.logger)

	ctx, span := c.tracer.Start(ctx, fmt.Sprintf("trello %s %s", method, route),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("http.route", route),
		),
	)
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		c.requests.Add(ctx, 1, metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("route", route),
			attribute.String("outcome", outcome),
		))
		span.End()
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return &RemoteError{Method: method, Route: route, Kind: KindTransport, Err: err}
	}

	query := url.Values{}
	for k, v := range params {
		query[k] = append([]string(nil), v...)
	}
	query.Set("key", c.creds.Key)
	query.Set("token", c.creds.Token)

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	endpoint := fmt.Sprintf("%s%s?%s", c.BaseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return &RemoteError{Method: method, Route: route, Kind: KindTransport, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Add("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		// url.Error repeats the full URL, which carries the credentials.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		log.Debug("api call failed", "method", method, "route", route, "error", err)
		return &RemoteError{Method: method, Route: route, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RemoteError{Method: method, Route: route, Kind: KindTransport, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	log.Debug("api call",
		"method", method,
		"route", route,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &RemoteError{Method: method, Route: route, Kind: KindParse, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return nil
}

// routeTemplate replaces the id segment of /collection/{id}/... paths so
// that spans, metrics and logs never carry ids or tokens.
func routeTemplate(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) > 1 {
		segments[1] = "{id}"
	}
	return "/" + strings.Join(segments, "/")
}
