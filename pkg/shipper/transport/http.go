// Package transport sends serialized carrier requests over HTTP.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/tournevent/shipbridge/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const userAgent = "shipbridge/1.0"

// Config holds HTTP transport configuration.
type Config struct {
	// Carrier labels errors, logs and spans.
	Carrier string
	Timeout time.Duration
	// RequestsPerSecond throttles outbound calls; zero disables throttling.
	RequestsPerSecond float64
	Burst             int
}

// HTTP is the production shipper.Transport.
type HTTP struct {
	carrier    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *otelzap.Logger
	tracer     trace.Tracer
}

// New creates an HTTP transport. Nil logger or tracer disable them.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *HTTP {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("transport")
	}

	t := &HTTP{
		carrier: cfg.Carrier,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
		tracer: tracer,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return t
}

// WithHTTPClient replaces the underlying HTTP client.
func (t *HTTP) WithHTTPClient(c *http.Client) *HTTP {
	t.httpClient = c
	return t
}

// Send serializes req, posts it to its endpoint and returns the response body.
// Non-2xx statuses fail with a *shipper.TransportError unless the endpoint
// accepts error bodies and the response is a carrier error document.
func (t *HTTP) Send(ctx context.Context, req shipper.Outbound) ([]byte, error) {
	ep := req.Target()

	ctx, span := t.tracer.Start(ctx, "transport.send",
		trace.WithAttributes(
			attribute.String("carrier", t.carrier),
			attribute.String("http.method", ep.Method),
			attribute.String("http.url", ep.URL),
		))
	defer span.End()

	body, err := t.send(ctx, req, ep)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		t.logger.Ctx(ctx).Warn("Carrier request failed",
			zap.String("carrier", t.carrier),
			zap.String("url", ep.URL),
			zap.Error(err),
		)
		return nil, err
	}
	return body, nil
}

func (t *HTTP) send(ctx context.Context, req shipper.Outbound, ep shipper.Endpoint) ([]byte, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, shipper.NewTransportError(t.carrier, "RATE_LIMITED", "waiting for rate limiter").
				WithCause(err)
		}
	}

	payload, err := req.Serialize()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request: %w", err)
	}

	method := ep.Method
	if method == "" {
		method = http.MethodPost
	}

	var bodyReader io.Reader
	if len(payload) > 0 {
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, ep.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if ep.ContentType != "" && len(payload) > 0 {
		httpReq.Header.Set("Content-Type", ep.ContentType)
	}
	if ep.Accept != "" {
		httpReq.Header.Set("Accept", ep.Accept)
	}
	if ep.SOAPAction != "" {
		httpReq.Header.Set("SOAPAction", ep.SOAPAction)
	}
	if ep.Username != "" {
		httpReq.SetBasicAuth(ep.Username, ep.Password)
	}
	httpReq.Header.Set("User-Agent", userAgent)
	for k, v := range ep.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		retryable := !errors.Is(err, context.Canceled)
		return nil, shipper.NewTransportError(t.carrier, "NETWORK", "request failed").
			WithCause(err).
			WithRetryable(retryable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, shipper.NewTransportError(t.carrier, "READ", "failed to read response").
			WithCause(err).
			WithStatusCode(resp.StatusCode)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	if ep.ErrorBodies && len(body) > 0 && errorDocument(ep, resp.Header.Get("Content-Type")) {
		return body, nil
	}
	return nil, statusError(t.carrier, resp.StatusCode, body)
}

// errorDocument reports whether a non-2xx response carries a document the
// carrier's parser understands: same structured syntax as the endpoint.
func errorDocument(ep shipper.Endpoint, contentType string) bool {
	want := syntax(ep.Accept)
	if want == "" {
		want = syntax(ep.ContentType)
	}
	return want != "" && syntax(contentType) == want
}

// syntax returns "xml" or "json" for media types such as text/xml,
// application/soap+xml or application/vnd.cpc.messages+xml.
func syntax(mediaType string) string {
	if mediaType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return ""
	}
	_, sub, ok := strings.Cut(mt, "/")
	if !ok {
		return ""
	}
	for _, s := range []string{"xml", "json"} {
		if sub == s || strings.HasSuffix(sub, "+"+s) {
			return s
		}
	}
	return ""
}

func statusError(carrier string, status int, body []byte) *shipper.TransportError {
	e := shipper.NewTransportError(carrier, fmt.Sprintf("HTTP_%d", status), http.StatusText(status)).
		WithStatusCode(status).
		WithBody(body)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.WithCause(shipper.ErrAuthenticationFailed)
	case status == http.StatusTooManyRequests:
		e.WithCause(shipper.ErrRateLimitExceeded).WithRetryable(true)
	case status >= 500:
		e.WithCause(shipper.ErrServiceUnavailable).WithRetryable(true)
	}
	return e
}

var _ shipper.Transport = (*HTTP)(nil)
