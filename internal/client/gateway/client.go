// Package gateway performs the typed request/response exchanges between the
// client and the gym backend.
//
// Every call is exactly one HTTP exchange: no retries, no batching, no state.
// Non-2xx responses become REMOTE_FAILURE errors carrying the backend's
// `detail` message (or a per-operation fallback when it is absent), and
// connectivity or decoding problems become TRANSPORT_FAILURE errors that
// surface to the user the same way.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/gymmanager/internal/gym"
	apperrors "github.com/louisbranch/gymmanager/internal/platform/errors"
	"github.com/louisbranch/gymmanager/internal/platform/logging"
	platformotel "github.com/louisbranch/gymmanager/internal/platform/otel"
	"github.com/louisbranch/gymmanager/internal/platform/timeouts"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseURL is used when no backend URL is configured.
const DefaultBaseURL = "http://localhost:8000"

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 4 << 20

// Client exchanges JSON with the gym backend.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  zerolog.Logger
	tracer  trace.Tracer
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for every exchange.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithLogger sets the logger for exchange diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.ForComponent(logger, "gateway")
	}
}

// New creates a gateway client for baseURL. An empty baseURL uses DefaultBaseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	raw := strings.TrimSpace(baseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("backend url %q must use http or https", raw)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("backend url %q has no host", raw)
	}
	c := &Client{
		baseURL: parsed,
		http:    &http.Client{Timeout: timeouts.BackendRequest},
		logger:  logging.Nop(),
		tracer:  platformotel.Tracer("gateway"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// exchange describes one request/response pair.
type exchange struct {
	op       string
	method   string
	path     string
	filter   gym.Filter
	body     any
	fallback string
}

func (c *Client) endpoint(ex exchange) string {
	target := c.baseURL.JoinPath(ex.path)
	if !ex.filter.IsZero() {
		query := target.Query()
		query.Set(ex.filter.Field, ex.filter.Value)
		target.RawQuery = query.Encode()
	}
	return target.String()
}

// do performs ex and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, ex exchange, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "gateway."+ex.op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", ex.method),
			attribute.String("url.path", ex.path),
		),
	)
	started := time.Now()
	status := 0
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		event := c.logger.Debug()
		if err != nil {
			event = c.logger.Warn().Err(err).Str(logging.Code, string(apperrors.CodeOf(err)))
		}
		event.Str(logging.Event, ex.op).
			Str("method", ex.method).
			Str("path", ex.path).
			Int("status", status).
			Dur("elapsed", time.Since(started)).
			Msg("backend exchange")
	}()

	var reader io.Reader
	if ex.body != nil {
		payload, err := json.Marshal(ex.body)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeTransportFailure, ex.fallback, fmt.Errorf("encode %s request: %w", ex.op, err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, ex.method, c.endpoint(ex), reader)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeTransportFailure, ex.fallback, fmt.Errorf("build %s request: %w", ex.op, err))
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeTransportFailure, ex.fallback, fmt.Errorf("%s request: %w", ex.op, err))
	}
	defer resp.Body.Close()
	status = resp.StatusCode
	span.SetAttributes(attribute.Int("http.response.status_code", status))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return apperrors.Wrap(apperrors.CodeTransportFailure, ex.fallback, fmt.Errorf("read %s response: %w", ex.op, err))
	}

	if status < 200 || status > 299 {
		return remoteError(ex, status, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.Wrap(apperrors.CodeTransportFailure, ex.fallback, fmt.Errorf("decode %s response: %w", ex.op, err))
	}
	return nil
}

// remoteError builds a REMOTE_FAILURE from a non-2xx response body.
func remoteError(ex exchange, status int, body []byte) error {
	message := detailMessage(body)
	if message == "" {
		message = ex.fallback
	}
	return apperrors.WithMetadata(apperrors.CodeRemoteFailure, message, map[string]string{
		apperrors.MetaStatus:    strconv.Itoa(status),
		apperrors.MetaOperation: ex.op,
	})
}

// detailMessage extracts the backend `detail`. A string is used verbatim; a
// list of validation entries is flattened to their `msg` fields.
func detailMessage(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}
	var entries []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &entries); err == nil {
		parts := make([]string, 0, len(entries))
		for _, entry := range entries {
			if msg := strings.TrimSpace(entry.Msg); msg != "" {
				parts = append(parts, msg)
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}
