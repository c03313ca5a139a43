// Package backend is the HTTP client for the content REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/s2design/site/internal/platform/timeouts"
	apperrors "github.com/s2design/site/internal/services/site/platform/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName      = "github.com/s2design/site/internal/services/site/backend"
	maxResponseSize = 4 << 20

	// ConnectFailureMessage is reported when the API cannot be reached.
	ConnectFailureMessage = "Failed to connect to server"
)

// Localization keys for backend failures.
const (
	KeyUnavailable  = "errors.backend_unavailable"
	KeyUnauthorized = "errors.backend_unauthorized"
	KeyNotFound     = "errors.backend_not_found"
	KeyRejected     = "errors.backend_rejected"
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client calls the content REST API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	tracer  trace.Tracer
}

// New builds a Client for the API rooted at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if raw == "" {
		return nil, errors.New("backend base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend base url must be http or https, got %q", raw)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = timeouts.APIRequest
	}
	return &Client{
		baseURL: base,
		http:    httpClient,
		timeout: timeout,
		tracer:  otel.Tracer(tracerName),
	}, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// envelope is the API response wrapper. Success is a pointer so bare
// objects, which lack the field, can be told apart from failures.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func (e envelope) detail() string {
	if s := strings.TrimSpace(e.Error); s != "" {
		return s
	}
	return strings.TrimSpace(e.Message)
}

type call struct {
	method string
	route  string
	path   string
	token  string
	body   any
	out    any
}

func (c *Client) do(ctx context.Context, in call) (err error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "backend "+in.method+" "+in.route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", in.method),
			attribute.String("http.route", in.route),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var reqBody io.Reader
	if in.body != nil {
		payload, err := json.Marshal(in.body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", in.route, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	target := c.baseURL.JoinPath(in.path)
	req, err := http.NewRequestWithContext(ctx, in.method, target.String(), reqBody)
	if err != nil {
		return fmt.Errorf("build %s request: %w", in.route, err)
	}
	req.Header.Set("Accept", "application/json")
	if in.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if in.token != "" {
		req.Header.Set("Authorization", "Bearer "+in.token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Error{Kind: apperrors.KindUnavailable, Key: KeyUnavailable, Message: ConnectFailureMessage, Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return apperrors.Error{Kind: apperrors.KindUnavailable, Key: KeyUnavailable, Message: ConnectFailureMessage, Err: err}
	}
	return decode(resp.StatusCode, raw, in.out)
}

func decode(status int, raw []byte, out any) error {
	var env envelope
	parsed := len(bytes.TrimSpace(raw)) > 0 && json.Unmarshal(raw, &env) == nil

	if status < 200 || status > 299 {
		detail := ""
		if parsed {
			detail = env.detail()
		}
		return statusError(status, detail)
	}
	if parsed && env.Success != nil && !*env.Success {
		detail := env.detail()
		if detail == "" {
			detail = "request rejected"
		}
		return apperrors.EK(apperrors.KindInvalidInput, KeyRejected, detail)
	}
	if out == nil {
		return nil
	}

	payload := raw
	if parsed && env.Success != nil && len(env.Data) > 0 {
		payload = env.Data
	}
	if len(bytes.TrimSpace(payload)) == 0 || string(bytes.TrimSpace(payload)) == "null" {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return apperrors.Error{Kind: apperrors.KindUnavailable, Key: KeyUnavailable, Message: "unexpected response from server", Err: err}
	}
	return nil
}

func statusError(status int, detail string) error {
	if detail == "" {
		detail = http.StatusText(status)
	}
	switch {
	case status == http.StatusUnauthorized:
		return apperrors.EK(apperrors.KindUnauthorized, KeyUnauthorized, detail)
	case status == http.StatusForbidden:
		return apperrors.EK(apperrors.KindForbidden, KeyUnauthorized, detail)
	case status == http.StatusNotFound:
		return apperrors.EK(apperrors.KindNotFound, KeyNotFound, detail)
	case status == http.StatusBadRequest || status == http.StatusConflict || status == http.StatusUnprocessableEntity:
		return apperrors.EK(apperrors.KindInvalidInput, KeyRejected, detail)
	case status >= 500:
		return apperrors.EK(apperrors.KindUnavailable, KeyUnavailable, detail)
	default:
		return apperrors.EK(apperrors.KindUnknown, KeyRejected, detail)
	}
}

// Detail returns the backend's own error text for err, or the generic
// connection message for transport failures.
func Detail(err error) string {
	var appErr apperrors.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
