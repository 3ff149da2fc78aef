package smartsheet

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"portfolio-api/domain"
)

const (
	DefaultBaseURL = "https://api.smartsheet.com/2.0"
	DefaultTimeout = 15 * time.Second

	maxSheetSize  = 64 << 20 // 64 MiB
	maxErrorSize  = 64 << 10
	userAgent     = "portfolio-api"
	getSheetSpan  = "smartsheet.get_sheet"
	instrumentLib = "portfolio-api/smartsheet"
)

// Client reads sheets from the Smartsheet REST API. It is safe for
// concurrent use; none of its fields change after NewClient returns.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *log.Logger
	tracer  trace.Tracer
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root, e.g. a regional
// endpoint or a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client. The client is copied
// when a timeout has to be applied to it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client authenticating with token. A blank token is
// accepted; FetchSheet then fails with ErrTokenMissing.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:   strings.TrimSpace(token),
		baseURL: DefaultBaseURL,
		http:    &http.Client{},
		timeout: DefaultTimeout,
		logger:  log.StandardLogger(),
		tracer:  otel.Tracer(instrumentLib),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Timeout != c.timeout {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// FetchSheet downloads the sheet with its columns and rows in one call. It
// makes exactly one attempt.
func (c *Client) FetchSheet(ctx context.Context, sheetID string) (sheet domain.Sheet, err error) {
	if c.token == "" {
		return domain.Sheet{}, ErrTokenMissing
	}

	ctx, span := c.tracer.Start(ctx, getSheetSpan, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("smartsheet.sheet_id", sheetID)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int("smartsheet.rows", len(sheet.Rows)))
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	endpoint := c.baseURL + "/sheets/" + url.PathEscape(sheetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Sheet{}, &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Sheet{}, &TransportError{Op: "get sheet", Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upErr := upstreamError(resp)
		c.logger.WithFields(log.Fields{
			"sheet_id":    sheetID,
			"status":      resp.StatusCode,
			"error_code":  upErr.ErrorCode,
			"message":     upErr.Message,
			"duration_ms": durationToMillis(time.Since(start)),
		}).Warn("smartsheet.get_sheet.failed")
		return domain.Sheet{}, upErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSheetSize))
	if err != nil {
		return domain.Sheet{}, &TransportError{Op: "read sheet", Err: err}
	}
	if err := sonic.Unmarshal(body, &sheet); err != nil {
		return domain.Sheet{}, &TransportError{Op: "decode sheet", Err: err}
	}

	c.logger.WithFields(log.Fields{
		"sheet_id":    sheetID,
		"columns":     len(sheet.Columns),
		"rows":        len(sheet.Rows),
		"bytes":       len(body),
		"duration_ms": durationToMillis(time.Since(start)),
	}).Debug("smartsheet.get_sheet")
	return sheet, nil
}

type apiError struct {
	ErrorCode int    `json:"errorCode"`
	Message   string `json:"message"`
}

func upstreamError(resp *http.Response) *UpstreamError {
	e := &UpstreamError{StatusCode: resp.StatusCode, Reason: reasonPhrase(resp)}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorSize))
	if err != nil || len(data) == 0 {
		return e
	}
	var body apiError
	if sonic.Unmarshal(data, &body) == nil {
		e.ErrorCode = body.ErrorCode
		e.Message = body.Message
	}
	return e
}

// reasonPhrase extracts the reason from a status line such as "404 Not Found".
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	if reason == "" {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	return reason
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
