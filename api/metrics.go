package api

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "portfolio-api/api"
	useCasesSpanName    = "GET " + useCasesRoute
	useCasesEventName   = "usecases.request.metrics"
)

type useCaseRequestMetrics struct {
	logger            *log.Logger
	span              trace.Span
	start             time.Time
	configDuration    time.Duration
	fetchDuration     time.Duration
	transformDuration time.Duration
	encodeDuration    time.Duration
	rowsReceived      int
	useCasesReturned  int
	errorStage        string
}

// newUseCaseRequestMetrics starts the request span. The returned context
// carries the span and should replace the request context.
func newUseCaseRequestMetrics(ctx context.Context, logger *log.Logger) (*useCaseRequestMetrics, context.Context) {
	spanCtx, span := otel.Tracer(instrumentationName).Start(ctx, useCasesSpanName,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("http.route", useCasesRoute)))
	return &useCaseRequestMetrics{
		logger: logger,
		span:   span,
		start:  time.Now(),
	}, spanCtx
}

func (m *useCaseRequestMetrics) ObserveConfig(d time.Duration) {
	if d > 0 {
		m.configDuration = d
	}
}

func (m *useCaseRequestMetrics) ObserveFetch(d time.Duration) {
	if d > 0 {
		m.fetchDuration = d
	}
}

func (m *useCaseRequestMetrics) ObserveTransform(d time.Duration) {
	if d > 0 {
		m.transformDuration = d
	}
}

func (m *useCaseRequestMetrics) ObserveEncode(d time.Duration) {
	if d > 0 {
		m.encodeDuration = d
	}
}

func (m *useCaseRequestMetrics) SetRowsReceived(n int) {
	if n < 0 {
		n = 0
	}
	m.rowsReceived = n
}

func (m *useCaseRequestMetrics) SetUseCasesReturned(n int) {
	if n < 0 {
		n = 0
	}
	m.useCasesReturned = n
}

func (m *useCaseRequestMetrics) SetErrorStage(stage string) {
	if stage == "" {
		return
	}
	m.errorStage = stage
}

// Log ends the span and emits the request's metrics entry. err is the
// pipeline failure answered with status, if any.
func (m *useCaseRequestMetrics) Log(status int, err error) {
	if m == nil {
		return
	}
	total := time.Since(m.start)
	severity, severityNumber := severityForStatus(status, err)

	fields := log.Fields{
		"route":              useCasesRoute,
		"status":             status,
		"total_ms":           durationToMillis(total),
		"rows_received":      m.rowsReceived,
		"use_cases_returned": m.useCasesReturned,
		"severity_text":      severity,
		"severity_number":    severityNumber,
	}
	attrs := []attribute.KeyValue{
		attribute.Int("http.status_code", status),
		attribute.Float64("portfolio.usecases.total_ms", durationToMillis(total)),
		attribute.Int("portfolio.usecases.rows_received", m.rowsReceived),
		attribute.Int("portfolio.usecases.returned", m.useCasesReturned),
		attribute.String("portfolio.usecases.severity_text", severity),
		attribute.Int("portfolio.usecases.severity_number", severityNumber),
	}
	for name, d := range map[string]time.Duration{
		"config_ms":    m.configDuration,
		"fetch_ms":     m.fetchDuration,
		"transform_ms": m.transformDuration,
		"encode_ms":    m.encodeDuration,
	} {
		if d > 0 {
			fields[name] = durationToMillis(d)
			attrs = append(attrs, attribute.Float64("portfolio.usecases."+name, durationToMillis(d)))
		}
	}
	if m.errorStage != "" {
		fields["error_stage"] = m.errorStage
		attrs = append(attrs, attribute.String("portfolio.usecases.error_stage", m.errorStage))
	}
	if err != nil {
		fields["error"] = err.Error()
	}

	if m.span != nil {
		if sc := m.span.SpanContext(); sc.HasTraceID() {
			fields["trace_id"] = sc.TraceID().String()
		}
		m.span.SetAttributes(attrs...)
		if severity == "ERROR" {
			desc := http.StatusText(status)
			if err != nil {
				m.span.RecordError(err)
				desc = err.Error()
			}
			m.span.SetStatus(codes.Error, desc)
		} else {
			m.span.SetStatus(codes.Ok, "")
		}
		m.span.End()
	}

	if m.logger == nil {
		return
	}
	entry := m.logger.WithFields(fields)
	switch severity {
	case "ERROR":
		entry.Error(useCasesEventName)
	case "WARN":
		entry.Warn(useCasesEventName)
	default:
		entry.Info(useCasesEventName)
	}
}

// severityForStatus returns the OpenTelemetry severity text and number for
// a response.
func severityForStatus(status int, err error) (string, int) {
	switch {
	case err != nil || status >= http.StatusInternalServerError:
		return "ERROR", 17
	case status >= http.StatusBadRequest:
		return "WARN", 13
	default:
		return "INFO", 9
	}
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
