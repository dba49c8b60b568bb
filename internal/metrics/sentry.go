package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	// HTTP status code threshold for considering a request successful
	successStatusCodeThreshold = http.StatusBadRequest
)

// SentryMetrics handles custom metrics for Sentry
type SentryMetrics struct {
	enabled bool
}

// NewSentryMetrics creates a new Sentry metrics client
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{
		enabled: true, // Always enabled if Sentry is configured
	}
}

// RecordAPIRequest records API request metrics
func (m *SentryMetrics) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "api.request")
	defer span.Finish()

	span.SetTag("endpoint", endpoint)
	span.SetTag("status_code", fmt.Sprintf("%d", statusCode))
	span.SetTag("success", fmt.Sprintf("%t", statusCode < successStatusCodeThreshold))

	span.SetData("duration_ms", duration.Milliseconds())
	span.SetData("endpoint", endpoint)
	span.SetData("status_code", statusCode)

	if statusCode < successStatusCodeThreshold {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}

	span.Description = fmt.Sprintf("API Request: %s", endpoint)
}

// RecordBankParse records one parse pass over the configured bank files
func (m *SentryMetrics) RecordBankParse(ctx context.Context, sources, banks, errors int, duration time.Duration) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "banks.parse")
	defer span.Finish()

	span.SetTag("sources", fmt.Sprintf("%d", sources))
	span.SetData("banks", banks)
	span.SetData("parse_errors", errors)
	span.SetData("duration_ms", duration.Milliseconds())

	if errors == 0 {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusUnknown
	}
}

// RecordProjectGeneration records one project file generation
func (m *SentryMetrics) RecordProjectGeneration(ctx context.Context, tracks, bytes int, duration time.Duration) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "project.generate")
	defer span.Finish()

	span.SetData("tracks", tracks)
	span.SetData("output_bytes", bytes)
	span.SetData("duration_ms", duration.Milliseconds())
	span.Status = sentry.SpanStatusOK
}
