package logger

import (
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// Fields represents structured log fields
type Fields map[string]interface{}

// WithContext extracts request context for logging
func WithContext(c *gin.Context) Fields {
	return Fields{
		"request_id": c.GetString("request_id"),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
	}
}

// Info logs an informational message with structured fields
func Info(msg string, fields Fields) {
	log.Printf("[INFO] %s %v", msg, formatFields(fields))

	// Send to Sentry as breadcrumb
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		sentry.AddBreadcrumb(&sentry.Breadcrumb{
			Type:     "info",
			Category: "log",
			Message:  msg,
			Data:     convertFieldsToMap(fields),
			Level:    sentry.LevelInfo,
		})
	}
}

// Warn logs a warning message with structured fields
func Warn(msg string, fields Fields) {
	log.Printf("[WARN] %s %v", msg, formatFields(fields))

	if hub := sentry.CurrentHub(); hub.Client() != nil {
		sentry.AddBreadcrumb(&sentry.Breadcrumb{
			Type:     "warning",
			Category: "log",
			Message:  msg,
			Data:     convertFieldsToMap(fields),
			Level:    sentry.LevelWarning,
		})
	}
}

// Error logs an error message with structured fields and sends to Sentry
func Error(msg string, err error, fields Fields) {
	log.Printf("[ERROR] %s: %v %v", msg, err, formatFields(fields))

	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			for key, value := range fields {
				scope.SetContext(key, map[string]interface{}{
					"value": value,
				})
			}

			if requestID, ok := fields["request_id"].(string); ok {
				scope.SetTag("request_id", requestID)
			}

			hub.CaptureException(err)
		})
	}
}

// Debug logs a debug message with structured fields
func Debug(msg string, fields Fields) {
	log.Printf("[DEBUG] %s %v", msg, formatFields(fields))
}

// LogAPIRequest logs API request metrics
func LogAPIRequest(c *gin.Context, duration time.Duration, statusCode int, fields Fields) {
	if fields == nil {
		fields = Fields{}
	}

	fields["duration_ms"] = duration.Milliseconds()
	fields["status_code"] = statusCode
	fields["request_id"] = c.GetString("request_id")
	fields["method"] = c.Request.Method
	fields["path"] = c.Request.URL.Path
	fields["client_ip"] = c.ClientIP()

	Info("API request completed", fields)
}

// formatFields converts Fields to a readable string
func formatFields(fields Fields) string {
	if len(fields) == 0 {
		return ""
	}
	result := "{"
	first := true
	for k, v := range fields {
		if !first {
			result += ", "
		}
		result += k + "="
		switch val := v.(type) {
		case string:
			result += val
		default:
			result += fmt.Sprintf("%v", val)
		}
		first = false
	}
	result += "}"
	return result
}

func convertFieldsToMap(fields Fields) map[string]interface{} {
	result := make(map[string]interface{})
	for k, v := range fields {
		result[k] = v
	}
	return result
}
