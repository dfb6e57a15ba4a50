// Package middleware - Logging middleware for structured HTTP logging.
package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// LoggingConfig configures the logging middleware.
type LoggingConfig struct {
	Logger          *slog.Logger
	SkipPaths       []string // Paths to skip logging for (e.g., /health)
	LogRequestBody  bool     // Log the request body (careful with PII!)
	LogResponseBody bool     // Log the response body
	MaxBodySize     int      // Max body size to log
}

// DefaultLoggingConfig returns the default configuration.
func DefaultLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Logger:          slog.Default(),
		SkipPaths:       []string{"/health", "/ready", "/metrics"},
		LogRequestBody:  false,
		LogResponseBody: false,
		MaxBodySize:     1024, // 1KB
	}
}

// Logging middleware structurally logs HTTP requests.
//
// Logged fields:
// - HTTP method and path
// - response status code
// - processing duration
// - Request ID
// - client IP
// - User-Agent
// - response size
//
// Pattern: Structured Logging
func Logging(config *LoggingConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultLoggingConfig()
	}

	// Build a map for fast skip-path lookups
	skipMap := make(map[string]bool)
	for _, path := range config.SkipPaths {
		skipMap[path] = true
	}

	return func(c *gin.Context) {
		// Skip paths that don't need logging
		if skipMap[c.Request.URL.Path] {
			c.Next()
			return
		}

		// Record the start time
		start := time.Now()

		// Read the request body when requested
		var requestBody string
		if config.LogRequestBody {
			bodyBytes, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			if len(bodyBytes) > 0 {
				requestBody = truncateString(string(bodyBytes), config.MaxBodySize)
			}
		}

		// Wrap the response writer to capture the response body
		blw := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		if config.LogResponseBody {
			c.Writer = blw
		}

		// Call the next handler
		c.Next()

		// Compute the duration
		duration := time.Since(start)

		// Collect the log attributes
		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("query", c.Request.URL.RawQuery),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", duration),
			slog.String("request_id", GetRequestID(c)),
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
			slog.Int("response_size", c.Writer.Size()),
		}

		// Add the request body when logging it
		if config.LogRequestBody && requestBody != "" {
			attrs = append(attrs, slog.String("request_body", requestBody))
		}

		// Add the response body when logging it
		if config.LogResponseBody && blw.body.Len() > 0 {
			attrs = append(attrs, slog.String("response_body",
				truncateString(blw.body.String(), config.MaxBodySize)))
		}

		// Add errors when present
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		// Pick the log level from the status code
		level := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		} else if c.Writer.Status() >= 400 {
			level = slog.LevelWarn
		}

		// Emit the log entry
		config.Logger.LogAttrs(c.Request.Context(), level, "HTTP Request", attrs...)
	}
}

// bodyLogWriter is a ResponseWriter that also captures the body written.
type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write writes to both the original writer and the buffer.
func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// truncateString trims a string to a maximum length.
func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...[truncated]"
}
