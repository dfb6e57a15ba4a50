// Package middleware - Recovery middleware for handling panics.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
)

// RecoveryConfig configures the recovery middleware.
type RecoveryConfig struct {
	Logger           *slog.Logger
	EnableStackTrace bool // Include the stack trace in logs
	PrintStack       bool // Print the stack trace to the console
}

// DefaultRecoveryConfig returns the default configuration.
func DefaultRecoveryConfig() *RecoveryConfig {
	return &RecoveryConfig{
		Logger:           slog.Default(),
		EnableStackTrace: true,
		PrintStack:       false,
	}
}

// Recovery middleware catches a panic and returns a 500 error.
//
// Why Recovery is needed:
// 1. Keeps a panicking handler from crashing the whole process
// 2. Logs the stack trace for debugging
// 3. Returns the client an understandable error
//
// Pattern: Graceful Error Handling
func Recovery(config *RecoveryConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultRecoveryConfig()
	}

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				// Capture the stack trace
				stack := debug.Stack()

				// Log the error
				attrs := []slog.Attr{
					slog.String("error", fmt.Sprintf("%v", err)),
					slog.String("path", c.Request.URL.Path),
					slog.String("method", c.Request.Method),
					slog.String("request_id", GetRequestID(c)),
					slog.String("client_ip", c.ClientIP()),
				}

				if config.EnableStackTrace {
					attrs = append(attrs, slog.String("stack", string(stack)))
				}

				config.Logger.LogAttrs(c.Request.Context(), slog.LevelError, "Panic recovered", attrs...)

				// Print to console when enabled
				if config.PrintStack {
					fmt.Printf("[Recovery] panic recovered:\n%v\n%s\n", err, stack)
				}

				// Build the response
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_ERROR",
						"message": "An unexpected error occurred",
					},
					"request_id": GetRequestID(c),
					"timestamp":  time.Now().UTC(),
				})
			}
		}()

		c.Next()
	}
}
