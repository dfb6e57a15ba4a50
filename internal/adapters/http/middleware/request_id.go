// Package middleware contains HTTP middleware for request processing.
//
// Middleware in Gin are functions that run before/after handlers.
// They handle cross-cutting concerns: logging, auth, tracing.
//
// SOLID Principles:
// - SRP: each middleware is responsible for one task
// - OCP: new middleware is added without changing existing ones
//
// Pattern: Chain of Responsibility
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader is the header name for the Request ID
	RequestIDHeader = "X-Request-ID"
	// RequestIDContextKey is the context key the Request ID is stored under
	RequestIDContextKey = "request_id"
)

// RequestID middleware attaches a unique id to every request.
//
// Why a Request ID is needed:
// 1. Tracing: correlating logs for a single request
// 2. Debugging: locating issues by id
// 3. Client tracking: the client can supply its own id
//
// If the client sends X-Request-ID it is reused, otherwise a new UUID is
// generated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Take the id from the header, or generate a new one
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		// Store it in the context
		c.Set(RequestIDContextKey, requestID)

		// Add it to the response headers
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID extracts the Request ID from the Gin context.
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDContextKey); exists {
		if strID, ok := id.(string); ok {
			return strID
		}
	}
	return ""
}
