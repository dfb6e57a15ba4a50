// Package middleware - CORS middleware.
//
// Cross-Origin Resource Sharing (CORS) lets browsers make requests to the
// API from other origins.
package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSConfig configures CORS.
type CORSConfig struct {
	// AllowOrigins lists permitted origins.
	// "*" allows all (not recommended for production)
	AllowOrigins []string
	// AllowMethods lists permitted HTTP methods
	AllowMethods []string
	// AllowHeaders lists permitted request headers
	AllowHeaders []string
	// ExposeHeaders lists headers exposed to the client
	ExposeHeaders []string
	// AllowCredentials permits credentials (cookies, auth headers)
	AllowCredentials bool
	// MaxAge is the preflight cache duration, in seconds
	MaxAge int
}

// DefaultCORSConfig returns the default configuration.
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Request-ID",
			"X-Idempotency-Key",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
		},
		AllowCredentials: false,
		MaxAge:           86400, // 24 hours
	}
}

// ProductionCORSConfig returns the production configuration.
func ProductionCORSConfig(allowedOrigins []string) *CORSConfig {
	config := DefaultCORSConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowCredentials = true
	return config
}

// CORS middleware handles Cross-Origin requests.
//
// How CORS works:
// 1. The browser sends an OPTIONS preflight request
// 2. The server responds with the allowed origins/methods/headers
// 3. The browser checks the response and decides whether to send the real request
//
// Headers:
// - Access-Control-Allow-Origin: permitted origins
// - Access-Control-Allow-Methods: permitted methods
// - Access-Control-Allow-Headers: permitted headers
// - Access-Control-Expose-Headers: headers visible to the client
// - Access-Control-Allow-Credentials: whether credentials are permitted
// - Access-Control-Max-Age: preflight cache duration
func CORS(config *CORSConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultCORSConfig()
	}

	// Pre-build the header strings
	allowMethods := strings.Join(config.AllowMethods, ", ")
	allowHeaders := strings.Join(config.AllowHeaders, ", ")
	exposeHeaders := strings.Join(config.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(config.MaxAge)

	// Build a map for fast origin lookups
	allowAllOrigins := len(config.AllowOrigins) == 1 && config.AllowOrigins[0] == "*"
	originsMap := make(map[string]bool)
	if !allowAllOrigins {
		for _, origin := range config.AllowOrigins {
			originsMap[origin] = true
		}
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Determine whether the origin is allowed
		var allowedOrigin string
		if allowAllOrigins {
			allowedOrigin = "*"
		} else if originsMap[origin] {
			allowedOrigin = origin
		}

		// If the origin isn't allowed, skip the CORS headers
		if allowedOrigin == "" && origin != "" {
			c.Next()
			return
		}

		// Set the CORS headers
		c.Header("Access-Control-Allow-Origin", allowedOrigin)
		c.Header("Access-Control-Allow-Methods", allowMethods)
		c.Header("Access-Control-Allow-Headers", allowHeaders)
		c.Header("Access-Control-Expose-Headers", exposeHeaders)
		c.Header("Access-Control-Max-Age", maxAge)

		if config.AllowCredentials {
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		// Handle the preflight request
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
