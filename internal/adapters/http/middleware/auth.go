// Package middleware - Authentication middleware.
//
// Production-ready auth middleware with JWT (HS256) support.
// MockTokenValidator is kept ONLY for development/test.
package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// AuthUserIDKey is the context key the authenticated user id is stored under.
	AuthUserIDKey = "auth_user_id"
	// AuthUserEmailKey is the context key the authenticated user's email is stored under.
	AuthUserEmailKey = "auth_user_email"
	// AuthUserRoleKey is the context key the authenticated user's role is stored under.
	AuthUserRoleKey = "auth_user_role"
)

// AuthConfig configures the authentication middleware.
type AuthConfig struct {
	// TokenValidator validates a bearer token.
	// In production this is a JWT validator or a call to an auth service.
	TokenValidator func(token string) (*AuthClaims, error)
	// SkipPaths lists request paths that do not require authorization.
	SkipPaths []string
}

// AuthClaims holds the data extracted from an authorization token.
//
// Pattern: Claims object (as in JWT)
type AuthClaims struct {
	UserID string
	Email  string
	Role   string
	Exp    time.Time
}

// Auth middleware checks authorization.
//
// Flow:
// 1. Extract the token from the Authorization header
// 2. Validate the token via TokenValidator
// 3. Store the user's data in the context
// 4. Continue processing, or abort with 401
//
// Pattern: Bearer Token Authentication
func Auth(config *AuthConfig) gin.HandlerFunc {
	// Build a map for fast skip-path lookups
	skipMap := make(map[string]bool)
	for _, path := range config.SkipPaths {
		skipMap[path] = true
	}

	return func(c *gin.Context) {
		// Skip paths that don't require authorization
		if skipMap[c.Request.URL.Path] {
			c.Next()
			return
		}

		// Extract the token from the header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithUnauthorized(c, "Authorization header is required")
			return
		}

		// Check the "Bearer <token>" format
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWithUnauthorized(c, "Invalid authorization header format")
			return
		}

		token := parts[1]
		if token == "" {
			abortWithUnauthorized(c, "Token is required")
			return
		}

		// Validate the token
		claims, err := config.TokenValidator(token)
		if err != nil {
			abortWithUnauthorized(c, "Invalid or expired token")
			return
		}

		// Check expiration
		if claims.Exp.Before(time.Now()) {
			abortWithUnauthorized(c, "Token has expired")
			return
		}

		// Store claims in the context
		c.Set(AuthUserIDKey, claims.UserID)
		c.Set(AuthUserEmailKey, claims.Email)
		c.Set(AuthUserRoleKey, claims.Role)

		c.Next()
	}
}

// abortWithUnauthorized sends a 401 response.
func abortWithUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
		"request_id": GetRequestID(c),
		"timestamp":  time.Now().UTC(),
	})
}

// RequireRole middleware checks the user's role.
//
// Used after the Auth middleware to enforce permissions.
func RequireRole(roles ...string) gin.HandlerFunc {
	roleMap := make(map[string]bool)
	for _, role := range roles {
		roleMap[role] = true
	}

	return func(c *gin.Context) {
		userRole := GetAuthUserRole(c)
		if userRole == "" {
			abortWithForbidden(c, "User role not found")
			return
		}

		if !roleMap[userRole] {
			abortWithForbidden(c, "Insufficient permissions")
			return
		}

		c.Next()
	}
}

// abortWithForbidden sends a 403 response.
func abortWithForbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "FORBIDDEN",
			"message": message,
		},
		"request_id": GetRequestID(c),
		"timestamp":  time.Now().UTC(),
	})
}

// ============================================
// Helper functions for extracting auth data
// ============================================

// GetAuthUserID returns the authenticated user's id.
func GetAuthUserID(c *gin.Context) uuid.UUID {
	if id, exists := c.Get(AuthUserIDKey); exists {
		if strID, ok := id.(string); ok {
			if uid, err := uuid.Parse(strID); err == nil {
				return uid
			}
		}
	}
	return uuid.Nil
}

// GetAuthUserEmail returns the authenticated user's email.
func GetAuthUserEmail(c *gin.Context) string {
	if email, exists := c.Get(AuthUserEmailKey); exists {
		if strEmail, ok := email.(string); ok {
			return strEmail
		}
	}
	return ""
}

// GetAuthUserRole returns the authenticated user's role.
func GetAuthUserRole(c *gin.Context) string {
	if role, exists := c.Get(AuthUserRoleKey); exists {
		if strRole, ok := role.(string); ok {
			return strRole
		}
	}
	return ""
}

// ============================================
// Development/Testing Helpers
// ============================================

// ============================================
// JWT Token Validator (Production)
// ============================================

// NewJWTTokenValidator creates a production JWT token validator.
// Accepts any HMAC signing method (HS256/HS384/HS512) with the provided secret.
func NewJWTTokenValidator(secret string, issuer string) func(token string) (*AuthClaims, error) {
	return func(tokenString string) (*AuthClaims, error) {
		parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to parse token: %w", err)
		}

		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok || !parsed.Valid {
			return nil, fmt.Errorf("invalid token claims")
		}

		// Validate issuer if configured
		if issuer != "" {
			if iss, _ := claims["iss"].(string); iss != issuer {
				return nil, fmt.Errorf("invalid token issuer")
			}
		}

		userID, _ := claims["sub"].(string)
		email, _ := claims["email"].(string)
		role, _ := claims["role"].(string)

		if userID == "" {
			return nil, fmt.Errorf("missing user ID (sub) in token")
		}

		exp := time.Time{}
		if expFloat, ok := claims["exp"].(float64); ok {
			exp = time.Unix(int64(expFloat), 0)
		}

		return &AuthClaims{
			UserID: userID,
			Email:  email,
			Role:   role,
			Exp:    exp,
		}, nil
	}
}

// GenerateJWT creates a signed JWT token with HS256.
func GenerateJWT(secret, issuer, userID, email, role string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"iss":   issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ============================================
// Development/Testing Helpers
// ============================================

// MockTokenValidator is a mock validator for development/testing.
//
// IMPORTANT: use ONLY for development!
// Production must use a real JWT validator.
func MockTokenValidator(token string) (*AuthClaims, error) {
	// In development the token is the user id
	return &AuthClaims{
		UserID: token,
		Email:  "test@example.com",
		Role:   "user",
		Exp:    time.Now().Add(24 * time.Hour),
	}, nil
}

// AdminMockTokenValidator is a mock validator for admin.
func AdminMockTokenValidator(token string) (*AuthClaims, error) {
	return &AuthClaims{
		UserID: token,
		Email:  "admin@example.com",
		Role:   "admin",
		Exp:    time.Now().Add(24 * time.Hour),
	}, nil
}
