// Package http contains the HTTP adapters (REST API).
//
// Package layout:
// - common/: shared types and helpers (split out to avoid import cycles)
// - middleware/: HTTP middleware (auth, logging, recovery)
// - handlers/: HTTP handlers, one per resource
// - router.go: route configuration
// - server.go: HTTP server lifecycle
//
// Pattern: Adapter (Hexagonal Architecture)
// - HTTP is an outer adapter that translates HTTP requests into use case calls
// - Contains no business logic
// - Only handles data transformation and HTTP semantics
package http

import (
	"github.com/vaultcoin/ledgercore/internal/adapters/http/common"
)

// Re-export types from common package for convenience
type (
	// APIResponse is the standard API response envelope.
	APIResponse = common.APIResponse
	// APIMeta carries pagination metadata.
	APIMeta = common.APIMeta
	// APIError is the API error structure.
	APIError = common.APIError
	// FieldError is a single field's validation error.
	FieldError = common.FieldError
)

// Re-export error codes
const (
	ErrCodeValidation       = common.ErrCodeValidation
	ErrCodeNotFound         = common.ErrCodeNotFound
	ErrCodeBadRequest       = common.ErrCodeBadRequest
	ErrCodeUnauthorized     = common.ErrCodeUnauthorized
	ErrCodeForbidden        = common.ErrCodeForbidden
	ErrCodeConflict         = common.ErrCodeConflict
	ErrCodeTooManyRequests  = common.ErrCodeTooManyRequests
	ErrCodeBusinessRule     = common.ErrCodeBusinessRule
	ErrCodeDuplicateRequest = common.ErrCodeDuplicateRequest
	ErrCodeInternal         = common.ErrCodeInternal
	ErrCodeConcurrency      = common.ErrCodeConcurrency
	ErrCodeTimeout          = common.ErrCodeTimeout
	ErrCodeUnavailable      = common.ErrCodeUnavailable
)

// Re-export functions
var (
	// GetRequestID returns the Request ID from the context.
	GetRequestID = common.GetRequestID
	// SetRequestID stores the Request ID in the context.
	SetRequestID = common.SetRequestID
	// Success sends a successful response.
	Success = common.Success
	// SuccessWithMeta sends a successful response with metadata.
	SuccessWithMeta = common.SuccessWithMeta
	// Error sends an error response.
	Error = common.Error
	// ValidationErrorResponse builds a response for validation errors.
	ValidationErrorResponse = common.ValidationErrorResponse
	// NotFoundResponse builds a 404 response.
	NotFoundResponse = common.NotFoundResponse
	// BadRequestResponse builds a response for a malformed request.
	BadRequestResponse = common.BadRequestResponse
	// UnauthorizedResponse builds a 401 response.
	UnauthorizedResponse = common.UnauthorizedResponse
	// ForbiddenResponse builds a 403 response.
	ForbiddenResponse = common.ForbiddenResponse
	// ConflictResponse builds a 409 response.
	ConflictResponse = common.ConflictResponse
	// TooManyRequestsResponse builds a response for rate limiting.
	TooManyRequestsResponse = common.TooManyRequestsResponse
	// InternalErrorResponse builds a response for an internal error.
	InternalErrorResponse = common.InternalErrorResponse
	// HandleDomainError maps a domain error to an HTTP response.
	HandleDomainError = common.HandleDomainError
)
