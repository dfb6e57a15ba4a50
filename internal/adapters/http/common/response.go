// Package common holds the HTTP response envelope shared by every
// handler. Separated from the handlers package to avoid an import cycle
// between handlers and the router.
package common

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/vaultcoin/ledgercore/internal/domain/errors"
)

// ============================================
// Standard API Response Format
// ============================================

// APIResponse is the envelope every endpoint responds with.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Meta      *APIMeta    `json:"meta,omitempty"`
	RequestID string      `json:"request_id"`
	Timestamp time.Time   `json:"timestamp"`
}

// APIMeta carries pagination metadata.
type APIMeta struct {
	Offset int `json:"offset,omitempty"`
	Limit  int `json:"limit,omitempty"`
	Total  int `json:"total,omitempty"`
}

// APIError is the error body shape.
type APIError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Fields     []FieldError           `json:"fields,omitempty"`
	RetryAfter int                    `json:"retry_after,omitempty"`
}

// FieldError reports one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ============================================
// Error Codes
// ============================================

const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeTooManyRequests     = "TOO_MANY_REQUESTS"
	ErrCodeBusinessRule        = "BUSINESS_RULE_VIOLATION"
	ErrCodeDuplicateRequest    = "DUPLICATE_REQUEST"
	ErrCodeConcurrency         = "CONCURRENCY_ERROR"
	ErrCodeInsufficientFunds   = "INSUFFICIENT_FUNDS"
	ErrCodeIdempotencyConflict = "IDEMPOTENCY_CONFLICT"
	ErrCodeInternal            = "INTERNAL_ERROR"
	ErrCodeTimeout             = "TIMEOUT"
	ErrCodeUnavailable         = "SERVICE_UNAVAILABLE"
)

// ============================================
// Request ID
// ============================================

const RequestIDKey = "X-Request-ID"

// GetRequestID reads the request id stashed by the request-id middleware.
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDKey); exists {
		return id.(string)
	}
	return ""
}

// SetRequestID stashes the request id and mirrors it to the response header.
func SetRequestID(c *gin.Context, id string) {
	c.Set(RequestIDKey, id)
	c.Header(RequestIDKey, id)
}

// ============================================
// Response Helpers
// ============================================

// Success writes a successful response.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success:   true,
		Data:      data,
		RequestID: GetRequestID(c),
		Timestamp: time.Now().UTC(),
	})
}

// SuccessWithMeta writes a successful response carrying pagination metadata.
func SuccessWithMeta(c *gin.Context, statusCode int, data interface{}, meta *APIMeta) {
	c.JSON(statusCode, APIResponse{
		Success:   true,
		Data:      data,
		Meta:      meta,
		RequestID: GetRequestID(c),
		Timestamp: time.Now().UTC(),
	})
}

// Error writes an error response.
func Error(c *gin.Context, statusCode int, apiError *APIError) {
	c.JSON(statusCode, APIResponse{
		Success:   false,
		Error:     apiError,
		RequestID: GetRequestID(c),
		Timestamp: time.Now().UTC(),
	})
}

// ============================================
// Error Response Helpers
// ============================================

// ValidationErrorResponse reports one or more invalid request fields.
func ValidationErrorResponse(c *gin.Context, fields []FieldError) {
	Error(c, http.StatusBadRequest, &APIError{
		Code:    ErrCodeValidation,
		Message: "request validation failed",
		Fields:  fields,
	})
}

// NotFoundResponse reports a missing resource.
func NotFoundResponse(c *gin.Context, resource string) {
	Error(c, http.StatusNotFound, &APIError{
		Code:    ErrCodeNotFound,
		Message: resource + " not found",
	})
}

// BadRequestResponse reports a malformed request.
func BadRequestResponse(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, &APIError{
		Code:    ErrCodeBadRequest,
		Message: message,
	})
}

// UnauthorizedResponse reports a missing or invalid credential.
func UnauthorizedResponse(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, &APIError{
		Code:    ErrCodeUnauthorized,
		Message: message,
	})
}

// ForbiddenResponse reports an authenticated caller lacking permission.
func ForbiddenResponse(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, &APIError{
		Code:    ErrCodeForbidden,
		Message: message,
	})
}

// ConflictResponse reports a request that conflicts with current state.
func ConflictResponse(c *gin.Context, message string) {
	Error(c, http.StatusConflict, &APIError{
		Code:    ErrCodeConflict,
		Message: message,
	})
}

// TooManyRequestsResponse reports a rate-limited request.
func TooManyRequestsResponse(c *gin.Context, retryAfter int) {
	Error(c, http.StatusTooManyRequests, &APIError{
		Code:       ErrCodeTooManyRequests,
		Message:    "too many requests, please try again later",
		RetryAfter: retryAfter,
	})
}

// InternalErrorResponse reports an unexpected failure.
func InternalErrorResponse(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, &APIError{
		Code:    ErrCodeInternal,
		Message: message,
	})
}

// ============================================
// Domain Error to HTTP Error Mapper
// ============================================

// HandleDomainError maps the ledger's error taxonomy (§7) onto a stable
// HTTP status and error body. This mapping is ambient glue; it does not
// alter the taxonomy itself.
func HandleDomainError(c *gin.Context, err error) {
	var invalidArg *domainerrors.InvalidArgumentError
	if asInvalidArgument(err, &invalidArg) {
		ValidationErrorResponse(c, []FieldError{
			{Field: invalidArg.Field, Message: invalidArg.Reason, Code: "invalid"},
		})
		return
	}

	var insufficientFunds *domainerrors.InsufficientFundsError
	if asInsufficientFunds(err, &insufficientFunds) {
		Error(c, http.StatusUnprocessableEntity, &APIError{
			Code:    ErrCodeInsufficientFunds,
			Message: insufficientFunds.Error(),
		})
		return
	}

	var idempotencyConflict *domainerrors.IdempotencyConflictError
	if asIdempotencyConflict(err, &idempotencyConflict) {
		Error(c, http.StatusConflict, &APIError{
			Code:    ErrCodeIdempotencyConflict,
			Message: idempotencyConflict.Error(),
		})
		return
	}

	if domainerrors.IsTransient(err) {
		Error(c, http.StatusServiceUnavailable, &APIError{
			Code:    ErrCodeUnavailable,
			Message: "the store is under contention, retry with the same idempotency key",
			Details: map[string]interface{}{"retryable": true},
		})
		return
	}

	InternalErrorResponse(c, "an unexpected error occurred")
}

func asInvalidArgument(err error, target **domainerrors.InvalidArgumentError) bool {
	for e := err; e != nil; e = unwrap(e) {
		if v, ok := e.(*domainerrors.InvalidArgumentError); ok {
			*target = v
			return true
		}
	}
	return false
}

func asInsufficientFunds(err error, target **domainerrors.InsufficientFundsError) bool {
	for e := err; e != nil; e = unwrap(e) {
		if v, ok := e.(*domainerrors.InsufficientFundsError); ok {
			*target = v
			return true
		}
	}
	return false
}

func asIdempotencyConflict(err error, target **domainerrors.IdempotencyConflictError) bool {
	for e := err; e != nil; e = unwrap(e) {
		if v, ok := e.(*domainerrors.IdempotencyConflictError); ok {
			*target = v
			return true
		}
	}
	return false
}

func unwrap(err error) error {
	u, ok := err.(interface{ Unwrap() error })
	if !ok {
		return nil
	}
	return u.Unwrap()
}
