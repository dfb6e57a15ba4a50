// Package handlers contains the HTTP handlers for the REST API.
//
// A handler is the Adapter in Clean Architecture terms: it binds the
// request, converts it to a Command/Query DTO, invokes a use case, and
// converts the result to an HTTP response.
package handlers

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/vaultcoin/ledgercore/internal/adapters/http/common"
)

// ============================================
// Custom Validator Setup
// ============================================

var setupOnce sync.Once

// SetupValidator registers the gin/validator customizations used across
// every handler in this package. Idempotent; safe to call more than once.
func SetupValidator() {
	setupOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				return name
			})

			_ = v.RegisterValidation("money_amount", validateMoneyAmount)
			_ = v.RegisterValidation("asset_code", validateAssetCode)
		}
	})
}

// ============================================
// Custom Validators
// ============================================

// validateMoneyAmount checks the wire shape of a decimal amount string
// (up to two fractional digits; the engine itself enforces the scale-2,
// 20-digit-magnitude constraint once parsed into an Amount).
var moneyPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

func validateMoneyAmount(fl validator.FieldLevel) bool {
	return moneyPattern.MatchString(fl.Field().String())
}

// validateAssetCode checks that an asset identifier starts with an uppercase
// letter followed by 1-31 uppercase letters, digits or underscores (GOLD,
// DIAMOND, LOYALTY, ...); lookup itself is exact-case.
var assetCodePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]{1,31}$`)

func validateAssetCode(fl validator.FieldLevel) bool {
	return assetCodePattern.MatchString(fl.Field().String())
}

// ============================================
// Validation Error Handling
// ============================================

// HandleValidationErrors converts a binding error into an HTTP response.
func HandleValidationErrors(c *gin.Context, err error) {
	var fieldErrors []common.FieldError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldErr := range validationErrors {
			fieldErrors = append(fieldErrors, common.FieldError{
				Field:   fieldErr.Field(),
				Message: getValidationMessage(fieldErr),
				Code:    fieldErr.Tag(),
			})
		}
	}

	if len(fieldErrors) == 0 {
		common.BadRequestResponse(c, "invalid request body: "+err.Error())
		return
	}

	common.ValidationErrorResponse(c, fieldErrors)
}

func getValidationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "uuid":
		return "invalid UUID format"
	case "min":
		return "value is too small (minimum: " + fe.Param() + ")"
	case "max":
		return "value is too large (maximum: " + fe.Param() + ")"
	case "len":
		return "value must be exactly " + fe.Param() + " characters"
	case "oneof":
		return "value must be one of: " + fe.Param()
	case "money_amount":
		return "invalid amount format (use a decimal like '100.50')"
	case "asset_code":
		return "invalid asset type identifier"
	default:
		return "invalid value"
	}
}

// ============================================
// Request Parsing Helpers
// ============================================

// BindJSON binds the JSON request body. Returns false (and has already
// written the error response) if binding failed.
func BindJSON[T any](c *gin.Context, req *T) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		HandleValidationErrors(c, err)
		return false
	}
	return true
}

// BindQuery binds query string parameters.
func BindQuery[T any](c *gin.Context, req *T) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		HandleValidationErrors(c, err)
		return false
	}
	return true
}

// BindURI binds URI path parameters.
func BindURI[T any](c *gin.Context, req *T) bool {
	if err := c.ShouldBindUri(req); err != nil {
		HandleValidationErrors(c, err)
		return false
	}
	return true
}

// ============================================
// Pagination Helper
// ============================================

// PaginationParams are offset/limit query parameters, matching the Query
// Surface's listTransactions signature directly (no page/per_page
// translation layer).
type PaginationParams struct {
	Offset int `form:"offset" binding:"min=0"`
	Limit  int `form:"limit" binding:"min=0,max=100"`
}

// DefaultPaginationParams returns the defaults used when the query string
// gives none: Offset 0 and Limit 20.
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{Offset: 0, Limit: 20}
}

// ParsePagination reads offset/limit from the query string, falling back
// to the defaults on missing or malformed values.
func ParsePagination(c *gin.Context) PaginationParams {
	params := DefaultPaginationParams()

	if offset := c.Query("offset"); offset != "" {
		if o := parseInt(offset); o >= 0 {
			params.Offset = o
		}
	}

	if limit := c.Query("limit"); limit != "" {
		if l := parseInt(limit); l > 0 && l <= 100 {
			params.Limit = l
		}
	}

	return params
}

func parseInt(s string) int {
	var n int
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// BuildMeta builds the pagination metadata attached to a list response.
func BuildMeta(params PaginationParams, total int) *common.APIMeta {
	return &common.APIMeta{
		Offset: params.Offset,
		Limit:  params.Limit,
		Total:  total,
	}
}
