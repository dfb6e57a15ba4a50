package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	SetupValidator()
}

// ============================================
// Test Custom Validators
// ============================================

func TestValidateAssetCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SetupValidator()

	type TestRequest struct {
		AssetType string `json:"asset_type" binding:"required,asset_code"`
	}

	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req TestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"asset_type": req.AssetType})
	})

	t.Run("ValidCodes", func(t *testing.T) {
		validCodes := []string{"GOLD", "DIAMOND", "LOYALTY", "BONUS_POINTS"}
		for _, code := range validCodes {
			body, _ := json.Marshal(TestRequest{AssetType: code})
			req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code, "asset type %s should be valid", code)
		}
	})

	t.Run("InvalidCode_Lowercase", func(t *testing.T) {
		body, _ := json.Marshal(TestRequest{AssetType: "gold"})
		req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("InvalidCode_Empty", func(t *testing.T) {
		body, _ := json.Marshal(TestRequest{AssetType: ""})
		req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestValidateMoneyAmount(t *testing.T) {
	type TestRequest struct {
		Amount string `json:"amount" binding:"required,money_amount"`
	}

	t.Run("ValidAmounts", func(t *testing.T) {
		router := gin.New()
		router.POST("/test", func(c *gin.Context) {
			var req TestRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
			c.JSON(200, gin.H{})
		})

		validAmounts := []string{"100", "100.50", "0.01", "1000000.12"}
		for _, amount := range validAmounts {
			body, _ := json.Marshal(TestRequest{Amount: amount})
			req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code, "amount %s should be valid", amount)
		}
	})

	t.Run("InvalidAmounts", func(t *testing.T) {
		router := gin.New()
		router.POST("/test", func(c *gin.Context) {
			var req TestRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
			c.JSON(200, gin.H{})
		})

		invalidAmounts := []string{"-100", "abc", "100.123", ""}
		for _, amount := range invalidAmounts {
			body, _ := json.Marshal(TestRequest{Amount: amount})
			req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code, "amount %s should be invalid", amount)
		}
	})
}

// ============================================
// Test Pagination
// ============================================

func TestDefaultPaginationParams(t *testing.T) {
	params := DefaultPaginationParams()

	assert.Equal(t, 0, params.Offset)
	assert.Equal(t, 20, params.Limit)
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("DefaultValues", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

		params := ParsePagination(c)

		assert.Equal(t, 0, params.Offset)
		assert.Equal(t, 20, params.Limit)
	})

	t.Run("CustomValues", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/test?offset=40&limit=50", nil)

		params := ParsePagination(c)

		assert.Equal(t, 40, params.Offset)
		assert.Equal(t, 50, params.Limit)
	})

	t.Run("InvalidOffset_UsesDefault", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/test?offset=abc", nil)

		params := ParsePagination(c)

		assert.Equal(t, 0, params.Offset)
	})

	t.Run("ExceedsMaxLimit", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/test?limit=200", nil)

		params := ParsePagination(c)

		assert.Equal(t, 20, params.Limit) // falls back to the default when out of range
	})
}

func TestBuildMeta(t *testing.T) {
	params := PaginationParams{Offset: 40, Limit: 20}
	meta := BuildMeta(params, 95)

	assert.Equal(t, 40, meta.Offset)
	assert.Equal(t, 20, meta.Limit)
	assert.Equal(t, 95, meta.Total)
}

// ============================================
// Test Bind Functions
// ============================================

func TestBindJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type TestRequest struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required,email"`
	}

	t.Run("Success", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		body := []byte(`{"name":"John","email":"john@example.com"}`)
		c.Request = httptest.NewRequest(http.MethodPost, "/test", bytes.NewBuffer(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("X-Request-ID", "test-123")

		var req TestRequest
		result := BindJSON(c, &req)

		assert.True(t, result)
		assert.Equal(t, "John", req.Name)
	})

	t.Run("ValidationError", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := []byte(`{"name":"John"}`) // missing email
		c.Request = httptest.NewRequest(http.MethodPost, "/test", bytes.NewBuffer(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("X-Request-ID", "test-123")

		var req TestRequest
		result := BindJSON(c, &req)

		assert.False(t, result)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBindURI(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type URIParams struct {
		ID string `uri:"id" binding:"required,uuid"`
	}

	t.Run("Success", func(t *testing.T) {
		router := gin.New()
		router.GET("/users/:id", func(c *gin.Context) {
			c.Set("X-Request-ID", "test-123")
			var params URIParams
			if BindURI(c, &params) {
				c.JSON(200, gin.H{"id": params.ID})
			}
		})

		req := httptest.NewRequest(http.MethodGet, "/users/550e8400-e29b-41d4-a716-446655440000", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("InvalidUUID", func(t *testing.T) {
		router := gin.New()
		router.GET("/users/:id", func(c *gin.Context) {
			c.Set("X-Request-ID", "test-123")
			var params URIParams
			if !BindURI(c, &params) {
				return
			}
			c.JSON(200, gin.H{})
		})

		req := httptest.NewRequest(http.MethodGet, "/users/not-a-uuid", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBindQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type QueryParams struct {
		Status string `form:"status" binding:"required"`
		Limit  int    `form:"limit" binding:"min=1"`
	}

	t.Run("Success", func(t *testing.T) {
		router := gin.New()
		router.GET("/test", func(c *gin.Context) {
			c.Set("X-Request-ID", "test-123")
			var params QueryParams
			if BindQuery(c, &params) {
				c.JSON(200, gin.H{"status": params.Status, "limit": params.Limit})
			}
		})

		req := httptest.NewRequest(http.MethodGet, "/test?status=active&limit=2", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("MissingRequired", func(t *testing.T) {
		router := gin.New()
		router.GET("/test", func(c *gin.Context) {
			c.Set("X-Request-ID", "test-123")
			var params QueryParams
			if !BindQuery(c, &params) {
				return
			}
			c.JSON(200, gin.H{})
		})

		req := httptest.NewRequest(http.MethodGet, "/test?limit=1", nil) // missing status
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"0", 0},
		{"1", 1},
		{"10", 10},
		{"123", 123},
		{"999", 999},
		{"abc", 0},
		{"12a", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseInt(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGetValidationMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SetupValidator()

	type TestRequest struct {
		Email     string `json:"email" binding:"required,email"`
		Name      string `json:"name" binding:"required,min=2,max=50"`
		AssetType string `json:"asset_type" binding:"asset_code"`
		Amount    string `json:"amount" binding:"money_amount"`
	}

	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req TestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationErrors(c, err)
			return
		}
		c.JSON(200, gin.H{})
	})

	t.Run("EmailValidation", func(t *testing.T) {
		body := []byte(`{"email":"invalid","name":"Test","asset_type":"GOLD","amount":"100"}`)
		req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "email")
	})

	t.Run("MinValidation", func(t *testing.T) {
		body := []byte(`{"email":"test@test.com","name":"A","asset_type":"GOLD","amount":"100"}`)
		req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "small")
	})
}
