package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCorrelationIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(captured *string) *gin.Engine {
		router := gin.New()
		router.Use(CorrelationID())
		router.GET("/test", func(c *gin.Context) {
			*captured = c.GetString(CorrelationIDKey)
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("GeneratesCorrelationIDIfNotProvided", func(t *testing.T) {
		var capturedContextID string
		router := newRouter(&capturedContextID)

		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		respHeaderID := rr.Header().Get(CorrelationIDHeader)
		assert.NotEmpty(t, respHeaderID)
		_, err := uuid.Parse(respHeaderID)
		assert.NoError(t, err, "generated correlation ID should be a valid UUID")
		assert.Equal(t, respHeaderID, capturedContextID)
	})

	t.Run("UsesCorrelationIDIfProvided", func(t *testing.T) {
		var capturedContextID string
		router := newRouter(&capturedContextID)

		providedID := uuid.New().String()
		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(CorrelationIDHeader, providedID)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, providedID, rr.Header().Get(CorrelationIDHeader))
		assert.Equal(t, providedID, capturedContextID)
	})
}

func TestGetCorrelationID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("ReturnsIDFromContext", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		expectedID := uuid.New().String()
		c.Set(CorrelationIDKey, expectedID)

		assert.Equal(t, expectedID, GetCorrelationID(c))
	})

	t.Run("ReturnsEmptyStringIfMissing", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		assert.Empty(t, GetCorrelationID(c))
	})

	t.Run("ReturnsEmptyStringIfNotString", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(CorrelationIDKey, 12345)
		assert.Empty(t, GetCorrelationID(c))
	})
}
