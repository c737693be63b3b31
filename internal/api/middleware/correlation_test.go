package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelationID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("GeneratedWhenAbsent", func(t *testing.T) {
		r := gin.New()
		r.Use(CorrelationID())

		var seen string
		r.GET("/", func(c *gin.Context) {
			seen = GetCorrelationID(c)
			c.Status(http.StatusOK)
		})

		req, _ := http.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		require.NotEmpty(t, seen)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
		assert.Equal(t, seen, rr.Header().Get(CorrelationIDHeader))
	})

	t.Run("PropagatedWhenPresent", func(t *testing.T) {
		r := gin.New()
		r.Use(CorrelationID())

		var seen string
		r.GET("/", func(c *gin.Context) {
			seen = GetCorrelationID(c)
			c.Status(http.StatusOK)
		})

		incoming := uuid.New().String()
		req, _ := http.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(CorrelationIDHeader, incoming)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, incoming, seen)
		assert.Equal(t, incoming, rr.Header().Get(CorrelationIDHeader))
	})
}
