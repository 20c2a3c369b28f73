package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func stampedID(t *testing.T, inbound string) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	var seen string
	router.GET("/ping", func(c *gin.Context) {
		seen = Value(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if inbound != "" {
		req.Header.Set("X-Request-ID", inbound)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	return seen
}

func TestReusesClientSuppliedID(t *testing.T) {
	assert.Equal(t, "trace-abc-123", stampedID(t, "trace-abc-123"))
}

func TestGeneratesIDWhenMissing(t *testing.T) {
	assert.NotEmpty(t, stampedID(t, ""))
}

func TestRegeneratesJunkInboundID(t *testing.T) {
	oversized := strings.Repeat("x", 65)
	assert.NotEqual(t, oversized, stampedID(t, oversized))

	assert.NotEqual(t, "has spaces", stampedID(t, "has spaces"))
}
