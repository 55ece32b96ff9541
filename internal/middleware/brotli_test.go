package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func brotliEngine(payload string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(BrotliWithConfig(BrotliConfig{MinLength: 64, SkipPaths: []string{"/metrics"}}))
	handler := func(c *gin.Context) { c.String(http.StatusOK, payload) }
	r.GET("/data", handler)
	r.GET("/metrics", handler)
	return r
}

func get(r http.Handler, path, encoding string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if encoding != "" {
		req.Header.Set("Accept-Encoding", encoding)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBrotliCompressesLargeBodies(t *testing.T) {
	payload := strings.Repeat("section ", 100)
	w := get(brotliEngine(payload), "/data", "gzip, br;q=0.9")

	require.Equal(t, "br", w.Header().Get("Content-Encoding"))
	out, err := io.ReadAll(brotli.NewReader(w.Body))
	require.NoError(t, err)
	assert.Equal(t, payload, string(out))
}

func TestBrotliLeavesSmallBodies(t *testing.T) {
	w := get(brotliEngine(`{"uuid":"x"}`), "/data", "br")

	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, `{"uuid":"x"}`, w.Body.String())
}

func TestBrotliSkips(t *testing.T) {
	payload := strings.Repeat("m", 500)
	r := brotliEngine(payload)

	w := get(r, "/metrics", "br")
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, payload, w.Body.String())

	w = get(r, "/data", "gzip")
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, payload, w.Body.String())
}
