package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/academic-backend/internal/config"
	"github.com/stemsi/academic-backend/internal/handler"
	"github.com/stemsi/academic-backend/internal/metrics"
	"github.com/stemsi/academic-backend/internal/repository"
	"github.com/stemsi/academic-backend/internal/service"
	"github.com/stemsi/academic-backend/internal/testutil"
	"github.com/stemsi/academic-backend/internal/validator"
)

func newTestRouter(t *testing.T, rateLimit int) *gin.Engine {
	t.Helper()
	validator.Setup()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	managers := service.NewManagers(repository.NewSQLiteSet(testutil.NewSQLite(t)), zerolog.Nop())
	cfg := &config.Config{GinMode: gin.TestMode, RateLimitPerMinute: rateLimit}
	return SetupRouter(ctx, handler.NewHandlers(managers), cfg, zerolog.Nop(), metrics.New())
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAmbientRoutes(t *testing.T) {
	r := newTestRouter(t, 0)

	w := serve(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	serve(r, http.MethodGet, "/api/v1/term", "")
	w = serve(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `academic_http_requests_total{method="GET",route="/api/v1/term",status="200"} 1`)
}

func TestEveryKindIsRouted(t *testing.T) {
	r := newTestRouter(t, 0)

	for _, kind := range []string{"term", "section", "instructor", "course", "classroom", "student", "testrun"} {
		w := serve(r, http.MethodGet, "/api/v1/"+kind, "")
		assert.Equal(t, http.StatusOK, w.Code, kind)
		assert.JSONEq(t, `[]`, w.Body.String(), kind)
	}

	w := serve(r, http.MethodGet, "/api/v1/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimitAppliesToWritesOnly(t *testing.T) {
	r := newTestRouter(t, 1)

	assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/api/v1/course", `{"name":"Go"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodPost, "/api/v1/course", `{"name":"Rust"}`).Code)

	for range 3 {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/v1/course", "").Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t, 0)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/term", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
