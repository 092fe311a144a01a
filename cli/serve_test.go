package cli

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/agrivista/api-go/cache"
	"github.com/agrivista/api-go/config"
	"github.com/agrivista/api-go/routes"
	"github.com/agrivista/api-go/store"
	"github.com/agrivista/api-go/utils"
)

func newTestEngine(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), config.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))

	deps := &routes.Dependencies{
		DB:      db,
		Tokens:  utils.NewTokenIssuer("secret", time.Hour),
		History: store.NewSQLHistory(db),
		Cache:   cache.Nop{},
	}
	cfg := &config.Config{CORS: config.CORSConfig{Origins: []string{"https://agrivista.in"}}}
	return NewEngine(deps, prometheus.NewRegistry(), cfg), db
}

func TestEngineHealthAndMetrics(t *testing.T) {
	r, db := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `agrivista_http_requests_total{code="200",method="GET",route="/health"} 1`)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestEnginePreflight(t *testing.T) {
	r, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodOptions, "/Post", nil)
	req.Header.Set("Origin", "https://agrivista.in")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://agrivista.in", w.Header().Get("Access-Control-Allow-Origin"))
}
