package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/agrivista/api-go/models"
	"github.com/agrivista/api-go/utils"
)

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = serve(r, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"https://agrivista.in/"}))
	r.GET("/api/trends", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/trends", nil)
	req.Header.Set("Origin", "https://agrivista.in")
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://agrivista.in", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/trends", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"*"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := serve(r, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestTokenFromRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := func(setup func(*http.Request)) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		setup(c.Request)
		return c
	}

	c := ctx(func(r *http.Request) { r.AddCookie(&http.Cookie{Name: utils.UserCookie, Value: "from-cookie"}) })
	assert.Equal(t, "from-cookie", TokenFromRequest(c, utils.UserCookie))

	c = ctx(func(r *http.Request) { r.Header.Set("Authorization", "bearer from-header") })
	assert.Equal(t, "from-header", TokenFromRequest(c, utils.UserCookie))

	c = ctx(func(r *http.Request) { r.Header.Set("Authorization", "Basic dXNlcjpwYXNz") })
	assert.Empty(t, TokenFromRequest(c, utils.UserCookie))
}

func TestUserAuthRejectsAdminTokens(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := utils.NewTokenIssuer("secret", time.Hour)
	r := gin.New()
	r.GET("/me", UserAuth(issuer), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": utils.GetUser(c).UserID})
	})
	r.GET("/maybe", OptionalAuth(issuer, utils.RoleUser, utils.UserCookie), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"signedIn": utils.GetUser(c) != nil})
	})

	userToken, _ := issuer.Issue(5, utils.RoleUser)
	adminToken, _ := issuer.Issue(5, utils.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/maybe", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"signedIn":false}`, w.Body.String())
}

func TestRequirePermission(t *testing.T) {
	gin.SetMode(gin.TestMode)
	withAdmin := func(admin *models.Admin) gin.HandlerFunc {
		return func(c *gin.Context) {
			if admin != nil {
				c.Set("admin", admin)
			}
		}
	}
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	cases := []struct {
		name  string
		admin *models.Admin
		want  int
	}{
		{"granted", &models.Admin{Role: models.AdminRoleAdmin, Permissions: []string{models.PermissionManageTrends}}, http.StatusOK},
		{"missing", &models.Admin{Role: models.AdminRoleAdmin, Permissions: []string{models.PermissionManagePosts}}, http.StatusForbidden},
		{"superadmin", &models.Admin{Role: models.AdminRoleSuperAdmin}, http.StatusOK},
		{"no admin", nil, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", withAdmin(tc.admin), RequirePermission(models.PermissionManageTrends), ok)
			assert.Equal(t, tc.want, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
		})
	}
}

func TestMetricsLabelsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	r := gin.New()
	r.Use(m.Handler())
	r.GET("/api/weather/:userId", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/weather/1", "/api/weather/2", "/nowhere"} {
		serve(r, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/weather/:userId", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("unmatched", "GET", "404")))
}
