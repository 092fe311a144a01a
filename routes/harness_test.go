package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/agrivista/api-go/cache"
	"github.com/agrivista/api-go/clients"
	"github.com/agrivista/api-go/config"
	"github.com/agrivista/api-go/controllers"
	"github.com/agrivista/api-go/models"
	"github.com/agrivista/api-go/store"
	"github.com/agrivista/api-go/types"
	"github.com/agrivista/api-go/utils"
)

type fakeML struct {
	result string
	err    error
	calls  int
}

func (f *fakeML) answer() (types.MLResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return types.MLResult(f.result), nil
}

func (f *fakeML) PredictCrop(context.Context, *types.CropPredictionRequest) (types.MLResult, error) {
	return f.answer()
}

func (f *fakeML) PredictFertilizer(context.Context, *types.FertilizerPredictionRequest) (types.MLResult, error) {
	return f.answer()
}

func (f *fakeML) PredictYield(context.Context, *types.YieldPredictionRequest) (types.MLResult, error) {
	return f.answer()
}

func (f *fakeML) Locations(context.Context) (types.MLResult, error) { return f.answer() }
func (f *fakeML) Seasons(context.Context) (types.MLResult, error)   { return f.answer() }

func (f *fakeML) RecommendSeasonCommodity(context.Context, map[string]interface{}) (types.MLResult, error) {
	return f.answer()
}

type fakeLLM struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeLLM) CompleteJSON(_ context.Context, _, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

type fakeChat struct {
	reply   string
	history []clients.ChatTurn
}

func (f *fakeChat) Chat(_ context.Context, history []clients.ChatTurn, _ string) (string, error) {
	f.history = history
	return f.reply, nil
}

type fakeWeather struct {
	forecast *types.WeatherForecast
	err      error
	calls    int
	lastLoc  string
}

func (f *fakeWeather) Forecast(_ context.Context, location string, _ int) (*types.WeatherForecast, error) {
	f.calls++
	f.lastLoc = location
	return f.forecast, f.err
}

type fakeWiki struct {
	summary *types.WikiSummary
	err     error
	calls   int
}

func (f *fakeWiki) Summary(context.Context, string) (*types.WikiSummary, error) {
	f.calls++
	return f.summary, f.err
}

type testEnv struct {
	t       *testing.T
	db      *gorm.DB
	engine  *gin.Engine
	tokens  *utils.TokenIssuer
	ml      *fakeML
	llm     *fakeLLM
	chat    *fakeChat
	weather *fakeWeather
	wiki    *fakeWiki
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), config.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.Migrate(db))
	return db
}

func newTestEnv(t *testing.T, opts ...func(*Dependencies)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	env := &testEnv{
		t:       t,
		db:      newTestDB(t),
		tokens:  utils.NewTokenIssuer("test-secret", time.Hour),
		ml:      &fakeML{result: `{"predicted_crop":"rice"}`},
		llm:     &fakeLLM{reply: `{}`},
		chat:    &fakeChat{reply: "Sow after the first monsoon rain."},
		weather: &fakeWeather{forecast: &types.WeatherForecast{}},
		wiki:    &fakeWiki{},
	}

	deps := &Dependencies{
		DB:      env.db,
		Tokens:  env.tokens,
		History: store.NewSQLHistory(env.db),
		Cache:   cache.NewRedisCache(rdb, "test:"),
		ML:      env.ml,
		LLM:     env.llm,
		Chat:    env.chat,
		Weather: env.weather,
		Wiki:    env.wiki,
		R2: config.R2Config{
			AccountID:       "account",
			AccessKeyID:     "access",
			SecretAccessKey: "secret",
			BucketName:      "agrivista",
			PublicURL:       "https://cdn.example.com",
			Region:          "auto",
		},
	}
	for _, opt := range opts {
		opt(deps)
	}
	env.engine = gin.New()
	SetupRoutes(env.engine, deps)
	return env
}

func (e *testEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	out := []map[string]interface{}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// seedUser inserts a user directly and returns it with a session token.
func (e *testEnv) seedUser(name, email string, address models.Address) (models.User, string) {
	e.t.Helper()
	user := models.User{Name: name, Email: email, Address: address, ProfilePhoto: "https://cdn.example.com/" + name + ".png"}
	require.NoError(e.t, e.db.Create(&user).Error)
	token, err := e.tokens.Issue(user.ID, utils.RoleUser)
	require.NoError(e.t, err)
	return user, token
}

func (e *testEnv) seedAdmin(email string, role string, permissions ...string) (*models.Admin, string) {
	e.t.Helper()
	admin, err := controllers.CreateAdmin(e.db, &controllers.AdminSignupRequest{
		FullName:    "Admin",
		Email:       email,
		Password:    "supersecret",
		Role:        role,
		Permissions: permissions,
	})
	require.NoError(e.t, err)
	token, err := e.tokens.Issue(admin.ID, utils.RoleAdmin)
	require.NoError(e.t, err)
	return admin, token
}

func (e *testEnv) createPost(token, heading string) uint {
	e.t.Helper()
	w := e.do(http.MethodPost, "/Post", gin.H{"heading": heading, "content": "content of " + heading}, token)
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	return uint(decode(e.t, w)["id"].(float64))
}

func (e *testEnv) count(model interface{}) int64 {
	e.t.Helper()
	var n int64
	require.NoError(e.t, e.db.Model(model).Count(&n).Error)
	return n
}
