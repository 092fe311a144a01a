package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrivista/api-go/types"
)

func TestMLClientForwardsResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict-crop", r.URL.Path)
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 90.0, body["N"])
		_, _ = w.Write([]byte(`{"predicted_crop":"rice"}`))
	}))
	defer srv.Close()

	ml := NewMLClient(srv.URL, time.Second)
	result, err := ml.PredictCrop(context.Background(), &types.CropPredictionRequest{Nitrogen: 90})
	require.NoError(t, err)
	assert.JSONEq(t, `{"predicted_crop":"rice"}`, string(result))
}

func TestMLClientStatusErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"state is required"}`))
	}))
	defer srv.Close()

	_, err := NewMLClient(srv.URL, time.Second).Seasons(context.Background())
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.True(t, se.ClientError())
	assert.Equal(t, http.StatusUnprocessableEntity, se.Code)
}

func TestMLClientBreakerOpens(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ml := NewMLClient(srv.URL, time.Second)
	for i := 0; i < 5; i++ {
		_, err := ml.Locations(context.Background())
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrUnavailable))
	}

	_, err := ml.Locations(context.Background())
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.EqualValues(t, 5, atomic.LoadInt32(&hits))
}

func TestMLClientClientErrorsDoNotTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	ml := NewMLClient(srv.URL, time.Second)
	for i := 0; i < 8; i++ {
		_, err := ml.Seasons(context.Background())
		assert.False(t, errors.Is(err, ErrUnavailable))
	}
}

func TestGroqCompleteJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama-3.3-70b-versatile", req.Model)
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, "system", req.Messages[0].Role)
		}
		assert.Equal(t, "json_object", req.ResponseFormat["type"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"ok\":true}"}}]}`))
	}))
	defer srv.Close()

	groq := NewGroqClient(srv.URL+"/", "gsk_test", "llama-3.3-70b-versatile", time.Second)
	out, err := groq.CompleteJSON(context.Background(), "system", "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
}

func TestDisabledClients(t *testing.T) {
	groq := NewGroqClient("http://unused", "", "m", time.Second)
	_, err := groq.CompleteJSON(context.Background(), "s", "p")
	assert.ErrorIs(t, err, ErrNotEnabled)

	gemini, err := NewGeminiClient(context.Background(), "", "")
	require.NoError(t, err)
	_, err = gemini.Chat(context.Background(), nil, "hello")
	assert.ErrorIs(t, err, ErrNotEnabled)

	_, err = NewWeatherClient("http://unused", "", time.Second).Forecast(context.Background(), "Pune", 3)
	assert.ErrorIs(t, err, ErrNotEnabled)
}

func TestWeatherForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/forecast.json", r.URL.Path)
		assert.Equal(t, "key123", q.Get("key"))
		assert.Equal(t, "3", q.Get("days"))
		if q.Get("q") == "Atlantis" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":1006,"message":"No matching location found."}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"location": {"name": "Pune", "region": "Maharashtra", "country": "India"},
			"current": {"temp_c": 31.2, "condition": {"text": "Sunny"}},
			"forecast": {"forecastday": [{"date": "2024-07-01", "day": {"totalprecip_mm": 12.5}}]}
		}`))
	}))
	defer srv.Close()

	weather := NewWeatherClient(srv.URL, "key123", time.Second)
	forecast, err := weather.Forecast(context.Background(), "Pune", 3)
	require.NoError(t, err)
	assert.Equal(t, "Pune", forecast.Location.Name)
	assert.Equal(t, 31.2, forecast.Current.TempC)
	require.Len(t, forecast.Forecast.ForecastDay, 1)
	assert.Equal(t, 12.5, forecast.Forecast.ForecastDay[0].Day.TotalPrecipMm)

	_, err = weather.Forecast(context.Background(), "Atlantis", 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWikiSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page/summary/Pearl_millet":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"title": "Pearl millet",
				"extract": "Pearl millet is the most widely grown type of millet.",
				"originalimage": {"source": "https://upload.wikimedia.org/full.jpg"},
				"content_urls": {"desktop": {"page": "https://en.wikipedia.org/wiki/Pearl_millet"}}
			}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	wiki := NewWikiClient(srv.URL, time.Second)
	summary, err := wiki.Summary(context.Background(), " Pearl millet ")
	require.NoError(t, err)
	assert.Equal(t, "Pearl millet", summary.Title)
	assert.Equal(t, "https://upload.wikimedia.org/full.jpg", summary.Thumbnail)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Pearl_millet", summary.PageURL)

	_, err = wiki.Summary(context.Background(), "No such crop")
	assert.ErrorIs(t, err, ErrNotFound)
}
