package routes

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrivista/api-go/clients"
	"github.com/agrivista/api-go/models"
	"github.com/agrivista/api-go/types"
)

func wetForecast(name string, precipMm ...float64) *types.WeatherForecast {
	f := &types.WeatherForecast{}
	f.Location.Name = name
	f.Current.TempC = 29.5
	for i, mm := range precipMm {
		day := types.ForecastDay{Date: fmt.Sprintf("2024-07-%02d", i+1)}
		day.Day.TotalPrecipMm = mm
		day.Day.DailyChanceOfRain = 90
		f.Forecast.ForecastDay = append(f.Forecast.ForecastDay, day)
	}
	return f
}

func TestRegionWeatherWithOutlook(t *testing.T) {
	env := newTestEnv(t)
	env.weather.forecast = wetForecast("Pune", 40, 35, 30)

	w := env.do(http.MethodGet, "/api/weather/region?location=Pune", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, "Pune", body["location"])
	weather := body["weather"].(map[string]interface{})
	assert.Equal(t, "Pune", weather["location"].(map[string]interface{})["name"])

	outlook := body["seasonalOutlook"].(map[string]interface{})
	assert.NotEmpty(t, outlook["season"])
	assert.Equal(t, types.RainfallHigh, outlook["expectedRainfall"])
	assert.Equal(t, 105.0, outlook["totalPrecipMm"])
	assert.Equal(t, 90.0, outlook["avgChanceOfRain"])
	assert.NotEmpty(t, outlook["advice"])
}

func TestRegionWeatherIsCached(t *testing.T) {
	env := newTestEnv(t)
	env.weather.forecast = wetForecast("Nashik", 1)

	for _, loc := range []string{"Nashik", "nashik", "NASHIK"} {
		w := env.do(http.MethodGet, "/api/weather/region?location="+loc, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 1, env.weather.calls)
}

func TestRegionWeatherErrors(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/weather/region", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env.weather.err = errors.Wrap(clients.ErrNotFound, "weatherapi: No matching location found.")
	w = env.do(http.MethodGet, "/api/weather/region?location=Atlantis", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Location not found", decode(t, w)["message"])

	env.weather.err = clients.ErrNotEnabled
	w = env.do(http.MethodGet, "/api/weather/region?location=Pune", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	env.weather.err = errors.New("connection reset")
	w = env.do(http.MethodGet, "/api/weather/region?location=Pune", nil, "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestUserWeatherUsesProfileAddress(t *testing.T) {
	env := newTestEnv(t)
	farmer, _ := env.seedUser("asha", "asha@example.com", models.Address{Village: "Wagholi", District: "Pune", State: "Maharashtra"})
	nomad, _ := env.seedUser("ravi", "ravi@example.com", models.Address{})

	w := env.do(http.MethodGet, fmt.Sprintf("/api/weather/%d", farmer.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Pune, Maharashtra", env.weather.lastLoc)
	assert.Equal(t, "Pune, Maharashtra", decode(t, w)["location"])

	w = env.do(http.MethodGet, fmt.Sprintf("/api/weather/%d", nomad.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User address not found", decode(t, w)["message"])

	w = env.do(http.MethodGet, "/api/weather/9999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/api/weather/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, env.weather.calls)
}

func TestWikiThumbnail(t *testing.T) {
	env := newTestEnv(t)
	env.wiki.summary = &types.WikiSummary{
		Title:     "Wheat",
		Extract:   "Wheat is a grass widely cultivated for its seed.",
		Thumbnail: "https://upload.wikimedia.org/wheat.jpg",
	}

	for i := 0; i < 2; i++ {
		w := env.do(http.MethodGet, "/api/wiki/thumbnail?title=Wheat", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://upload.wikimedia.org/wheat.jpg", decode(t, w)["thumbnail"])
	}
	assert.Equal(t, 1, env.wiki.calls)

	env.wiki.err = clients.ErrNotFound
	w := env.do(http.MethodGet, "/api/wiki/thumbnail?title=Nonexistent", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Page not found", decode(t, w)["message"])

	w = env.do(http.MethodGet, "/api/wiki/thumbnail", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
