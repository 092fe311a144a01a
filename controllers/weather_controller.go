package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agrivista/api-go/cache"
	"github.com/agrivista/api-go/clients"
	"github.com/agrivista/api-go/logger"
	"github.com/agrivista/api-go/models"
	"github.com/agrivista/api-go/types"
	"github.com/agrivista/api-go/utils"
)

const (
	forecastDays    = 3
	weatherCacheTTL = 30 * time.Minute
)

type WeatherController struct {
	DB      *gorm.DB
	Weather clients.WeatherProvider
	Cache   cache.Cache
	Now     func() time.Time
}

func NewWeatherController(db *gorm.DB, weather clients.WeatherProvider, c cache.Cache) *WeatherController {
	if c == nil {
		c = cache.Nop{}
	}
	return &WeatherController{DB: db, Weather: weather, Cache: c, Now: time.Now}
}

func (wc *WeatherController) forecast(ctx context.Context, location string) (*types.WeatherForecast, error) {
	key := "weather:" + strings.ToLower(location)
	return cache.Remember(ctx, wc.Cache, key, weatherCacheTTL, func(ctx context.Context) (*types.WeatherForecast, error) {
		return wc.Weather.Forecast(ctx, location, forecastDays)
	})
}

func (wc *WeatherController) respond(c *gin.Context, location string) {
	forecast, err := wc.forecast(c.Request.Context(), location)
	if err != nil {
		switch {
		case errors.Is(err, clients.ErrNotFound):
			respondMessage(c, http.StatusNotFound, "Location not found")
		case errors.Is(err, clients.ErrNotEnabled):
			respondMessage(c, http.StatusServiceUnavailable, "Weather service is not configured")
		default:
			logger.L.Warn("weather lookup failed", zap.String("location", location), zap.Error(err))
			respondMessage(c, http.StatusBadGateway, "Weather service unavailable")
		}
		return
	}

	c.JSON(http.StatusOK, types.WeatherReport{
		Location: location,
		Weather:  forecast,
		Outlook:  types.Outlook(forecast, wc.Now()),
	})
}

// GetUserWeather reports weather for the district on the user's profile.
func (wc *WeatherController) GetUserWeather(c *gin.Context) {
	userID, ok := utils.ParseID(c.Param("userId"))
	if !ok {
		respondMessage(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	var user models.User
	if err := wc.DB.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "User not found")
			return
		}
		logger.L.Error("weather user lookup", zap.Uint("user", userID), zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to fetch weather")
		return
	}
	location := user.Address.Location()
	if location == "" {
		respondMessage(c, http.StatusNotFound, "User address not found")
		return
	}
	wc.respond(c, location)
}

func (wc *WeatherController) GetRegionWeather(c *gin.Context) {
	location := strings.TrimSpace(c.Query("location"))
	if location == "" {
		respondMessage(c, http.StatusBadRequest, "Location is required")
		return
	}
	wc.respond(c, location)
}
