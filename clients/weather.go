package clients

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/agrivista/api-go/types"
)

type WeatherProvider interface {
	Forecast(ctx context.Context, location string, days int) (*types.WeatherForecast, error)
}

// WeatherClient wraps WeatherAPI.com's forecast endpoint.
type WeatherClient struct {
	client *resty.Client
	apiKey string
}

func NewWeatherClient(baseURL, apiKey string, timeout time.Duration) *WeatherClient {
	return &WeatherClient{
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout),
		apiKey: apiKey,
	}
}

func (w *WeatherClient) Forecast(ctx context.Context, location string, days int) (*types.WeatherForecast, error) {
	if w.apiKey == "" {
		return nil, ErrNotEnabled
	}
	result := &types.WeatherForecast{}
	resp, err := w.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":    w.apiKey,
			"q":      location,
			"days":   strconv.Itoa(days),
			"aqi":    "no",
			"alerts": "no",
		}).
		SetResult(result).
		Get("/forecast.json")
	if err != nil {
		return nil, errors.Wrap(err, "weatherapi forecast")
	}
	// WeatherAPI answers 400 with code 1006 for unknown locations.
	if resp.StatusCode() == http.StatusBadRequest || resp.StatusCode() == http.StatusNotFound {
		return nil, errors.Wrapf(ErrNotFound, "weatherapi location %q", location)
	}
	if resp.IsError() {
		return nil, &StatusError{Service: "weatherapi", Code: resp.StatusCode(), Body: resp.String()}
	}
	return result, nil
}
