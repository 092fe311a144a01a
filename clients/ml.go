package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/sony/gobreaker"

	"github.com/agrivista/api-go/types"
)

// MLClient talks to the prediction service. Calls go through a circuit breaker
// so a dead service fails fast instead of tying up handlers.
type MLClient struct {
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker
}

func NewMLClient(baseURL string, timeout time.Duration) *MLClient {
	return &MLClient{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "ml-service",
			MaxRequests: 3,
			Interval:    30 * time.Second,
			Timeout:     15 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 5 && failureRatio >= 0.6
			},
			IsSuccessful: func(err error) bool {
				var se *StatusError
				if errors.As(err, &se) {
					return se.ClientError()
				}
				return err == nil
			},
		}),
	}
}

func (m *MLClient) call(ctx context.Context, method, path string, body interface{}) (types.MLResult, error) {
	out, err := m.breaker.Execute(func() (interface{}, error) {
		req := m.client.R().SetContext(ctx)
		if body != nil {
			req.SetBody(body)
		}
		resp, err := req.Execute(method, path)
		if err != nil {
			return nil, errors.Wrapf(err, "ml-service %s %s", method, path)
		}
		if resp.IsError() {
			return nil, &StatusError{Service: "ml-service", Code: resp.StatusCode(), Body: resp.String()}
		}
		var result types.MLResult
		if err := json.Unmarshal(resp.Body(), &result); err != nil {
			return nil, errors.Wrapf(err, "ml-service %s: decode response", path)
		}
		return result, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, errors.Wrap(ErrUnavailable, err.Error())
		}
		return nil, err
	}
	return out.(types.MLResult), nil
}

func (m *MLClient) PredictCrop(ctx context.Context, req *types.CropPredictionRequest) (types.MLResult, error) {
	return m.call(ctx, http.MethodPost, "/predict-crop", req)
}

func (m *MLClient) PredictFertilizer(ctx context.Context, req *types.FertilizerPredictionRequest) (types.MLResult, error) {
	return m.call(ctx, http.MethodPost, "/predict-fertilizer", req)
}

func (m *MLClient) PredictYield(ctx context.Context, req *types.YieldPredictionRequest) (types.MLResult, error) {
	return m.call(ctx, http.MethodPost, "/predict-yield", req)
}

func (m *MLClient) Locations(ctx context.Context) (types.MLResult, error) {
	return m.call(ctx, http.MethodGet, "/locations", nil)
}

func (m *MLClient) Seasons(ctx context.Context) (types.MLResult, error) {
	return m.call(ctx, http.MethodGet, "/seasons", nil)
}

func (m *MLClient) RecommendSeasonCommodity(ctx context.Context, body map[string]interface{}) (types.MLResult, error) {
	return m.call(ctx, http.MethodPost, "/recommend-season-commodity", body)
}
