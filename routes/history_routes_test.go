package routes

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrivista/api-go/clients"
	"github.com/agrivista/api-go/models"
)

func TestHistoryIsAppendOnly(t *testing.T) {
	env := newTestEnv(t)
	user, _ := env.seedUser("asha", "asha@example.com", models.Address{})

	record := gin.H{
		"id":             user.ID,
		"state":          "Maharashtra",
		"district":       "Pune",
		"crop":           "Wheat",
		"season":         "Rabi",
		"year":           2024,
		"area":           2.5,
		"predictedYield": 3.1,
		"unit":           "tonnes/hectare",
	}
	for i := 0; i < 2; i++ {
		w := env.do(http.MethodPost, "/api/yield", record, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	rows := decodeList(t, env.do(http.MethodGet, fmt.Sprintf("/api/yield/%d", user.ID), nil, ""))
	require.Len(t, rows, 2)
	assert.NotEqual(t, rows[0]["_id"], rows[1]["_id"])
	assert.EqualValues(t, user.ID, rows[0]["id"])
	assert.Equal(t, 3.1, rows[0]["predictedYield"])

	assert.Empty(t, decodeList(t, env.do(http.MethodGet, "/api/yield/999", nil, "")))
}

func TestHistoryPagination(t *testing.T) {
	env := newTestEnv(t)
	user, _ := env.seedUser("asha", "asha@example.com", models.Address{})

	for i := 0; i < 5; i++ {
		w := env.do(http.MethodPost, "/api/crop", gin.H{"id": user.ID, "N": 90 + i, "predictedCrop": fmt.Sprintf("crop-%d", i)}, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	page := decodeList(t, env.do(http.MethodGet, fmt.Sprintf("/api/crop/%d?page=2&pageSize=2", user.ID), nil, ""))
	require.Len(t, page, 2)
	assert.Equal(t, "crop-2", page[0]["predictedCrop"])
	assert.Equal(t, "crop-1", page[1]["predictedCrop"])

	assert.Len(t, decodeList(t, env.do(http.MethodGet, fmt.Sprintf("/api/crop/%d", user.ID), nil, "")), 5)
}

func TestHistoryOwnerComesFromSession(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.seedUser("asha", "asha@example.com", models.Address{})

	w := env.do(http.MethodPost, "/api/fertilizer", gin.H{"id": 4242, "soilType": "Loamy", "predictedFertilizer": "Urea"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	rows := decodeList(t, env.do(http.MethodGet, fmt.Sprintf("/api/fertilizer/%d", user.ID), nil, ""))
	require.Len(t, rows, 1)
	assert.Equal(t, "Urea", rows[0]["predictedFertilizer"])

	w = env.do(http.MethodPost, "/api/fertilizer", gin.H{"soilType": "Loamy"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredictionAppendsHistoryForSignedInUser(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.seedUser("asha", "asha@example.com", models.Address{})
	body := gin.H{"N": 90, "P": 42, "K": 43, "temperature": 21, "humidity": 82, "ph": 6.5, "rainfall": 203}

	w := env.do(http.MethodPost, "/api/predict/crop", body, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "rice", decode(t, w)["predicted_crop"])
	assert.EqualValues(t, 0, env.count(&models.CropDetails{}))

	w = env.do(http.MethodPost, "/api/predict/crop", body, token)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []models.CropDetails
	require.NoError(t, env.db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, user.ID, rows[0].UserID)
	assert.Equal(t, "rice", rows[0].PredictedCrop)
	assert.Equal(t, 6.5, rows[0].Ph)
}

func TestPredictYieldRecordsNumericResult(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser("asha", "asha@example.com", models.Address{})
	env.ml.result = `{"predicted_yield": "2.75", "unit": "t/ha"}`

	w := env.do(http.MethodPost, "/api/predict/yield", gin.H{
		"state": "Punjab", "district": "Ludhiana", "crop": "Wheat", "season": "Rabi", "area": 4,
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var row models.YieldDetails
	require.NoError(t, env.db.First(&row).Error)
	assert.Equal(t, 2.75, row.PredictedYield)
	assert.Equal(t, "t/ha", row.Unit)
	assert.NotZero(t, row.Year)
}

func TestPredictionUpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.ml.err = errors.Wrap(clients.ErrUnavailable, "circuit breaker is open")

	w := env.do(http.MethodGet, "/api/predict/seasons", nil, "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Prediction service unavailable", decode(t, w)["message"])

	env.ml.err = &clients.StatusError{Service: "ml-service", Code: http.StatusUnprocessableEntity, Body: `{"detail":"bad"}`}
	w = env.do(http.MethodPost, "/api/predict/recommend-season-commodity", gin.H{"state": "Bihar"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredictionValidatesInput(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/predict/crop", gin.H{"N": 90, "humidity": 140}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, env.ml.calls)
}
