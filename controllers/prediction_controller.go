package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agrivista/api-go/clients"
	"github.com/agrivista/api-go/logger"
	"github.com/agrivista/api-go/models"
	"github.com/agrivista/api-go/store"
	"github.com/agrivista/api-go/types"
	"github.com/agrivista/api-go/utils"
)

// Predictor is the prediction service as seen by the handlers.
type Predictor interface {
	PredictCrop(ctx context.Context, req *types.CropPredictionRequest) (types.MLResult, error)
	PredictFertilizer(ctx context.Context, req *types.FertilizerPredictionRequest) (types.MLResult, error)
	PredictYield(ctx context.Context, req *types.YieldPredictionRequest) (types.MLResult, error)
	Locations(ctx context.Context) (types.MLResult, error)
	Seasons(ctx context.Context) (types.MLResult, error)
	RecommendSeasonCommodity(ctx context.Context, body map[string]interface{}) (types.MLResult, error)
}

type PredictionController struct {
	ML      Predictor
	History store.HistoryStore
}

func NewPredictionController(ml Predictor, history store.HistoryStore) *PredictionController {
	return &PredictionController{ML: ml, History: history}
}

func (pc *PredictionController) upstreamFailed(c *gin.Context, op string, err error) {
	var se *clients.StatusError
	// 4xx from the service means the inputs were rejected, pass that through
	if errors.As(err, &se) && se.ClientError() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid prediction input", "error": se.Body})
		return
	}
	logger.L.Warn("prediction service call failed", zap.String("op", op), zap.Error(err))
	respondMessage(c, http.StatusBadGateway, "Prediction service unavailable")
}

// record appends to the caller's history. A failed write is logged and does
// not fail the prediction.
func (pc *PredictionController) record(c *gin.Context, kind string, add func(ctx context.Context, userID uint) error) {
	claims := utils.GetUser(c)
	if claims == nil || pc.History == nil {
		return
	}
	if err := add(c.Request.Context(), claims.UserID); err != nil {
		logger.L.Error("record prediction", zap.String("kind", kind), zap.Uint("user", claims.UserID), zap.Error(err))
	}
}

func (pc *PredictionController) PredictCrop(c *gin.Context) {
	var req types.CropPredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := pc.ML.PredictCrop(c.Request.Context(), &req)
	if err != nil {
		pc.upstreamFailed(c, "crop", err)
		return
	}

	pc.record(c, store.KindCrop, func(ctx context.Context, userID uint) error {
		return pc.History.AddCrop(ctx, &models.CropDetails{
			UserID:        userID,
			Nitrogen:      req.Nitrogen,
			Phosphorus:    req.Phosphorus,
			Potassium:     req.Potassium,
			Temperature:   req.Temperature,
			Humidity:      req.Humidity,
			Ph:            req.Ph,
			Rainfall:      req.Rainfall,
			PredictedCrop: types.PredictionString(result, "predicted_crop", "crop", "prediction"),
		})
	})
	c.Data(http.StatusOK, gin.MIMEJSON, result)
}

func (pc *PredictionController) PredictFertilizer(c *gin.Context) {
	var req types.FertilizerPredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := pc.ML.PredictFertilizer(c.Request.Context(), &req)
	if err != nil {
		pc.upstreamFailed(c, "fertilizer", err)
		return
	}

	pc.record(c, store.KindFertilizer, func(ctx context.Context, userID uint) error {
		return pc.History.AddFertilizer(ctx, &models.FertilizerDetails{
			UserID:              userID,
			Temperature:         req.Temperature,
			Humidity:            req.Humidity,
			Moisture:            req.Moisture,
			SoilType:            req.SoilType,
			CropType:            req.CropType,
			Nitrogen:            req.Nitrogen,
			Potassium:           req.Potassium,
			Phosphorous:         req.Phosphorous,
			PredictedFertilizer: types.PredictionString(result, "predicted_fertilizer", "fertilizer", "prediction"),
		})
	})
	c.Data(http.StatusOK, gin.MIMEJSON, result)
}

func (pc *PredictionController) PredictYield(c *gin.Context) {
	var req types.YieldPredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Year == 0 {
		req.Year = time.Now().Year()
	}
	result, err := pc.ML.PredictYield(c.Request.Context(), &req)
	if err != nil {
		pc.upstreamFailed(c, "yield", err)
		return
	}

	pc.record(c, store.KindYield, func(ctx context.Context, userID uint) error {
		predicted, _ := types.PredictionFloat(result, "predicted_yield", "yield", "prediction")
		unit := types.PredictionString(result, "unit")
		if unit == "" {
			unit = "tonnes/hectare"
		}
		return pc.History.AddYield(ctx, &models.YieldDetails{
			UserID:         userID,
			State:          req.State,
			District:       req.District,
			Crop:           req.Crop,
			Season:         req.Season,
			Year:           req.Year,
			Area:           req.Area,
			Rainfall:       req.Rainfall,
			Fertilizer:     req.Fertilizer,
			Pesticide:      req.Pesticide,
			PredictedYield: predicted,
			Unit:           unit,
		})
	})
	c.Data(http.StatusOK, gin.MIMEJSON, result)
}

func (pc *PredictionController) GetLocations(c *gin.Context) {
	result, err := pc.ML.Locations(c.Request.Context())
	if err != nil {
		pc.upstreamFailed(c, "locations", err)
		return
	}
	c.Data(http.StatusOK, gin.MIMEJSON, result)
}

func (pc *PredictionController) GetSeasons(c *gin.Context) {
	result, err := pc.ML.Seasons(c.Request.Context())
	if err != nil {
		pc.upstreamFailed(c, "seasons", err)
		return
	}
	c.Data(http.StatusOK, gin.MIMEJSON, result)
}

func (pc *PredictionController) RecommendSeasonCommodity(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	result, err := pc.ML.RecommendSeasonCommodity(c.Request.Context(), body)
	if err != nil {
		pc.upstreamFailed(c, "recommend-season-commodity", err)
		return
	}
	c.Data(http.StatusOK, gin.MIMEJSON, result)
}
