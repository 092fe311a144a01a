package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/agrivista/api-go/controllers"
)

// SetupPredictionRoutes proxies the ML service. Signed-in callers get their
// predictions appended to history.
func SetupPredictionRoutes(api *gin.RouterGroup, optionalUser gin.HandlerFunc, predictionController *controllers.PredictionController) {
	predict := api.Group("/predict", optionalUser)
	{
		predict.POST("/crop", predictionController.PredictCrop)
		predict.POST("/fertilizer", predictionController.PredictFertilizer)
		predict.POST("/yield", predictionController.PredictYield)
		predict.GET("/locations", predictionController.GetLocations)
		predict.GET("/seasons", predictionController.GetSeasons)
		predict.POST("/recommend-season-commodity", predictionController.RecommendSeasonCommodity)
	}
}
