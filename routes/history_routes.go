package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/agrivista/api-go/controllers"
)

func SetupHistoryRoutes(api *gin.RouterGroup, optionalUser gin.HandlerFunc, historyController *controllers.HistoryController) {
	history := api.Group("", optionalUser)
	{
		history.POST("/yield", historyController.AddYield)
		history.GET("/yield/:id", historyController.GetYield)

		history.POST("/fertilizer", historyController.AddFertilizer)
		history.GET("/fertilizer/:id", historyController.GetFertilizer)

		history.POST("/crop", historyController.AddCrop)
		history.GET("/crop/:id", historyController.GetCrop)
	}
}
