package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/agrivista/api-go/controllers"
)

func SetupAssistantRoutes(api *gin.RouterGroup, advisoryController *controllers.AdvisoryController, chatController *controllers.ChatController) {
	api.POST("/advisory", advisoryController.Advisory)
	api.POST("/season-planner", advisoryController.SeasonPlanner)
	api.POST("/voice/query", advisoryController.VoiceQuery)
	api.POST("/chat", chatController.Chat)
}
