package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/agrivista/api-go/controllers"
)

func SetupValidationRoutes(api *gin.RouterGroup, validationController *controllers.ValidationController) {
	validation := api.Group("/validation")
	{
		validation.GET("/email/:email", validationController.ValidateEmail)
	}
}
