package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/agrivista/api-go/controllers"
)

func SetupWeatherRoutes(api *gin.RouterGroup, weatherController *controllers.WeatherController, wikiController *controllers.WikiController) {
	weather := api.Group("/weather")
	{
		weather.GET("/region", weatherController.GetRegionWeather)
		weather.GET("/:userId", weatherController.GetUserWeather)
	}

	api.GET("/wiki/thumbnail", wikiController.GetThumbnail)
}
