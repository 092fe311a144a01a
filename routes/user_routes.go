package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/agrivista/api-go/controllers"
)

func SetupUserRoutes(r *gin.Engine, userAuth gin.HandlerFunc, authController *controllers.AuthController) {
	r.POST("/signup", authController.Signup)
	r.POST("/login", authController.Login)
	r.POST("/", authController.Verify)
	r.POST("/logout", authController.Logout)
	r.POST("/auth/google", authController.GoogleLogin)

	profile := r.Group("/api/user", userAuth)
	{
		profile.GET("/profile", authController.GetProfile)
		profile.PUT("/profile", authController.UpdateProfile)
	}
}
