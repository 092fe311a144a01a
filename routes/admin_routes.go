package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/agrivista/api-go/controllers"
	"github.com/agrivista/api-go/middleware"
	"github.com/agrivista/api-go/models"
	"github.com/agrivista/api-go/utils"
)

func SetupAdminRoutes(
	api *gin.RouterGroup,
	tokens *utils.TokenIssuer,
	adminAuth gin.HandlerFunc,
	adminController *controllers.AdminController,
	trendController *controllers.TrendController,
	uploadController *controllers.UploadController,
) {
	api.GET("/trends", trendController.GetTrends)

	admin := api.Group("/admin")
	{
		admin.POST("/signup", middleware.OptionalAuth(tokens, utils.RoleAdmin, utils.AdminCookie), adminController.Signup)
		admin.POST("/login", adminController.Login)
		admin.POST("/logout", adminController.Logout)
		admin.POST("/verify", adminController.Verify)
	}

	protected := admin.Group("", adminAuth)
	{
		protected.GET("/stats", adminController.GetStats)

		users := protected.Group("/users", middleware.RequirePermission(models.PermissionManageUsers))
		users.GET("", adminController.GetUsers)
		users.DELETE("/:id", adminController.DeleteUser)

		posts := protected.Group("/posts", middleware.RequirePermission(models.PermissionManagePosts))
		posts.GET("", adminController.GetPosts)
		posts.DELETE("/:id", adminController.DeletePost)

		trends := protected.Group("/trends", middleware.RequirePermission(models.PermissionManageTrends))
		trends.POST("", trendController.CreateTrend)
		trends.PUT("/:id", trendController.UpdateTrend)
		trends.DELETE("/:id", trendController.DeleteTrend)

		SetupUploadRoutes(protected, uploadController)
	}
}
