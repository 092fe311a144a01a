package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/agrivista/api-go/controllers"
)

func SetupInteractionRoutes(r gin.IRouter, userAuth gin.HandlerFunc, interactionController *controllers.InteractionController) {
	// Likes
	r.PATCH("/:id/likePost", userAuth, interactionController.LikePost)

	// Comments
	r.GET("/Commentfetch", interactionController.GetComments)
	r.POST("/Comment", userAuth, interactionController.CreateComment)
	r.PUT("/UpdateComment", userAuth, interactionController.UpdateComment)
	r.DELETE("/DeleteComment", userAuth, interactionController.DeleteComment)
}
