package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/agrivista/api-go/controllers"
)

func SetupPostRoutes(r gin.IRouter, userAuth gin.HandlerFunc, postController *controllers.PostController) {
	r.GET("/Postfetch", postController.GetPosts)
	r.GET("/PostId", postController.GetPost)

	r.POST("/Post", userAuth, postController.CreatePost)
	r.PUT("/UpdatePost", userAuth, postController.UpdatePost)
	r.DELETE("/DeletePostAndComments", userAuth, postController.DeletePostAndComments)
}
