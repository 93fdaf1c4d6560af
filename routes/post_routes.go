package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/snapgram/api-go/controllers"
)

func SetupPostRoutes(protected *gin.RouterGroup, postController *controllers.PostController) {
	posts := protected.Group("/posts")
	{
		posts.POST("", postController.CreatePost)
		posts.GET("/:id", postController.GetPostDetail)
		posts.DELETE("/:id", postController.DeletePost)
	}

	// User posts routes
	users := protected.Group("/users")
	{
		users.GET("/:id/posts", postController.GetUserPosts)
	}
}
