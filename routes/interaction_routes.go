package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/snapgram/api-go/controllers"
)

func SetupInteractionRoutes(protected *gin.RouterGroup, interactionController *controllers.InteractionController) {
	// Follow graph
	protected.POST("/follow/:username", interactionController.FollowUser)
	protected.POST("/unfollow/:username", interactionController.UnfollowUser)

	// Post interactions
	posts := protected.Group("/posts")
	{
		posts.POST("/:id/like", interactionController.LikePost)
		posts.POST("/:id/comment", interactionController.CommentPost)
	}

	comments := protected.Group("/comments")
	{
		comments.DELETE("/:id", interactionController.DeleteComment)
	}

	users := protected.Group("/users")
	{
		users.GET("/:id/followers", interactionController.GetUserFollowers)
		users.GET("/:id/following", interactionController.GetUserFollowing)
		users.POST("/:id/block", interactionController.BlockUser)
		users.POST("/:id/unblock", interactionController.UnblockUser)
		users.POST("/:id/report", interactionController.ReportUser)
	}
}
