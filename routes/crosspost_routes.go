package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/snapgram/api-go/controllers"
)

func SetupCrossPostRoutes(protected *gin.RouterGroup, crossPostController *controllers.CrossPostController) {
	crosspost := protected.Group("/crosspost")
	{
		crosspost.POST("/connect", crossPostController.Connect)
		crosspost.GET("/callback", crossPostController.Callback)
		crosspost.POST("/disconnect", crossPostController.Disconnect)
		crosspost.GET("/status", crossPostController.Status)
	}

	posts := protected.Group("/posts")
	{
		posts.POST("/:id/crosspost", crossPostController.Publish)
	}
}
