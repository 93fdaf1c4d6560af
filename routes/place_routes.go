package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/snapgram/api-go/controllers"
)

func SetupPlaceRoutes(protected *gin.RouterGroup, placeController *controllers.PlaceController) {
	places := protected.Group("/places")
	{
		places.GET("/:id", placeController.GetPlaceProfile)
		places.GET("/:id/posts", placeController.GetPlacePosts)
		places.PUT("/:id", placeController.RenamePlace)
		places.GET("/slug/:slug", placeController.GetPlaceBySlug)
	}
}
