package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/snapgram/api-go/controllers"
)

func SetupSearchRoutes(protected *gin.RouterGroup, searchController *controllers.SearchController) {
	search := protected.Group("/search")
	{
		search.GET("/users", searchController.SearchUsers)
		search.GET("/posts", searchController.SearchPosts)
		search.GET("/groups", searchController.SearchGroups)
	}
}
