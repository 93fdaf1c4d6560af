package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snapgram/api-go/models"
	"github.com/snapgram/api-go/social"
)

type PlaceController struct {
	Engine *social.Engine
}

func NewPlaceController(engine *social.Engine) *PlaceController {
	return &PlaceController{Engine: engine}
}

// GetPlaceProfile handles GET /places/:id.
func (pc *PlaceController) GetPlaceProfile(c *gin.Context) {
	placeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	place, err := pc.Engine.GetPlace(c.Request.Context(), placeID)
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"place":   place,
	})
}

// GetPlaceBySlug handles GET /places/slug/:slug.
func (pc *PlaceController) GetPlaceBySlug(c *gin.Context) {
	place, err := pc.Engine.GetPlaceBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"place":   place,
	})
}

// GetPlacePosts handles GET /places/:id/posts.
func (pc *PlaceController) GetPlacePosts(c *gin.Context) {
	placeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		models.RespondWithError(c, models.NewInvalidInputError(err.Error()))
		return
	}

	posts, total, err := pc.Engine.PlacePosts(c.Request.Context(), placeID, q.Pagination())
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       posts,
		Pagination: paginationMeta(q.Pagination(), total),
	})
}

// RenamePlace handles PUT /places/:id; the slug follows the name.
func (pc *PlaceController) RenamePlace(c *gin.Context) {
	placeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		models.RespondWithError(c, models.NewInvalidInputError(err.Error()))
		return
	}

	place, err := pc.Engine.RenamePlace(c.Request.Context(), placeID, input.Name)
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"place":   place,
	})
}
