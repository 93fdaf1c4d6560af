package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snapgram/api-go/models"
	"github.com/snapgram/api-go/social"
	"github.com/snapgram/api-go/utils"
)

type FeedController struct {
	Engine *social.Engine
}

func NewFeedController(engine *social.Engine) *FeedController {
	return &FeedController{Engine: engine}
}

// GetUserFeed handles GET /feed: the chronological feed of posts from
// followed users, newest first. Posts whose place row cannot be loaded
// render without place data.
func (fc *FeedController) GetUserFeed(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		models.RespondWithError(c, models.NewInvalidInputError(err.Error()))
		return
	}

	posts, total, err := fc.Engine.FollowingFeed(c.Request.Context(), user.UserID, q.Pagination())
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
