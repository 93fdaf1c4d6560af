package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snapgram/api-go/models"
	"github.com/snapgram/api-go/social"
)

type SearchController struct {
	Engine *social.Engine
}

func NewSearchController(engine *social.Engine) *SearchController {
	return &SearchController{Engine: engine}
}

type searchQuery struct {
	Query string `form:"q"`
	Page  int    `form:"page,default=1"`
	Limit int    `form:"limit,default=20"`
}

// SearchUsers handles GET /search/users.
func (sc *SearchController) SearchUsers(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		models.RespondWithError(c, models.NewInvalidInputError(err.Error()))
		return
	}

	p := social.Pagination{Page: q.Page, Limit: q.Limit}
	users, total, err := sc.Engine.SearchUsers(c.Request.Context(), q.Query, p)
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       users,
		Pagination: paginationMeta(p, total),
	})
}

type postSearchQuery struct {
	Query   string `form:"q"`
	Hashtag string `form:"hashtag"`
	UserID  uint   `form:"userId"`
	GroupID uint   `form:"groupId"`
	PlaceID uint   `form:"placeId"`
	From    string `form:"from"`
	To      string `form:"to"`
	Page    int    `form:"page,default=1"`
	Limit   int    `form:"limit,default=20"`
}

// SearchPosts handles GET /search/posts.
func (sc *SearchController) SearchPosts(c *gin.Context) {
	var q postSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		models.RespondWithError(c, models.NewInvalidInputError(err.Error()))
		return
	}

	filter := social.PostFilter{
		Query:   q.Query,
		Hashtag: q.Hashtag,
		UserID:  q.UserID,
		GroupID: q.GroupID,
		PlaceID: q.PlaceID,
	}
	if q.From != "" {
		from, err := time.Parse(time.RFC3339, q.From)
		if err != nil {
			models.RespondWithError(c, models.NewInvalidInputError("from must be RFC3339"))
			return
		}
		filter.From = &from
	}
	if q.To != "" {
		to, err := time.Parse(time.RFC3339, q.To)
		if err != nil {
			models.RespondWithError(c, models.NewInvalidInputError("to must be RFC3339"))
			return
		}
		filter.To = &to
	}

	p := social.Pagination{Page: q.Page, Limit: q.Limit}
	posts, total, err := sc.Engine.SearchPosts(c.Request.Context(), filter, p)
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       posts,
		Pagination: paginationMeta(p, total),
	})
}

// SearchGroups handles GET /search/groups.
func (sc *SearchController) SearchGroups(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		models.RespondWithError(c, models.NewInvalidInputError(err.Error()))
		return
	}

	p := social.Pagination{Page: q.Page, Limit: q.Limit}
	groups, total, err := sc.Engine.SearchGroups(c.Request.Context(), q.Query, p)
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       groups,
		Pagination: paginationMeta(p, total),
	})
}
