package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snapgram/api-go/models"
	"github.com/snapgram/api-go/social"
	"github.com/snapgram/api-go/utils"
)

type GroupController struct {
	Engine *social.Engine
}

func NewGroupController(engine *social.Engine) *GroupController {
	return &GroupController{Engine: engine}
}

// CreateGroup handles POST /groups.
func (gc *GroupController) CreateGroup(c *gin.Context) {
	user := utils.GetUser(c)

	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		IsPrivate   bool   `json:"isPrivate"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		models.RespondWithError(c, models.NewInvalidInputError(err.Error()))
		return
	}

	group, err := gc.Engine.CreateGroup(c.Request.Context(), user.UserID, input.Name, input.Description, input.IsPrivate)
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"group":   group,
	})
}

// UpdateGroup handles PUT /groups/:id.
func (gc *GroupController) UpdateGroup(c *gin.Context) {
	user := utils.GetUser(c)
	groupID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IsPrivate   *bool   `json:"isPrivate"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		models.RespondWithError(c, models.NewInvalidInputError(err.Error()))
		return
	}

	group, err := gc.Engine.UpdateGroup(c.Request.Context(), user.UserID, groupID, social.UpdateGroupInput{
		Name:        input.Name,
		Description: input.Description,
		IsPrivate:   input.IsPrivate,
	})
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"group":   group,
	})
}

// DeleteGroup handles DELETE /groups/:id — creator only, cascades to the
// group's posts.
func (gc *GroupController) DeleteGroup(c *gin.Context) {
	user := utils.GetUser(c)
	groupID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := gc.Engine.DeleteGroup(c.Request.Context(), user.UserID, groupID); err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Group deleted"})
}

// JoinGroup handles POST /groups/:id/join. Idempotent.
func (gc *GroupController) JoinGroup(c *gin.Context) {
	user := utils.GetUser(c)
	groupID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := gc.Engine.JoinGroup(c.Request.Context(), user.UserID, groupID); err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Joined group"})
}

// LeaveGroup handles POST /groups/:id/leave.
func (gc *GroupController) LeaveGroup(c *gin.Context) {
	user := utils.GetUser(c)
	groupID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := gc.Engine.LeaveGroup(c.Request.Context(), user.UserID, groupID); err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Left group"})
}

type memberActionRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

// AddAdmin handles POST /groups/:id/admin/add.
func (gc *GroupController) AddAdmin(c *gin.Context) {
	user := utils.GetUser(c)
	groupID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input memberActionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		models.RespondWithError(c, models.NewInvalidInputError(err.Error()))
		return
	}

	if err := gc.Engine.PromoteAdmin(c.Request.Context(), user.UserID, groupID, input.UserID); err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Admin added"})
}

// RemoveAdmin handles POST /groups/:id/admin/remove.
func (gc *GroupController) RemoveAdmin(c *gin.Context) {
	user := utils.GetUser(c)
	groupID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input memberActionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		models.RespondWithError(c, models.NewInvalidInputError(err.Error()))
		return
	}

	if err := gc.Engine.DemoteAdmin(c.Request.Context(), user.UserID, groupID, input.UserID); err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Admin removed"})
}

// RemoveMember handles POST /groups/:id/member/remove.
func (gc *GroupController) RemoveMember(c *gin.Context) {
	user := utils.GetUser(c)
	groupID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input memberActionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		models.RespondWithError(c, models.NewInvalidInputError(err.Error()))
		return
	}

	if err := gc.Engine.RemoveMember(c.Request.Context(), user.UserID, groupID, input.UserID); err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Member removed"})
}

// GetGroupMembers handles GET /groups/:id/members.
func (gc *GroupController) GetGroupMembers(c *gin.Context) {
	groupID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		models.RespondWithError(c, models.NewInvalidInputError(err.Error()))
		return
	}

	members, total, err := gc.Engine.GroupMembers(c.Request.Context(), groupID, q.Pagination())
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       members,
		Pagination: paginationMeta(q.Pagination(), total),
	})
}
