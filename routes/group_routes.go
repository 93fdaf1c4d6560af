package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/snapgram/api-go/controllers"
)

func SetupGroupRoutes(protected *gin.RouterGroup, groupController *controllers.GroupController) {
	groups := protected.Group("/groups")
	{
		groups.POST("", groupController.CreateGroup)
		groups.PUT("/:id", groupController.UpdateGroup)
		groups.DELETE("/:id", groupController.DeleteGroup)
		groups.POST("/:id/join", groupController.JoinGroup)
		groups.POST("/:id/leave", groupController.LeaveGroup)
		groups.GET("/:id/members", groupController.GetGroupMembers)

		// Admin management
		groups.POST("/:id/admin/add", groupController.AddAdmin)
		groups.POST("/:id/admin/remove", groupController.RemoveAdmin)
		groups.POST("/:id/member/remove", groupController.RemoveMember)
	}
}
