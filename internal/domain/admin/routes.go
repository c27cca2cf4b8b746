package admin

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the triage endpoints. The group is expected to
// carry the auth and admin-role middleware already.
func RegisterRoutes(adminGroup *gin.RouterGroup, h *Handler) {
	reports := adminGroup.Group("/reports")
	{
		reports.GET("/pending", h.GetPending)
		reports.POST("/:id/approve", h.Approve)
		reports.POST("/:id/reject", h.Reject)
		reports.PATCH("/:id/status", h.UpdateStatus)
		reports.POST("/:id/respond", h.Respond)
	}

	adminGroup.GET("/stats", h.Statistics)

	users := adminGroup.Group("/users")
	{
		users.POST("/:id/block", h.BlockUser)
		users.POST("/:id/unblock", h.UnblockUser)
	}
}
