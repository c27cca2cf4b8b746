package notification

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the notification endpoints. The WebSocket
// endpoint authenticates itself via query token, so it sits on the
// public group.
func RegisterRoutes(public, protected *gin.RouterGroup, h *Handler) {
	public.GET("/ws/notifications", h.HandleWebSocket)

	notifications := protected.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.PATCH("/:id/read", h.MarkRead)
		notifications.PATCH("/read-all", h.MarkAllRead)
	}
}
