package report

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the public listing endpoints and the protected
// submission/upvote endpoints.
func RegisterRoutes(public, protected *gin.RouterGroup, h *Handler) {
	public.GET("/reports", h.List)
	public.GET("/reports/:id/responses", h.Responses)

	reports := protected.Group("/reports")
	{
		reports.POST("", h.Submit)
		reports.GET("/mine", h.ListMine)
		reports.GET("/:id", h.Get)
		reports.POST("/:id/upvote", h.ToggleUpvote)
	}
}
