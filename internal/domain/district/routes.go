package district

import "github.com/gin-gonic/gin"

func RegisterRoutes(public *gin.RouterGroup, h *Handler) {
	public.GET("/districts", h.List)
}
