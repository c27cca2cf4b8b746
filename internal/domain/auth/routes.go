package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts public auth endpoints and protected account
// endpoints on their respective groups.
func RegisterRoutes(public, protected *gin.RouterGroup, h *Handler) {
	a := public.Group("/auth")
	{
		a.POST("/register", h.Register)
		a.POST("/login", h.Login)
	}

	account := protected.Group("/account")
	{
		account.GET("/me", h.Me)
		account.DELETE("", h.DeleteAccount)
	}
}
