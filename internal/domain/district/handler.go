package district

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecoreport/internal/pkg/response"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "failed to list districts")
		return
	}
	response.Success(c, http.StatusOK, list)
}
