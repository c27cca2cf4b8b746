package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ecoreport/internal/domain/report"
	"ecoreport/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type RespondRequest struct {
	Message string `json:"message" binding:"required"`
}

type BlockRequest struct {
	Reason string `json:"reason"`
}

func moderatorFrom(c *gin.Context) Moderator {
	return Moderator{
		ID:       c.GetInt64("user_id"),
		Role:     c.GetString("role"),
		District: c.GetString("district"),
	}
}

func (h *Handler) GetPending(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	reports, total, err := h.service.GetPendingReports(c.Request.Context(), moderatorFrom(c), page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "failed to list pending reports")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"items": reports,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *Handler) Approve(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid report ID")
		return
	}

	rep, err := h.service.ApproveReport(c.Request.Context(), moderatorFrom(c), id)
	if err != nil {
		h.moderationError(c, err)
		return
	}

	response.Success(c, http.StatusOK, rep)
}

func (h *Handler) Reject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid report ID")
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "REASON_REQUIRED", "a rejection reason is required")
		return
	}

	rep, err := h.service.RejectReport(c.Request.Context(), moderatorFrom(c), id, req.Reason)
	if err != nil {
		h.moderationError(c, err)
		return
	}

	response.Success(c, http.StatusOK, rep)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid report ID")
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "status is required")
		return
	}

	rep, err := h.service.AdvanceStatus(c.Request.Context(), moderatorFrom(c), id, report.Status(req.Status))
	if err != nil {
		h.moderationError(c, err)
		return
	}

	response.Success(c, http.StatusOK, rep)
}

func (h *Handler) Respond(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid report ID")
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "message is required")
		return
	}

	resp, err := h.service.RespondToReport(c.Request.Context(), moderatorFrom(c), id, req.Message)
	if err != nil {
		h.moderationError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

func (h *Handler) Statistics(c *gin.Context) {
	stats, err := h.service.GetStatistics(c.Request.Context(), moderatorFrom(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "STATS_FAILED", "failed to compute statistics")
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) BlockUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid user ID")
		return
	}

	var req BlockRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.service.BlockUser(c.Request.Context(), id, req.Reason); err != nil {
		response.Error(c, http.StatusInternalServerError, "BLOCK_FAILED", "failed to block user")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"blocked": true})
}

func (h *Handler) UnblockUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid user ID")
		return
	}

	if err := h.service.UnblockUser(c.Request.Context(), id); err != nil {
		response.Error(c, http.StatusInternalServerError, "UNBLOCK_FAILED", "failed to unblock user")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"blocked": false})
}

func (h *Handler) moderationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, report.ErrReportNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "report not found")
	case errors.Is(err, ErrDistrictMismatch):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "report belongs to another district")
	case errors.Is(err, ErrAlreadyModerated):
		response.Error(c, http.StatusConflict, "ALREADY_MODERATED", "report was already moderated")
	case errors.Is(err, report.ErrNotApproved):
		response.Error(c, http.StatusConflict, "NOT_APPROVED", "report must be approved first")
	case errors.Is(err, report.ErrStatusRegression):
		response.Error(c, http.StatusConflict, "STATUS_REGRESSION", "status can only move forward")
	case errors.Is(err, report.ErrReasonRequired):
		response.Error(c, http.StatusBadRequest, "REASON_REQUIRED", "a reason is required")
	default:
		response.Error(c, http.StatusInternalServerError, "MODERATION_FAILED", "moderation action failed")
	}
}
