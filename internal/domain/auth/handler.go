package auth

import (
	"errors"
	"net/http"

	"ecoreport/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "email already registered")
			return
		}
		response.Error(c, http.StatusInternalServerError, "REGISTER_FAILED", "registration failed")
		return
	}

	response.Success(c, http.StatusCreated, toPublic(user))
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
		case errors.Is(err, ErrAccountBlocked):
			response.Error(c, http.StatusForbidden, "ACCOUNT_BLOCKED", "account is blocked")
		default:
			response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "login failed")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":         toPublic(result.User),
		"access_token": result.AccessToken,
	})
}

func (h *Handler) Me(c *gin.Context) {
	userID := c.GetInt64("user_id")

	user, err := h.service.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "user not found")
		return
	}

	response.Success(c, http.StatusOK, toPublic(user))
}

func (h *Handler) DeleteAccount(c *gin.Context) {
	userID := c.GetInt64("user_id")

	if err := h.service.DeleteAccount(c.Request.Context(), userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "user not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "DELETE_FAILED", "account deletion failed")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
