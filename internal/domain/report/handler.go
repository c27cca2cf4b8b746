package report

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ecoreport/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const maxUploadBytes = 30 * 1024 * 1024 // whole multipart form

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Submit accepts a multipart form with the report fields and 1..N photo
// files under "images". The street is resolved to its variant here, at
// the ingestion boundary.
func (h *Handler) Submit(c *gin.Context) {
	userID := c.GetInt64("user_id")

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid multipart form")
		return
	}

	draft := Draft{
		Type:        c.PostForm("type"),
		Description: c.PostForm("description"),
		District:    c.PostForm("district"),
	}

	streetName := strings.TrimSpace(c.PostForm("street"))
	if sLat, sLng, ok := parseLatLng(c.PostForm("street_lat"), c.PostForm("street_lng")); ok {
		draft.Street = LocatedStreet(streetName, sLat, sLng)
	} else {
		draft.Street = NamedStreet(streetName)
	}

	if lat, lng, ok := parseLatLng(c.PostForm("lat"), c.PostForm("lng")); ok {
		draft.Lat = lat
		draft.Lng = lng
		draft.HasCoordinate = true
	}

	if v := c.PostForm("captured_at"); v != "" {
		capturedAt, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "captured_at must be RFC3339")
			return
		}
		draft.CapturedAt = capturedAt
	}

	for _, fh := range form.File["images"] {
		f, err := fh.Open()
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "unreadable photo "+fh.Filename)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "unreadable photo "+fh.Filename)
			return
		}
		draft.Images = append(draft.Images, ImageFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	rep, err := h.service.Submit(c.Request.Context(), userID, draft)
	if err != nil {
		var vErr *ValidationError
		var tErr *TransportError
		var sErr *StoreRejection
		switch {
		case errors.As(err, &vErr):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED",
				"missing or invalid field", gin.H{"field": vErr.Field, "reason": vErr.Reason})
		case errors.As(err, &tErr):
			response.Error(c, http.StatusBadGateway, "UPLOAD_FAILED",
				"photo upload failed, please try again")
		case errors.As(err, &sErr):
			response.Error(c, http.StatusUnprocessableEntity, "STORE_REJECTED", sErr.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "SUBMIT_FAILED", "submission failed")
		}
		return
	}

	response.Success(c, http.StatusCreated, rep)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid report ID")
		return
	}

	rep, err := h.service.Get(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"))
	if err != nil {
		switch {
		case errors.Is(err, ErrReportNotFound), errors.Is(err, ErrNotVisible):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "report not found")
		default:
			response.Error(c, http.StatusInternalServerError, "GET_FAILED", "failed to load report")
		}
		return
	}

	response.Success(c, http.StatusOK, rep)
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	f := Filter{
		District: c.Query("district"),
		Type:     c.Query("type"),
		Status:   Status(c.Query("status")),
		Page:     page,
		Limit:    limit,
	}
	if f.Status != "" && !f.Status.IsValid() {
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "unknown status filter")
		return
	}

	reports, total, err := h.service.ListApproved(c.Request.Context(), f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "failed to list reports")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"items": reports,
		"total": total,
		"page":  f.Page,
		"limit": f.Limit,
	})
}

func (h *Handler) ListMine(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	reports, err := h.service.ListMine(c.Request.Context(), c.GetInt64("user_id"), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "failed to list reports")
		return
	}

	response.Success(c, http.StatusOK, reports)
}

func (h *Handler) ToggleUpvote(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid report ID")
		return
	}

	upvoted, count, err := h.service.ToggleUpvote(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrReportNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "report not found")
		case errors.Is(err, ErrNotApproved):
			response.Error(c, http.StatusConflict, "NOT_APPROVED", "report is not approved yet")
		default:
			response.Error(c, http.StatusInternalServerError, "UPVOTE_FAILED", "failed to toggle upvote")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"upvoted": upvoted, "upvotes": count})
}

func (h *Handler) Responses(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid report ID")
		return
	}

	responses, err := h.service.Responses(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "report not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "failed to list responses")
		return
	}

	response.Success(c, http.StatusOK, responses)
}

func parseLatLng(latStr, lngStr string) (float64, float64, bool) {
	if latStr == "" || lngStr == "" {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, false
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lng, true
}
