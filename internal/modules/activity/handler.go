package activity

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MHYAnate/rootafapi/internal/domain"
	"github.com/MHYAnate/rootafapi/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(adminGroup *gin.RouterGroup) {
	adminGroup.GET("/activity-logs", h.List)
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	var filter ListFilter
	if v := c.Query("admin_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid admin_id")
			return
		}
		filter.AdminID = &id
	}
	if v := c.Query("action_type"); v != "" {
		t := domain.AdminActionType(v)
		filter.ActionType = &t
	}
	if v := c.Query("from"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid from timestamp")
			return
		}
		filter.From = &ts
	}
	if v := c.Query("to"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid to timestamp")
			return
		}
		filter.To = &ts
	}

	entries, meta, err := h.service.List(c.Request.Context(), filter, page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Failed to load activity logs")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"logs": entries, "meta": meta})
}
