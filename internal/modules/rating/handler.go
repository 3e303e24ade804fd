package rating

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MHYAnate/rootafapi/internal/pkg/pagination"
	"github.com/MHYAnate/rootafapi/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterVerifiedRoutes requires a verified user: only verified
// clients may submit ratings.
func (h *Handler) RegisterVerifiedRoutes(verified *gin.RouterGroup) {
	verified.POST("/ratings", h.Create)
	verified.GET("/ratings/mine", h.ListMine)
	verified.GET("/ratings/received", h.ListReceived)
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/members/:id/ratings", h.ListForMember)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	ratings := admin.Group("/ratings")
	{
		ratings.POST("/:id/hide", h.Hide)
		ratings.POST("/:id/restore", h.Restore)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	rating, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rating)
}

func (h *Handler) ListMine(c *gin.Context) {
	ratings, meta, err := h.service.ListByClient(c.Request.Context(), c.GetInt64("user_id"), pageParams(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to fetch ratings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"ratings": ratings, "meta": meta})
}

// ListReceived is the member-side view of the same data the public
// member endpoint serves, keyed by the caller's own id.
func (h *Handler) ListReceived(c *gin.Context) {
	ratings, summary, meta, err := h.service.ListForMember(c.Request.Context(), c.GetInt64("user_id"), pageParams(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to fetch ratings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"ratings": ratings, "summary": summary, "meta": meta})
}

func (h *Handler) ListForMember(c *gin.Context) {
	memberID, ok := pathID(c)
	if !ok {
		return
	}

	ratings, summary, meta, err := h.service.ListForMember(c.Request.Context(), memberID, pageParams(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to fetch ratings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"ratings": ratings, "summary": summary, "meta": meta})
}

func (h *Handler) Hide(c *gin.Context) {
	ratingID, ok := pathID(c)
	if !ok {
		return
	}
	var req HideRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	if err := h.service.HideRating(c.Request.Context(), ratingID, c.GetInt64("admin_id"), req.Reason); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Rating hidden"})
}

func (h *Handler) Restore(c *gin.Context) {
	ratingID, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.RestoreRating(c.Request.Context(), ratingID, c.GetInt64("admin_id")); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Rating restored"})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrDuplicateRating):
		response.Error(c, http.StatusConflict, "DUPLICATE_RATING", "You have already rated this target")
	case errors.Is(err, ErrMemberNotFound):
		response.Error(c, http.StatusNotFound, "MEMBER_NOT_FOUND", "Member not found")
	case errors.Is(err, ErrTargetNotFound):
		response.Error(c, http.StatusNotFound, "TARGET_NOT_FOUND", "Rating target not found")
	case errors.Is(err, ErrRatingNotFound):
		response.Error(c, http.StatusNotFound, "RATING_NOT_FOUND", "Rating not found")
	case errors.Is(err, ErrInvalidTargetPair), errors.Is(err, ErrTargetMismatch):
		response.Error(c, http.StatusBadRequest, "INVALID_TARGET", "Rating category and target do not match")
	case errors.Is(err, ErrClientsOnly):
		response.Error(c, http.StatusForbidden, "CLIENTS_ONLY", "Only clients can submit ratings")
	case errors.Is(err, ErrOwnListing):
		response.Error(c, http.StatusForbidden, "OWN_LISTING", "You cannot rate yourself")
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrAdminNotFound):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission for this action")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Operation failed")
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id parameter")
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) pagination.Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	return pagination.Normalize(page, limit)
}
