package catalog

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

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/members/:id/products", h.ListMemberProducts)
	v1.GET("/members/:id/services", h.ListMemberServices)
	v1.GET("/products/:id", h.GetProduct)
	v1.GET("/services/:id", h.GetService)
}

func (h *Handler) RegisterVerifiedRoutes(verified *gin.RouterGroup) {
	verified.POST("/products", h.CreateProduct)
	verified.POST("/services", h.CreateService)
	verified.DELETE("/products/:id", h.DeactivateProduct)
	verified.DELETE("/services/:id", h.DeactivateService)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, product)
}

func (h *Handler) CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	service, err := h.service.CreateService(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, service)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	product, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, product)
}

func (h *Handler) GetService(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	service, err := h.service.GetService(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, service)
}

func (h *Handler) ListMemberProducts(c *gin.Context) {
	memberID, ok := pathID(c)
	if !ok {
		return
	}
	products, meta, err := h.service.ListMemberProducts(c.Request.Context(), memberID, pageParams(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to fetch products")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"products": products, "meta": meta})
}

func (h *Handler) ListMemberServices(c *gin.Context) {
	memberID, ok := pathID(c)
	if !ok {
		return
	}
	services, meta, err := h.service.ListMemberServices(c.Request.Context(), memberID, pageParams(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to fetch services")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"services": services, "meta": meta})
}

func (h *Handler) DeactivateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeactivateProduct(c.Request.Context(), c.GetInt64("user_id"), id); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Listing deactivated"})
}

func (h *Handler) DeactivateService(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeactivateService(c.Request.Context(), c.GetInt64("user_id"), id); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Listing deactivated"})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "LISTING_NOT_FOUND", "Listing not found")
	case errors.Is(err, ErrNotOwner):
		response.Error(c, http.StatusForbidden, "NOT_OWNER", "Listing belongs to a different member")
	case errors.Is(err, ErrNotMember):
		response.Error(c, http.StatusForbidden, "NOT_MEMBER", "Only members can manage listings")
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
