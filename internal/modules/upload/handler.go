package upload

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MHYAnate/rootafapi/internal/domain"
	"github.com/MHYAnate/rootafapi/internal/pkg/response"
)

// Handler accepts multipart uploads. Document uploads additionally
// record a PENDING VerificationDocument row for the admin queue.
type Handler struct {
	uploader Uploader
	db       *gorm.DB
}

func NewHandler(uploader Uploader, db *gorm.DB) *Handler {
	return &Handler{uploader: uploader, db: db}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	// Unverified users must be able to submit documents, so this sits
	// behind auth but not behind the verified gate.
	protected.POST("/verification/documents", h.UploadDocument)
}

func (h *Handler) RegisterVerifiedRoutes(verified *gin.RouterGroup) {
	verified.POST("/uploads", h.UploadFile)
}

func (h *Handler) UploadFile(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "MISSING_FILE", "A file field is required")
		return
	}
	defer file.Close()

	folder := c.DefaultPostForm("folder", "general")

	result, err := h.uploader.Upload(c.Request.Context(), file, header.Size, header.Filename, folder)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

func (h *Handler) UploadDocument(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "MISSING_FILE", "A file field is required")
		return
	}
	defer file.Close()

	documentType := c.PostForm("document_type")
	if documentType == "" {
		response.Error(c, http.StatusBadRequest, "MISSING_DOCUMENT_TYPE", "document_type is required")
		return
	}

	result, err := h.uploader.Upload(c.Request.Context(), file, header.Size, header.Filename, "documents")
	if err != nil {
		h.respondError(c, err)
		return
	}

	doc := &domain.VerificationDocument{
		UserID:             c.GetInt64("user_id"),
		DocumentType:       documentType,
		FileURL:            result.URL,
		VerificationStatus: domain.DocumentPending,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(doc).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "DOCUMENT_SAVE_FAILED", "Failed to record document")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"document": doc, "file": result})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File exceeds the 50MB limit")
	case errors.Is(err, ErrUnsupportedType):
		response.Error(c, http.StatusUnsupportedMediaType, "UNSUPPORTED_TYPE", "Unsupported file type")
	default:
		response.Error(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Upload failed")
	}
}
