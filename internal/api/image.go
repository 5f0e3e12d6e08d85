package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-catalog/backend/internal/service"
)

// ImageHandler handles recipe image uploads
type ImageHandler struct {
	images service.IImageService
	log    *zap.Logger
}

// NewImageHandler creates a new image handler
func NewImageHandler(images service.IImageService, log *zap.Logger) *ImageHandler {
	return &ImageHandler{
		images: images,
		log:    log.With(zap.String("component", "image-handler")),
	}
}

// RegisterRoutes registers the upload route
func (h *ImageHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/file/upload", h.Upload)
}

// Upload handles POST /file/upload with a multipart "image" field.
func (h *ImageHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxImageSize+1<<20)

	header, err := c.FormFile("image")
	if err != nil {
		fail(c, http.StatusBadRequest, "No image file provided", nil)
		return
	}
	if header.Size > service.MaxImageSize {
		fail(c, http.StatusBadRequest, service.ErrImageTooLarge.Error(), nil)
		return
	}

	file, err := header.Open()
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to read upload", err)
		return
	}
	defer file.Close()

	url, err := h.images.Upload(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedImage) || errors.Is(err, service.ErrImageTooLarge) {
			fail(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		h.log.Error("Image upload failed", zap.String("filename", header.Filename), zap.Error(err))
		fail(c, http.StatusInternalServerError, "Image upload failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"secure_url": url,
		"imageUrl":   url,
	})
}
