package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtflow/facility-booking-backend/internal/auth"
	"github.com/courtflow/facility-booking-backend/internal/media"
	"github.com/courtflow/facility-booking-backend/internal/pkg/request"
	"github.com/courtflow/facility-booking-backend/internal/pkg/response"
)

type Handler struct {
	mediaService media.Service
}

func NewHandler(mediaService media.Service) *Handler {
	return &Handler{
		mediaService: mediaService,
	}
}

// Upload attaches a new image to a court, coach or equipment item.
// Access Control: admin only.
func (h *Handler) Upload(c *gin.Context) {
	var owner OwnerRequest
	if err := c.ShouldBindUri(&owner); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	img, err := h.mediaService.Upload(c.Request.Context(), media.UploadInput{
		Header:    fileHeader,
		OwnerType: media.OwnerType(owner.OwnerType),
		OwnerID:   owner.OwnerID,
		UserID:    auth.GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, UploadResponse{
		Message: "image uploaded successfully",
		Image:   NewImageResponse(img),
	})
}

// ListByOwner returns image metadata for a court, coach or equipment item.
func (h *Handler) ListByOwner(c *gin.Context) {
	var owner OwnerRequest
	if err := c.ShouldBindUri(&owner); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	images, err := h.mediaService.ListByOwner(c.Request.Context(), media.OwnerType(owner.OwnerType), owner.OwnerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ImageResponse, len(images))
	for i, img := range images {
		items[i] = NewImageResponse(img)
	}
	c.JSON(http.StatusOK, gin.H{"images": items})
}

// ServeImage serves the image content by ID.
func (h *Handler) ServeImage(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	stream, img, err := h.mediaService.Download(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", img.ContentType)
	c.Header("Content-Disposition", "inline; filename=\""+img.Filename+"\"")

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		// Response already started, nothing useful to report to the client
		return
	}
}

// ServeThumbnail serves the thumbnail image by ID.
func (h *Handler) ServeThumbnail(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	stream, img, err := h.mediaService.DownloadThumbnail(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	// Thumbnails are always JPEG
	c.Header("Content-Type", "image/jpeg")
	c.Header("Content-Disposition", "inline; filename=\""+img.Filename+"_thumb.jpg\"")

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		return
	}
}

// Delete removes an image and its stored content.
// Access Control: admin only.
func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.mediaService.Delete(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
