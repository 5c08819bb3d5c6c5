package http

import (
	"time"

	"github.com/courtflow/facility-booking-backend/internal/media"
)

// OwnerRequest binds the owner entity from the URI.
type OwnerRequest struct {
	OwnerType string `uri:"owner_type" binding:"required,oneof=court coach equipment"`
	OwnerID   string `uri:"owner_id" binding:"required,uuid"`
}

// ImageResponse is the shape of image metadata returned in API responses.
type ImageResponse struct {
	ID           string    `json:"id"`
	OwnerType    string    `json:"owner_type"`
	OwnerID      string    `json:"owner_id"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewImageResponse(img *media.Image) ImageResponse {
	var thumbURL *string
	if img.ThumbnailPath != nil {
		t := media.ThumbnailURL(img.ID)
		thumbURL = &t
	}
	return ImageResponse{
		ID:           img.ID,
		OwnerType:    string(img.OwnerType),
		OwnerID:      img.OwnerID,
		Filename:     img.Filename,
		ContentType:  img.ContentType,
		Size:         img.Size,
		URL:          media.ImageURL(img.ID),
		ThumbnailURL: thumbURL,
		CreatedAt:    img.CreatedAt,
	}
}

// UploadResponse is returned after a successful upload.
type UploadResponse struct {
	Message string        `json:"message"`
	Image   ImageResponse `json:"image"`
}
