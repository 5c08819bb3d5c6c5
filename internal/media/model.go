package media

import (
	"net/http"
	"time"

	"github.com/courtflow/facility-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "image not found")
	ErrOwnerNotFound    = apperror.New(http.StatusNotFound, "owner entity not found")
	ErrInvalidOwnerType = apperror.New(http.StatusBadRequest, "invalid owner type")
	ErrNotAnImage       = apperror.New(http.StatusBadRequest, "uploaded file is not a supported image")
	ErrFileTooLarge     = apperror.New(http.StatusRequestEntityTooLarge, "uploaded file exceeds the size limit")
	ErrNoThumbnail      = apperror.New(http.StatusNotFound, "thumbnail not available for this image")
)

// OwnerType identifies which kind of entity an image belongs to.
type OwnerType string

const (
	OwnerCourt     OwnerType = "court"
	OwnerCoach     OwnerType = "coach"
	OwnerEquipment OwnerType = "equipment"
)

func (t OwnerType) Valid() bool {
	switch t {
	case OwnerCourt, OwnerCoach, OwnerEquipment:
		return true
	}
	return false
}

// Image represents an uploaded image attached to a court, coach or equipment item.
type Image struct {
	ID            string    `json:"id"`
	OwnerType     OwnerType `json:"owner_type"`
	OwnerID       string    `json:"owner_id"`
	UploadedBy    string    `json:"uploaded_by"`
	Filename      string    `json:"filename"`
	StoragePath   string    `json:"-"` // Internal path
	ThumbnailPath *string   `json:"-"` // Internal path
	ContentType   string    `json:"content_type"`
	Size          int64     `json:"size"`
	CreatedAt     time.Time `json:"created_at"`
}

// ImageURL returns the public URL for accessing an image by its ID.
func ImageURL(id string) string {
	return "/media/" + id
}

// ThumbnailURL returns the public URL for accessing an image's thumbnail by its ID.
func ThumbnailURL(id string) string {
	return "/media/" + id + "/thumbnail"
}
