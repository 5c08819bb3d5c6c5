package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/courtflow/facility-booking-backend/internal/pkg/storage"
)

// maxUploadBytes caps uploaded images at 5 MiB.
const maxUploadBytes = 5 << 20

const thumbnailMaxSize = 320

// OwnerResolver reports whether the entity an image is being attached to exists.
type OwnerResolver func(ctx context.Context, ownerType OwnerType, ownerID string) (bool, error)

// UploadInput carries everything needed to attach a new image to an entity.
type UploadInput struct {
	Header    *multipart.FileHeader
	OwnerType OwnerType
	OwnerID   string
	UserID    string
}

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*Image, error)
	Get(ctx context.Context, id string) (*Image, error)
	ListByOwner(ctx context.Context, ownerType OwnerType, ownerID string) ([]*Image, error)
	Delete(ctx context.Context, id string) error
	Download(ctx context.Context, id string) (io.ReadCloser, *Image, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Image, error)
}

type service struct {
	repo         Repository
	storage      storage.Storage
	imgProc      *storage.ImageProcessor
	resolveOwner OwnerResolver
}

func NewService(repo Repository, store storage.Storage, resolveOwner OwnerResolver) Service {
	return &service{
		repo:         repo,
		storage:      store,
		imgProc:      storage.NewImageProcessor(),
		resolveOwner: resolveOwner,
	}
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*Image, error) {
	if !in.OwnerType.Valid() {
		return nil, ErrInvalidOwnerType
	}
	if in.Header.Size > maxUploadBytes {
		return nil, ErrFileTooLarge
	}

	contentType := in.Header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotAnImage
	}

	exists, err := s.resolveOwner(ctx, in.OwnerType, in.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve image owner: %w", err)
	}
	if !exists {
		return nil, ErrOwnerNotFound
	}

	src, err := in.Header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	// Buffer the content so it can be read twice (original + thumbnail).
	// Uploads are size-capped, so this stays small.
	fileBytes, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}

	imageID := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(in.Header.Filename))

	// Sharding path: media/ab/UUID.ext
	shard := imageID[:2]
	storagePath := fmt.Sprintf("media/%s/%s%s", shard, imageID, ext)

	if err := s.storage.Save(ctx, storagePath, bytes.NewReader(fileBytes)); err != nil {
		return nil, fmt.Errorf("failed to save image to storage: %w", err)
	}

	var thumbnailPath *string
	thumbReader, err := s.imgProc.GenerateThumbnail(bytes.NewReader(fileBytes), thumbnailMaxSize, thumbnailMaxSize)
	if err != nil {
		// The upload still succeeds without a thumbnail.
		log.Printf("media: thumbnail generation failed for %s: %v", imageID, err)
	} else {
		tPath := fmt.Sprintf("media/%s/%s_thumb.jpg", shard, imageID)
		if err := s.storage.Save(ctx, tPath, thumbReader); err != nil {
			log.Printf("media: failed to save thumbnail for %s: %v", imageID, err)
		} else {
			thumbnailPath = &tPath
		}
	}

	img := &Image{
		ID:            imageID,
		OwnerType:     in.OwnerType,
		OwnerID:       in.OwnerID,
		UploadedBy:    in.UserID,
		Filename:      in.Header.Filename,
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          in.Header.Size,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.Create(ctx, img); err != nil {
		// Cleanup storage if db fails
		_ = s.storage.Delete(ctx, storagePath)
		if thumbnailPath != nil {
			_ = s.storage.Delete(ctx, *thumbnailPath)
		}
		return nil, err
	}

	return img, nil
}

func (s *service) Get(ctx context.Context, id string) (*Image, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByOwner(ctx context.Context, ownerType OwnerType, ownerID string) ([]*Image, error) {
	if !ownerType.Valid() {
		return nil, ErrInvalidOwnerType
	}
	return s.repo.ListByOwner(ctx, ownerType, ownerID)
}

func (s *service) Delete(ctx context.Context, id string) error {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Best-effort storage cleanup; the record is removed either way.
	if err := s.storage.Delete(ctx, img.StoragePath); err != nil {
		log.Printf("media: failed to delete stored image %s: %v", id, err)
	}
	if img.ThumbnailPath != nil {
		_ = s.storage.Delete(ctx, *img.ThumbnailPath)
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *Image, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.storage.Get(ctx, img.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve image from storage: %w", err)
	}
	return stream, img, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Image, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if img.ThumbnailPath == nil {
		return nil, nil, ErrNoThumbnail
	}

	stream, err := s.storage.Get(ctx, *img.ThumbnailPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve thumbnail from storage: %w", err)
	}
	return stream, img, nil
}
