package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	images map[string]*Image
}

func newStubRepo() *stubRepo {
	return &stubRepo{images: make(map[string]*Image)}
}

func (s *stubRepo) Create(_ context.Context, img *Image) error {
	s.images[img.ID] = img
	return nil
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*Image, error) {
	img, ok := s.images[id]
	if !ok {
		return nil, ErrNotFound
	}
	return img, nil
}

func (s *stubRepo) ListByOwner(_ context.Context, ownerType OwnerType, ownerID string) ([]*Image, error) {
	out := make([]*Image, 0)
	for _, img := range s.images {
		if img.OwnerType == ownerType && img.OwnerID == ownerID {
			out = append(out, img)
		}
	}
	return out, nil
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.images[id]; !ok {
		return ErrNotFound
	}
	delete(s.images, id)
	return nil
}

// memStorage keeps stored objects in a map.
type memStorage struct {
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string][]byte)}
}

func (m *memStorage) Save(_ context.Context, path string, content io.Reader) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	m.objects[path] = data
	return nil
}

func (m *memStorage) Get(_ context.Context, path string) (io.ReadCloser, error) {
	data, ok := m.objects[path]
	if !ok {
		return nil, fmt.Errorf("object not found: %s", path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStorage) Delete(_ context.Context, path string) error {
	delete(m.objects, path)
	return nil
}

func knownOwners(ids ...string) OwnerResolver {
	return func(_ context.Context, _ OwnerType, ownerID string) (bool, error) {
		for _, id := range ids {
			if id == ownerID {
				return true, nil
			}
		}
		return false, nil
	}
}

func makeFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	require.Len(t, form.File["file"], 1)
	return form.File["file"][0]
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadImage(t *testing.T) {
	repo := newStubRepo()
	store := newMemStorage()
	svc := NewService(repo, store, knownOwners("court-1"))

	img, err := svc.Upload(context.Background(), UploadInput{
		Header:    makeFileHeader(t, "court.png", "image/png", pngBytes(t)),
		OwnerType: OwnerCourt,
		OwnerID:   "court-1",
		UserID:    "admin-1",
	})
	require.NoError(t, err)

	assert.Equal(t, OwnerCourt, img.OwnerType)
	assert.Equal(t, "court-1", img.OwnerID)
	assert.Equal(t, "admin-1", img.UploadedBy)
	assert.Equal(t, "image/png", img.ContentType)
	assert.True(t, strings.HasPrefix(img.StoragePath, "media/"))

	// Both the original and the thumbnail landed in storage.
	require.NotNil(t, img.ThumbnailPath)
	assert.Contains(t, store.objects, img.StoragePath)
	assert.Contains(t, store.objects, *img.ThumbnailPath)
	assert.Contains(t, repo.images, img.ID)
}

func TestUploadSurvivesThumbnailFailure(t *testing.T) {
	repo := newStubRepo()
	store := newMemStorage()
	svc := NewService(repo, store, knownOwners("court-1"))

	// Declares an image content type but is not decodable.
	img, err := svc.Upload(context.Background(), UploadInput{
		Header:    makeFileHeader(t, "broken.jpg", "image/jpeg", []byte("not an image")),
		OwnerType: OwnerCourt,
		OwnerID:   "court-1",
		UserID:    "admin-1",
	})
	require.NoError(t, err)
	assert.Nil(t, img.ThumbnailPath)

	_, _, err = svc.DownloadThumbnail(context.Background(), img.ID)
	assert.ErrorIs(t, err, ErrNoThumbnail)
}

func TestUploadValidation(t *testing.T) {
	svc := NewService(newStubRepo(), newMemStorage(), knownOwners("court-1"))
	ctx := context.Background()

	_, err := svc.Upload(ctx, UploadInput{
		Header:    makeFileHeader(t, "notes.txt", "text/plain", []byte("hello")),
		OwnerType: OwnerCourt,
		OwnerID:   "court-1",
	})
	assert.ErrorIs(t, err, ErrNotAnImage)

	_, err = svc.Upload(ctx, UploadInput{
		Header:    makeFileHeader(t, "court.png", "image/png", pngBytes(t)),
		OwnerType: OwnerType("venue"),
		OwnerID:   "court-1",
	})
	assert.ErrorIs(t, err, ErrInvalidOwnerType)

	_, err = svc.Upload(ctx, UploadInput{
		Header:    makeFileHeader(t, "court.png", "image/png", pngBytes(t)),
		OwnerType: OwnerCourt,
		OwnerID:   "missing-court",
	})
	assert.ErrorIs(t, err, ErrOwnerNotFound)

	_, err = svc.Upload(ctx, UploadInput{
		Header:    makeFileHeader(t, "huge.png", "image/png", make([]byte, maxUploadBytes+1)),
		OwnerType: OwnerCourt,
		OwnerID:   "court-1",
	})
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestDeleteImage(t *testing.T) {
	repo := newStubRepo()
	store := newMemStorage()
	svc := NewService(repo, store, knownOwners("coach-1"))
	ctx := context.Background()

	img, err := svc.Upload(ctx, UploadInput{
		Header:    makeFileHeader(t, "coach.png", "image/png", pngBytes(t)),
		OwnerType: OwnerCoach,
		OwnerID:   "coach-1",
		UserID:    "admin-1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, img.ID))
	assert.NotContains(t, repo.images, img.ID)
	assert.NotContains(t, store.objects, img.StoragePath)
	assert.Empty(t, store.objects)

	assert.ErrorIs(t, svc.Delete(ctx, img.ID), ErrNotFound)
}

func TestDownloadImage(t *testing.T) {
	repo := newStubRepo()
	store := newMemStorage()
	svc := NewService(repo, store, knownOwners("eq-1"))
	ctx := context.Background()

	content := pngBytes(t)
	img, err := svc.Upload(ctx, UploadInput{
		Header:    makeFileHeader(t, "racket.png", "image/png", content),
		OwnerType: OwnerEquipment,
		OwnerID:   "eq-1",
	})
	require.NoError(t, err)

	stream, meta, err := svc.Download(ctx, img.ID)
	require.NoError(t, err)
	defer stream.Close()

	got, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Equal(t, "racket.png", meta.Filename)

	_, _, err = svc.Download(ctx, "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)
}
