package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"path"
	"strings"

	"github.com/arzan03/UserDirectory/internal/storage"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// UploadsPrefix is the public path under which stored images are served.
const UploadsPrefix = "/uploads/"

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// UploadService validates, stores and removes profile images. Callers record
// the returned path on the user and hand it back to Discard when the record
// mutation fails or the image is superseded.
type UploadService struct {
	store   storage.ImageStore
	maxSize int64
}

func NewUploadService(store storage.ImageStore, maxSize int64) *UploadService {
	return &UploadService{store: store, maxSize: maxSize}
}

// Accept checks fh against the size and type constraints and writes it under
// a fresh unique name. A nil header is not an upload and yields "".
func (s *UploadService) Accept(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", nil
	}
	if fh.Size > s.maxSize {
		return "", fmt.Errorf("%w: file size exceeds %s limit", ErrInvalidUpload, humanize.IBytes(uint64(s.maxSize)))
	}
	if declared := fh.Header.Get("Content-Type"); declared != "" && !allowedDeclaredType(declared) {
		return "", ErrUnsupportedMediaType
	}

	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	detected, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	ext, ok := imageExtensions[detected.String()]
	if !ok {
		return "", ErrUnsupportedMediaType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind file: %w", err)
	}

	name := uuid.NewString() + ext
	if err := s.store.Put(ctx, name, file, fh.Size, detected.String()); err != nil {
		return "", err
	}
	return UploadsPrefix + name, nil
}

// Discard removes the image at a stored reference path. Failures are logged
// and never returned so they cannot mask the caller's own error.
func (s *UploadService) Discard(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	name, ok := ObjectName(ref)
	if !ok {
		log.Printf("Skipping cleanup of unrecognised image path %q", ref)
		return
	}
	if err := s.store.Remove(context.WithoutCancel(ctx), name); err != nil {
		log.Printf("Failed to remove image %s: %v", name, err)
	}
}

// Open returns the stored image with the given object name.
func (s *UploadService) Open(ctx context.Context, name string) (*storage.Object, error) {
	return s.store.Get(ctx, name)
}

// ObjectName maps a stored reference path such as "/uploads/x.png" to the
// object name inside the store.
func ObjectName(ref string) (string, bool) {
	ref = "/" + strings.TrimLeft(ref, `/\`)
	if !strings.HasPrefix(ref, UploadsPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(ref, UploadsPrefix)
	if name == "" || name == ".." || name != path.Base(name) || strings.Contains(name, `\`) {
		return "", false
	}
	return name, true
}

func allowedDeclaredType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch strings.ToLower(mediaType) {
	case "image/jpeg", "image/jpg", "image/png":
		return true
	}
	return false
}
