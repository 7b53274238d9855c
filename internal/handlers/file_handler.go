package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/arzan03/UserDirectory/internal/services"
	"github.com/arzan03/UserDirectory/internal/storage"
	"github.com/gofiber/fiber/v2"
)

const profileImageField = "profile_image"

type FileHandler struct {
	uploads *services.UploadService
}

func NewFileHandler(uploads *services.UploadService) *FileHandler {
	return &FileHandler{uploads: uploads}
}

// Serve streams a stored profile image for GET /uploads/:name.
func (h *FileHandler) Serve(c *fiber.Ctx) error {
	name, ok := services.ObjectName(services.UploadsPrefix + c.Params("name"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Image not found")
	}

	obj, err := h.uploads.Open(c.UserContext(), name)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Image not found")
	}
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}

	if obj.ContentType != "" {
		c.Set(fiber.HeaderContentType, obj.ContentType)
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.SendStream(obj, int(obj.Size))
}

// profileImage returns the single uploaded profile image, or nil when the
// request carries none.
func profileImage(c *fiber.Ctx) (*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	files := form.File[profileImageField]
	switch len(files) {
	case 0:
		return nil, nil
	case 1:
		return files[0], nil
	}
	return nil, fmt.Errorf("%w: only one profile image is allowed", services.ErrInvalidUpload)
}
