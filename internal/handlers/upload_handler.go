package handlers

import (
	"log"
	"path/filepath"

	"shopadmin/internal/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UploadHandler stores uploaded images under the configured directory.
type UploadHandler struct {
	uploadDir string
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploadDir string) *UploadHandler {
	return &UploadHandler{uploadDir: uploadDir}
}

// RegisterRoutes registers the upload routes behind the given guards.
func (h *UploadHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	uploadRoutes := router.Group("/upload", guards...)
	uploadRoutes.Post("/image", h.HandleUploadImage)
}

// HandleUploadImage saves the multipart "image" file under a random
// name and returns its public URL.
func (h *UploadHandler) HandleUploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil || file == nil {
		return response.Error(c, fiber.StatusBadRequest, "No file uploaded", nil)
	}

	name := uuid.New().String() + filepath.Ext(file.Filename)
	if err := c.SaveFile(file, filepath.Join(h.uploadDir, name)); err != nil {
		log.Printf("Error saving uploaded file: %v", err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not store uploaded file", nil)
	}

	return response.Success(c, fiber.StatusOK, "File uploaded successfully", fiber.Map{"imageUrl": "/uploads/" + name}, nil)
}
