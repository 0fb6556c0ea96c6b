package uploads

import (
	"io"

	"bluecarbon-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

const maxEvidenceBytes = 25 << 20 // 25 MiB

// POST /api/v1/uploads/evidence (multipart field "file")
func (h *Handlers) UploadEvidence(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, "file is required", 400, nil)
	}
	if fileHeader.Size > maxEvidenceBytes {
		return response.Error(c, "file exceeds the 25MB evidence limit", 413, nil)
	}
	f, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, "Failed to read file", 500, nil)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return response.Error(c, "Failed to read file", 500, nil)
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	result, err := h.Service.StoreEvidence(c.Context(), contentType, data)
	if err != nil {
		return response.Error(c, "Failed to store evidence file", 500, nil)
	}
	return response.SuccessCreated(c, "Evidence stored successfully", result, nil)
}
