package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"pdfshare/internal/service"
)

type uploadResponse struct {
	DocumentID string `json:"documentId"`
	Title      string `json:"title"`
	Filename   string `json:"filename"`
}

// UploadDocument accepts a PDF as multipart/form-data (fields: title, uploadedBy, file).
//
// @Summary Upload a PDF
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Document title"
// @Param uploadedBy formData string false "Uploader"
// @Param file formData file true "PDF file"
// @Success 201 {object} uploadResponse
// @Failure 400 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /documents [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		if !service.IsPDFFilename(fh.Filename) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FILE_TYPE", "only PDF uploads are allowed")
		}
		title := strings.TrimSpace(c.FormValue("title"))
		if title == "" {
			return writeError(c, fiber.StatusBadRequest, "TITLE_REQUIRED", "title is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		doc, err := svc.Upload(c.UserContext(), service.UploadInput{
			Title:      title,
			UploadedBy: c.FormValue("uploadedBy"),
			Filename:   fh.Filename,
			Size:       fh.Size,
			Reader:     f,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(uploadResponse{
			DocumentID: doc.ID,
			Title:      doc.Title,
			Filename:   doc.Filename,
		})
	}
}

// ListDocuments returns uploaded documents newest first.
//
// @Summary List documents
// @Tags documents
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.DocumentListResult
// @Router /documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetDocument returns one document's metadata.
//
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} model.Document
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}
