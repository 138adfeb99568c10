package handler

import (
	"mime"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"pdfshare/internal/model"
	"pdfshare/internal/service"
)

type createShareRequest struct {
	DocumentID     string  `json:"documentId"`
	Mode           string  `json:"mode"`
	AllowedPages   *int    `json:"allowedPages"`
	RecipientName  *string `json:"recipientName"`
	RecipientEmail *string `json:"recipientEmail"`
	WatermarkText  *string `json:"watermarkText"`
}

type createShareResponse struct {
	Token            string          `json:"token"`
	Mode             model.ShareMode `json:"mode"`
	URL              string          `json:"url"`
	VerificationCode *string         `json:"verificationCode,omitempty"`
}

type verifyRequest struct {
	Code  string  `json:"code"`
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// ShareURL is the recipient-facing link for token.
func ShareURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/shares/" + token
}

// CreateShare issues a preview or browse share for a document.
// The verification code of a browse share is returned only here and in the admin list.
//
// @Summary Create a share
// @Tags shares
// @Accept json
// @Produce json
// @Param body body createShareRequest true "Share request"
// @Success 201 {object} createShareResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /shares [post]
func CreateShare(svc service.ShareService, baseURL string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createShareRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		share, err := svc.Create(c.UserContext(), service.CreateShareInput{
			DocumentID:     req.DocumentID,
			Mode:           model.ShareMode(req.Mode),
			AllowedPages:   req.AllowedPages,
			RecipientName:  req.RecipientName,
			RecipientEmail: req.RecipientEmail,
			WatermarkText:  req.WatermarkText,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(createShareResponse{
			Token:            share.Token,
			Mode:             share.Mode,
			URL:              ShareURL(baseURL, share.Token),
			VerificationCode: share.VerificationCode,
		})
	}
}

// ListShares returns every share, verification codes included, newest first.
//
// @Summary List shares
// @Tags shares
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.ShareListResult
// @Router /shares [get]
func ListShares(svc service.ShareService) fiber.Handler {
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

// ShareEntry tells the viewer what a share token grants.
//
// @Summary Resolve a share entry
// @Tags access
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} service.EntryDecision
// @Failure 404 {object} errorPayload
// @Router /shares/{token} [get]
func ShareEntry(svc service.AccessService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := svc.ResolveEntry(c.UserContext(), c.Params("token"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(d)
	}
}

// VerifyShare submits the verification code of a browse share.
//
// @Summary Verify a browse share
// @Tags access
// @Accept json
// @Produce json
// @Param token path string true "Share token"
// @Param body body verifyRequest true "Verification code and optional recipient details"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 429 {object} errorPayload
// @Router /shares/{token}/verify [post]
func VerifyShare(svc service.VerificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req verifyRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		err := svc.Submit(c.UserContext(), c.Params("token"), service.VerifyInput{
			Code:  req.Code,
			Name:  req.Name,
			Email: req.Email,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"status": "verified"})
	}
}

// ShareMeta returns share metadata for the viewer.
//
// @Summary Share metadata
// @Tags access
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} service.ShareMeta
// @Failure 404 {object} errorPayload
// @Router /shares/{token}/meta [get]
func ShareMeta(svc service.AccessService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		meta, err := svc.ResolveMeta(c.UserContext(), c.Params("token"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(meta)
	}
}

// ShareFile streams the shared PDF inline.
//
// @Summary Download the shared PDF
// @Tags access
// @Produce application/pdf
// @Param token path string true "Share token"
// @Success 200 {file} binary
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /shares/{token}/file [get]
func ShareFile(svc service.AccessService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		file, err := svc.ResolveFile(c.UserContext(), c.Params("token"))
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentType, file.ContentType)
		c.Set(fiber.HeaderContentDisposition, inlineDisposition(file.Filename))
		// fasthttp closes Body once the response is written.
		size := int(file.Size)
		if file.Size <= 0 {
			size = -1
		}
		return c.SendStream(file.Body, size)
	}
}

// inlineDisposition renders Content-Disposition for filename. Plain ASCII names
// are quoted as is; anything else goes through RFC 2231 encoding.
func inlineDisposition(filename string) string {
	if filename == "" {
		filename = "document.pdf"
	}
	if isPlainASCII(filename) {
		return `inline; filename="` + filename + `"`
	}
	if v := mime.FormatMediaType("inline", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return `inline; filename="document.pdf"`
}

func isPlainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e || s[i] == '"' || s[i] == '\\' {
			return false
		}
	}
	return true
}
