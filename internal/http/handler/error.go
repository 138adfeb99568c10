package handler

import (
	"errors"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"pdfshare/internal/http/middleware"
	"pdfshare/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps a service error onto the client-facing envelope.
// Order matters: specific validation sentinels wrap ErrValidation.
func writeServiceError(c *fiber.Ctx, err error) error {
	var exceeded *service.AttemptsExceededError
	switch {
	case errors.As(err, &exceeded):
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(exceeded.RetryAfter.Seconds()))))
		return writeError(c, fiber.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "too many verification attempts")
	case errors.Is(err, service.ErrTooManyAttempts):
		return writeError(c, fiber.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "too many verification attempts")
	case errors.Is(err, service.ErrNotPDF):
		return writeError(c, fiber.StatusBadRequest, "INVALID_FILE_TYPE", "only PDF uploads are allowed")
	case errors.Is(err, service.ErrInvalidCode):
		return writeError(c, fiber.StatusBadRequest, "INVALID_CODE", "invalid verification code")
	case errors.Is(err, service.ErrInvalidMode):
		return writeError(c, fiber.StatusBadRequest, "VERIFICATION_NOT_REQUIRED", "verification not required")
	case errors.Is(err, service.ErrValidation):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrForbidden):
		return writeError(c, fiber.StatusForbidden, "VERIFICATION_REQUIRED", "verification required")
	case errors.Is(err, service.ErrTokenConflict):
		return writeError(c, fiber.StatusConflict, "TOKEN_CONFLICT", "share token collision, retry the request")
	case errors.Is(err, service.ErrUnavailable):
		return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
