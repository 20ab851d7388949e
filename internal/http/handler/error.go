package handler

import (
	"github.com/gofiber/fiber/v2"

	"attachapi/internal/classifier"
	"attachapi/internal/form"
	"attachapi/internal/http/middleware"
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

// formErrorPayload is returned when a submission fails validation. It echoes
// the submitted values so a client can redisplay the form.
type formErrorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
	Form      formEcho      `json:"form"`
	Fields    form.Errors   `json:"fields"`
	// Accepted lists the file extensions an upload may carry.
	Accepted []string `json:"accepted_extensions"`
}

type formEcho struct {
	Variant     form.Variant `json:"variant"`
	Description string       `json:"description"`
	Tag         string       `json:"tag,omitempty"`
	Attachment  string       `json:"attachment,omitempty"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

func writeFormErrors(c *fiber.Ctx, v form.Variant, in form.Input, errs form.Errors) error {
	echo := formEcho{Variant: v, Description: in.Description, Tag: in.Tag}
	if in.File != nil {
		echo.Attachment = in.File.Name
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(formErrorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error: errorEnvelope{
			Code:    "VALIDATION_FAILED",
			Message: "the submitted form is invalid",
		},
		Form:     echo,
		Fields:   errs,
		Accepted: classifier.Extensions(),
	})
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
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
		case fiber.StatusUnprocessableEntity:
			return writeError(c, status, "UNPROCESSABLE_ENTITY", "unprocessable entity")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
