package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse sends the standard error body.
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(ErrorResponseStruct{
		Status:    status,
		Message:   message,
		Ok:        false,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		URL:       c.OriginalURL(),
		Type:      errorType,
	})
}

// NotFoundResponse sends a 404 for unknown routes.
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusNotFound, "not_found")
}

// MessageResponse sends a plain {"message": ...} body.
func MessageResponse(c *fiber.Ctx, message string, status int) error {
	return c.Status(status).JSON(MessageResponseStruct{Message: message})
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Ok        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
	Type      string `json:"type,omitempty"`
}

// MessageResponseStruct defines the schema for deletions and other
// acknowledgements
type MessageResponseStruct struct {
	Message string `json:"message"`
}
