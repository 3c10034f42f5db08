package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// MaxHandleLen bounds channel handle length; YouTube handles are 3-30
// characters, padded a little for legacy names.
const MaxHandleLen = 64

// handleRe matches YouTube channel handles (without the leading @).
var handleRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateHandle checks that a channel handle is well-formed and returns it
// normalized to the @handle form. The second return value is an error
// message, empty on success.
func ValidateHandle(handle string) (string, string) {
	handle = strings.TrimSpace(handle)
	handle = strings.TrimPrefix(handle, "@")
	if handle == "" {
		return "", "handle is required"
	}
	if len(handle) > MaxHandleLen {
		return "", "handle must be at most 64 characters"
	}
	if !handleRe.MatchString(handle) {
		return "", "handle contains invalid characters"
	}
	return "@" + handle, ""
}
