package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// Field length limits matching database schema constraints.
const (
	MinUsernameLen = 3
	MaxUsernameLen = 32 // users.username VARCHAR(32)
	MinPasswordLen = 8
	MaxPasswordLen = 72 // bcrypt input limit
	MaxGenreLen    = 64
	MaxGenres      = 20
	MaxCommentLen  = 2000
)

// usernameRe matches account names: letters, digits, underscore, dash.
var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateID checks that an entity id is a well-formed UUID.
func ValidateID(id, field string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", field + " is required"
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", field + " must be a valid UUID"
	}
	return parsed.String(), ""
}

// ValidateUsername checks that a username is well-formed and within DB limits.
func ValidateUsername(username string) (string, string) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", "username is required"
	}
	if len(username) < MinUsernameLen || len(username) > MaxUsernameLen {
		return "", "username must be 3-32 characters"
	}
	if !usernameRe.MatchString(username) {
		return "", "username contains invalid characters"
	}
	return username, ""
}

// ValidatePassword enforces password length bounds.
func ValidatePassword(password string) string {
	if len(password) < MinPasswordLen {
		return "password must be at least 8 characters"
	}
	if len(password) > MaxPasswordLen {
		return "password must be at most 72 characters"
	}
	return ""
}

// ValidateGenres trims genre labels and rejects empty or oversized
// lists. Duplicates are not rejected; the list carries set semantics
// downstream.
func ValidateGenres(genres []string) ([]string, string) {
	if len(genres) > MaxGenres {
		return nil, "at most 20 genres are allowed"
	}
	cleaned := make([]string, 0, len(genres))
	for _, g := range genres {
		g = strings.TrimSpace(g)
		if g == "" {
			return nil, "genre labels must not be empty"
		}
		if len(g) > MaxGenreLen {
			return nil, "genre labels must be at most 64 characters"
		}
		cleaned = append(cleaned, g)
	}
	return cleaned, ""
}

// ValidateComment trims and truncates a review comment to DB limits.
func ValidateComment(comment string) string {
	comment = strings.TrimSpace(comment)
	if len(comment) > MaxCommentLen {
		comment = comment[:MaxCommentLen]
	}
	return comment
}
