package server

import (
	"errors"
	"strings"
	"unicode"

	"whiskaway/internal/middleware"
	"whiskaway/internal/models"
	"whiskaway/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	maxPaginationLimit = 100

	// localAccount holds the *models.Account loaded by AccountRequired.
	localAccount = "account"
)

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseBody decodes the JSON body into dst and runs struct validation.
// On failure it writes a 400 response and returns errResponseWritten.
func (s *Server) parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	if err := s.validate.Struct(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(validation.Describe(err)))
		return errResponseWritten
	}
	return nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "profileId" -> "profile ID", "otherProfileId" -> "other profile ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		words := splitCamel(param[:len(param)-2])
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

func currentAccountID(c *fiber.Ctx) uint {
	id, _ := c.Locals(middleware.LocalAccountID).(uint)
	return id
}

func currentProfileID(c *fiber.Ctx) uint {
	id, _ := c.Locals(middleware.LocalProfileID).(uint)
	return id
}

func currentUsername(c *fiber.Ctx) string {
	name, _ := c.Locals(middleware.LocalUsername).(string)
	return name
}

// requireSelf rejects identity fields that name someone other than the caller.
func requireSelf(c *fiber.Ctx, claimed uint) error {
	if claimed != currentProfileID(c) {
		_ = models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only act on your own behalf"))
		return errResponseWritten
	}
	return nil
}

// requireSelfParam applies requireSelf to a profile id route parameter.
func (s *Server) requireSelfParam(c *fiber.Ctx, param string) (uint, error) {
	id, err := s.parseID(c, param)
	if err != nil {
		return 0, err
	}
	if err := requireSelf(c, id); err != nil {
		return 0, err
	}
	return id, nil
}
