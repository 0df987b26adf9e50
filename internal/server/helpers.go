package server

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"socialpulse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten signals the helper already wrote an error response;
// the handler should return nil without writing anything further.
var errResponseWritten = errors.New("response already written")

const (
	defaultPaginationLimit = 20
	maxPaginationLimit     = 100
)

// Pagination carries normalized page/limit values parsed from the query string.
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

func parsePagination(c *fiber.Ctx) Pagination {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultPaginationLimit)))
	if err != nil || limit < 1 {
		limit = defaultPaginationLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}
	return Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// parseID extracts a positive integer path parameter, writing a 400 response
// itself when the value is malformed. Callers check against errResponseWritten.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(fmt.Sprintf("Invalid %s", humanizeParam(param))))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam turns a camelCase route param into words for error messages,
// e.g. "commentId" -> "comment id".
func humanizeParam(param string) string {
	var b strings.Builder
	for i, r := range param {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// callerIsAdmin reports whether the authenticated user holds the admin flag.
// Admin status is read from the database, not the token, so revocation takes
// effect immediately.
func (s *Server) callerIsAdmin(c *fiber.Ctx) bool {
	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	return err == nil && user.IsAdmin
}
