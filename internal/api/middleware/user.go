package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"plumberf/internal/api/errors"
)

const (
	UserIDHeader = "X-User-ID"

	// DefaultUploaderID is used when no X-User-ID header is sent. There is no
	// authentication; the header is trusted as is.
	DefaultUploaderID int64 = 1
)

// UploaderID reads the caller's user id from X-User-ID.
func UploaderID(c *gin.Context) (int64, error) {
	raw := strings.TrimSpace(c.GetHeader(UserIDHeader))
	if raw == "" {
		return DefaultUploaderID, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("Invalid user header",
			map[string]string{"x-user-id": "must be a positive integer"})
	}
	return id, nil
}

// PathID parses a positive integer path parameter.
func PathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewBadRequestError("Invalid " + name)
	}
	return id, nil
}
