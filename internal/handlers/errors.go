package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/devtorquato/studio-api/internal/models"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends the API's uniform error shape and attaches the cause to
// the gin context for the request log. The wire body only ever carries the
// stable error code, never internal detail.
func respondError(c *gin.Context, status int, code string, err error) {
	attachError(c, err)
	c.JSON(status, models.ContactResponse{OK: false, Error: code})
}

// respondInvalidPayload sends the validation error shape with per-field issues.
func respondInvalidPayload(c *gin.Context, status int, issues map[string][]string) {
	c.JSON(status, models.ContactResponse{
		OK:     false,
		Error:  models.ErrCodeInvalidPayload,
		Issues: issues,
	})
}
