// internal/interfaces/http/handlers/response.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/pkg/apperr"
)

// respondError maps a service error onto an HTTP response. Domain
// errors carry their own status and a stable machine-readable code;
// anything else is an opaque 500.
func respondError(c *gin.Context, err error) {
	if appErr := apperr.From(err); appErr != nil {
		if !appErr.Expected() {
			// Surfaces in the request log; integrity violations mean a
			// broken schema guarantee, not bad input.
			c.Error(err)
		}
		body := gin.H{
			"error": appErr.Message,
			"code":  appErr.Code,
		}
		if appErr.VariantID != 0 {
			body["variant_id"] = appErr.VariantID
		}
		c.JSON(appErr.HTTPStatus(), body)
		return
	}

	c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
	})
}
