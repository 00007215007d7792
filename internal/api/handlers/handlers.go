package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/procurehq/lpoflow/internal/api/middleware"
	"github.com/procurehq/lpoflow/internal/domain"
)

// respondError maps domain errors to HTTP status codes and emits the
// uniform {"error": ...} body.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrVendorInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCascadePartial):
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("cascade delete left partial state")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete did not complete cleanly"})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// currentUser returns the user resolved by the auth middleware.
func currentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(middleware.ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}
