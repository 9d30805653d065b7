// Package httpapi exposes the catalog services over HTTP. Handlers bind
// JSON/multipart input, call into the service layer and translate sentinel
// errors to status codes; they never leak internal error detail to clients.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/movievault/internal/common"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// respondServiceError maps the shared error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorIDMismatch):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		respondError(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrorNotFound):
		respondError(c, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		respondError(c, http.StatusConflict, "already exists")
	default:
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}
