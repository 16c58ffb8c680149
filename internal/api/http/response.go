package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/planflow-backend/internal/apperrors"
)

// StatusFor maps an error kind to an HTTP status code.
func StatusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotAuthenticated:
		return http.StatusUnauthorized
	case apperrors.KindAccessDenied:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err in the standard error envelope.
func WriteError(c *gin.Context, err error) {
	c.JSON(StatusFor(err), gin.H{
		"ok":    false,
		"error": err.Error(),
		"kind":  apperrors.KindOf(err).String(),
	})
}

// AbortWithError writes err and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	WriteError(c, err)
	c.Abort()
}
