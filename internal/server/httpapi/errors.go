package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/sbts/internal/common"
	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrReadStream):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrObjectStore):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status code. Internal details are only exposed
// for client errors.
func writeError(c *gin.Context, err error) {
	code := statusFor(err)
	_ = c.Error(err)

	msg := http.StatusText(code)
	if code == http.StatusBadRequest {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}
