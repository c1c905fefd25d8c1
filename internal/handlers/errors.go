package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errInvalidID = apperr.Validation("invalid id")

// respondError writes the status that matches err's kind. Unknown errors are
// logged and hidden behind a generic 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var (
		ve *apperr.ValidationError
		nf *apperr.NotFoundError
		ce *apperr.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	case errors.As(err, &ce):
		c.JSON(http.StatusBadRequest, gin.H{"error": ce.Message})
	default:
		_ = c.Error(err)
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// respondClientError reports any failure other than a missing entity as a 400
// carrying its message.
func respondClientError(c *gin.Context, err error) {
	if apperr.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}
