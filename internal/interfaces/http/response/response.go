package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
	"nft-launchpad.backend/pkg/logger"
)

// Success sends {success: true, data}.
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// SuccessWith sends {success: true} merged with fields, for envelopes that
// carry siblings of data such as count or collection.
func SuccessWith(c *gin.Context, status int, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

// NotIntrospectable is the collection-level failure envelope. It is a 200
// so clients can tell it apart from transport failures.
func NotIntrospectable(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": false,
		"error":   domainerrors.ErrCollectionNotIntrospectable.Error(),
		"data":    []interface{}{},
	})
}

// Error maps err to a status and the {success: false, error, code} envelope.
// Anything unrecognised becomes a generic 500 and is logged.
func Error(c *gin.Context, err error) {
	if errors.Is(err, domainerrors.ErrCollectionNotIntrospectable) {
		NotIntrospectable(c)
		return
	}

	appErr := toAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(appErr.Status, gin.H{
		"success": false,
		"code":    appErr.Code,
		"error":   appErr.Message,
	})
}

// ErrorWithError sends an error response with a specific status and message.
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"code":    code,
		"error":   message,
	})
}

func toAppError(err error) *domainerrors.AppError {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, domainerrors.ErrInvalidInput), errors.Is(err, domainerrors.ErrBadRequest):
		return domainerrors.BadRequest(err.Error())
	case errors.Is(err, domainerrors.ErrNotFound):
		return domainerrors.NotFound(err.Error())
	case errors.Is(err, domainerrors.ErrAlreadyExists):
		return domainerrors.Conflict(err.Error())
	case errors.Is(err, domainerrors.ErrUnauthorized):
		return domainerrors.Unauthorized(err.Error())
	case errors.Is(err, domainerrors.ErrForbidden):
		return domainerrors.Forbidden(err.Error())
	case errors.Is(err, domainerrors.ErrMarketplaceNotConfigured):
		return domainerrors.NewAppError(http.StatusServiceUnavailable, domainerrors.CodeInternalError, err.Error(), err)
	}
	return domainerrors.InternalError(err)
}
