package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orbitpm/orbitpm/internal/apperrors"
	"go.uber.org/zap"
)

// RespondError writes the HTTP response for a failed operation. Taxonomy
// errors surface their message with the mapped status; anything else is an
// internal fault and is logged, not leaked.
func RespondError(ctx *gin.Context, err error) {
	kind := apperrors.KindOf(err)

	if kind == apperrors.KindInternal {
		zap.L().Error("internal error",
			zap.String("path", ctx.FullPath()),
			zap.String("method", ctx.Request.Method),
			zap.Error(err),
		)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(apperrors.HTTPStatus(kind), gin.H{"error": err.Error()})
}
