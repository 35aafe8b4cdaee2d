package middleware

import (
	"mana-universe-api/internal/interfaces/http/dto"
	apperrors "mana-universe-api/pkg/errors"

	"github.com/gin-gonic/gin"
)

// abortWithError 以与处理器一致的错误结构终止请求
func abortWithError(c *gin.Context, appErr *apperrors.AppError) {
	dto.AbortWithAppError(c, appErr)
}
