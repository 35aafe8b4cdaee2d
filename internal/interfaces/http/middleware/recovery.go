package middleware

import (
	"fmt"
	"runtime/debug"

	apperrors "mana-universe-api/pkg/errors"
	"mana-universe-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery 捕获处理器 panic，记录堆栈并返回 500
// 生成与保存可能在 panic 前已写出部分响应，此时只记录日志
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			logger.Error(c.Request.Context(), "panic recovered",
				fmt.Errorf("%v", rec),
				"stack", string(debug.Stack()),
				"route", c.FullPath(),
				"method", c.Request.Method,
			)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			abortWithError(c, apperrors.ErrInternalError)
		}()

		c.Next()
	}
}
