// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"
	"io"

	"mana-universe-api/internal/interfaces/http/dto"
	"mana-universe-api/internal/interfaces/http/middleware"
	apperrors "mana-universe-api/pkg/errors"
	"mana-universe-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// respondError 将应用错误映射为统一错误响应
func respondError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	appErr := apperrors.AsAppError(err)

	status := appErr.HTTPStatus
	if status == 0 {
		status = 500
	}
	if status >= 500 {
		logger.Error(ctx, "request failed", err, "path", c.FullPath(), "code", string(appErr.Code))
	} else {
		logger.Warn(ctx, "request rejected", "path", c.FullPath(), "code", string(appErr.Code), "error", err.Error())
	}

	public := *appErr
	public.HTTPStatus = status
	// 5xx 只暴露上游错误的详情
	if status >= 500 && appErr.Code != apperrors.CodeProviderError {
		public.Detail = ""
	}
	if appErr.Code == apperrors.CodeUnknown {
		public.Message = "internal server error"
	}
	dto.AppError(c, &public)
}

// bindJSON 绑定请求体，失败时已写出 400 响应
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		dto.AppError(c, apperrors.ErrInvalidParam.WithDetail("invalid request body: "+err.Error()))
		return false
	}
	return true
}

// bindOptionalJSON 允许空请求体
func bindOptionalJSON(c *gin.Context, req any) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		dto.AppError(c, apperrors.ErrInvalidParam.WithDetail("invalid request body: "+err.Error()))
		return false
	}
	return true
}

// currentUser 返回认证用户，缺失时写出 401
func currentUser(c *gin.Context) (string, bool) {
	userID := middleware.GetUserIDFromGin(c)
	if userID == "" {
		dto.AppError(c, apperrors.ErrUnauthorized)
		return "", false
	}
	return userID, true
}
