// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"net/http"

	apperrors "mana-universe-api/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response[T any] struct {
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Data    T         `json:"data,omitempty"`
	Meta    *PageMeta `json:"meta,omitempty"`
	TraceID string    `json:"trace_id,omitempty"`
}

// PageMeta 分页元数据
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ErrorDetail 错误详情
type ErrorDetail struct {
	ErrorCode string `json:"error_code,omitempty"`
	Details   string `json:"details,omitempty"`
}

// ErrorResponse 错误响应结构，处理器与中间件共用
type ErrorResponse struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Error   *ErrorDetail `json:"error,omitempty"`
	TraceID string       `json:"trace_id,omitempty"`
}

// Success 返回成功响应
func Success[T any](c *gin.Context, data T) {
	c.JSON(http.StatusOK, Response[T]{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
		TraceID: c.GetString("trace_id"),
	})
}

// SuccessWithPage 返回带分页的成功响应
func SuccessWithPage[T any](c *gin.Context, data T, meta *PageMeta) {
	c.JSON(http.StatusOK, Response[T]{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
		Meta:    meta,
		TraceID: c.GetString("trace_id"),
	})
}

// Created 返回 201
func Created[T any](c *gin.Context, data T) {
	c.JSON(http.StatusCreated, Response[T]{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
		TraceID: c.GetString("trace_id"),
	})
}

// NoContent 返回 204
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// NewErrorResponse 由应用错误构造错误响应，返回响应体与状态码
func NewErrorResponse(c *gin.Context, appErr *apperrors.AppError) (int, ErrorResponse) {
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return status, ErrorResponse{
		Code:    status,
		Message: appErr.Message,
		Error:   &ErrorDetail{ErrorCode: string(appErr.Code), Details: appErr.Detail},
		TraceID: c.GetString("trace_id"),
	}
}

// AppError 写出应用错误
func AppError(c *gin.Context, appErr *apperrors.AppError) {
	status, body := NewErrorResponse(c, appErr)
	c.JSON(status, body)
}

// AbortWithAppError 写出应用错误并终止后续处理
func AbortWithAppError(c *gin.Context, appErr *apperrors.AppError) {
	status, body := NewErrorResponse(c, appErr)
	c.AbortWithStatusJSON(status, body)
}

// NewPageMeta 创建分页元数据
func NewPageMeta(page, pageSize, total int) *PageMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return &PageMeta{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
