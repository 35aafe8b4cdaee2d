// Package errors 提供统一的错误定义
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误 (1xxx)
	CodeSuccess            ErrorCode = "0"
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeUnauthorized       ErrorCode = "1002"
	CodeForbidden          ErrorCode = "1003"
	CodeNotFound           ErrorCode = "1004"
	CodeConflict           ErrorCode = "1005"
	CodeTooManyRequests    ErrorCode = "1006"
	CodeInternalError      ErrorCode = "1007"
	CodeServiceUnavailable ErrorCode = "1008"

	// 认证授权错误 (2xxx)
	CodeTokenExpired        ErrorCode = "2001"
	CodeTokenInvalid        ErrorCode = "2002"
	CodeTokenMissing        ErrorCode = "2003"
	CodeAuthorizationDenied ErrorCode = "2004"

	// 资源错误 (3xxx)
	CodeUniverseNotFound ErrorCode = "3001"
	CodeTemplateNotFound ErrorCode = "3002"
	CodeDraftNotFound    ErrorCode = "3003"
	CodeUserNotFound     ErrorCode = "3004"
	CodeShareNotFound    ErrorCode = "3005"

	// 业务错误 (4xxx)
	CodeTemplateMissing ErrorCode = "4001"
	CodeShareWithOwner  ErrorCode = "4002"
	CodeLastTemplate    ErrorCode = "4003"

	// 外部服务错误 (5xxx)
	CodePersistenceError ErrorCode = "5001"
	CodeCacheError       ErrorCode = "5002"
	CodeProviderError    ErrorCode = "5005"
)

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，使包装后的错误仍能匹配预定义错误
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetail 返回附带详细信息的副本
func (e *AppError) WithDetail(detail string) *AppError {
	cp := *e
	cp.Detail = detail
	return &cp
}

// WithError 返回附带底层错误的副本
func (e *AppError) WithError(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus 错误码转 HTTP 状态码
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam, CodeShareWithOwner:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeTokenExpired, CodeTokenInvalid, CodeTokenMissing:
		return http.StatusUnauthorized
	case CodeForbidden, CodeAuthorizationDenied:
		return http.StatusForbidden
	case CodeNotFound, CodeUniverseNotFound, CodeTemplateNotFound, CodeDraftNotFound, CodeUserNotFound, CodeShareNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeLastTemplate:
		return http.StatusConflict
	case CodeTemplateMissing:
		return http.StatusUnprocessableEntity
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeProviderError:
		return http.StatusBadGateway
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// 预定义错误
var (
	ErrInvalidParam       = New(CodeInvalidParam, "invalid parameter")
	ErrUnauthorized       = New(CodeUnauthorized, "unauthorized")
	ErrForbidden          = New(CodeForbidden, "forbidden")
	ErrNotFound           = New(CodeNotFound, "resource not found")
	ErrConflict           = New(CodeConflict, "resource conflict")
	ErrTooManyRequests    = New(CodeTooManyRequests, "too many requests")
	ErrInternalError      = New(CodeInternalError, "internal server error")
	ErrServiceUnavailable = New(CodeServiceUnavailable, "service unavailable")

	ErrTokenExpired = New(CodeTokenExpired, "token expired")
	ErrTokenInvalid = New(CodeTokenInvalid, "token invalid")
	ErrTokenMissing = New(CodeTokenMissing, "token missing")

	ErrAuthorizationDenied = New(CodeAuthorizationDenied, "authorization denied")

	ErrUniverseNotFound = New(CodeUniverseNotFound, "universe not found")
	ErrTemplateNotFound = New(CodeTemplateNotFound, "prompt template not found")
	ErrDraftNotFound    = New(CodeDraftNotFound, "generation draft not found or expired")
	ErrUserNotFound     = New(CodeUserNotFound, "user not found")
	ErrShareNotFound    = New(CodeShareNotFound, "share not found")

	ErrTemplateMissing = New(CodeTemplateMissing, "prompt template is missing or empty")
	ErrShareWithOwner  = New(CodeShareWithOwner, "cannot share a universe with its owner")
	ErrLastTemplate    = New(CodeLastTemplate, "cannot delete the last prompt template")

	ErrPersistence = New(CodePersistenceError, "failed to save universe content")
)

// ProviderError 模型服务调用失败
type ProviderError struct {
	// StatusCode 上游 HTTP 状态码，传输层错误时为 0
	StatusCode int
	Body       string
	Err        error
}

// Error 实现 error 接口
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider error (status %d): %s", e.StatusCode, e.Body)
	}
	if e.Err != nil {
		return fmt.Sprintf("provider error: %v", e.Err)
	}
	return fmt.Sprintf("provider error: %s", e.Body)
}

// Unwrap 返回底层错误
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// AsProviderError 提取 ProviderError
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if stderrors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// Persistence 包装存储失败
func Persistence(err error) *AppError {
	return ErrPersistence.WithError(err)
}

// IsAppError 检查是否为 AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	if pe, ok := AsProviderError(err); ok {
		return Wrap(pe, CodeProviderError, "completion provider request failed").WithDetail(pe.Error())
	}
	return Wrap(err, CodeUnknown, "unknown error")
}

// Is 同标准库 errors.Is
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As 同标准库 errors.As
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
