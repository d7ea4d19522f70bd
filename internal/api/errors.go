package api

import (
	"net/http"
	"strconv"

	"faceauth/internal/entity/dto"
	"faceauth/internal/service"

	"github.com/gin-gonic/gin"
)

// 会话相关错误码
const (
	ErrCodeInvalidRequest = "ERR_INVALID_REQUEST"
	ErrCodeUnauthorized   = "ERR_UNAUTHORIZED"
	ErrCodeForbidden      = "ERR_FORBIDDEN"
	ErrCodeInternalError  = "ERR_INTERNAL_ERROR"
	ErrCodeSessionExpired = "ERR_SESSION_EXPIRED"
	ErrCodeUserNotFound   = "ERR_USER_NOT_FOUND"
)

// retryAfterSeconds is advertised when the extraction pool turns a request away.
const retryAfterSeconds = 2

// APIError 会话接口使用的错误响应结构
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse 返回统一格式的错误响应
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
	})
}

// BadRequest 400 错误请求
func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidRequest, message)
}

// Forbidden 403 禁止访问
func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, ErrCodeForbidden, message)
}

// InternalError 500 服务器内部错误
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// HTTPStatus 将业务错误码映射为 HTTP 状态码
func HTTPStatus(err *service.Error) int {
	if err == nil {
		return http.StatusOK
	}
	switch err.Code {
	case service.CodeIncompleteInput:
		return http.StatusBadRequest
	case service.CodeInvalidPassword:
		return http.StatusUnauthorized
	case service.CodeUserNotFound:
		return http.StatusNotFound
	case service.CodeAlreadyEnrolled:
		return http.StatusConflict
	case service.CodeNoFaceDetected, service.CodeNoTemplate:
		return http.StatusUnprocessableEntity
	}
	if err.Busy {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// envelopeFor 将 service 返回的错误转换为响应信封，非业务错误按内部错误处理
func envelopeFor(err error) (int, dto.Envelope) {
	svcErr, ok := service.AsError(err)
	if !ok {
		svcErr = &service.Error{Code: service.CodeInternalError, Message: "Terjadi kesalahan pada server", Retryable: true, Err: err}
	}
	return HTTPStatus(svcErr), dto.Envelope{
		Status:  dto.StatusError,
		Message: svcErr.Message,
		Code:    string(svcErr.Code),
		Sample:  svcErr.Sample,
	}
}

// writeServiceError 输出错误信封，提取池繁忙时附带 Retry-After
func writeServiceError(c *gin.Context, err error) {
	status, envelope := envelopeFor(err)
	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	c.JSON(status, envelope)
}
