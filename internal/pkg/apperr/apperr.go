// Package apperr 定义业务错误类型。
//
// 所有可预期的业务失败（校验、鉴权、未找到等）都用带 Kind 的 *Error 表达，
// 由 API 层统一映射为 HTTP 状态码；未包装的错误视为非预期错误，
// 在生产环境中以通用文案兜底返回。
package apperr

import (
	"errors"
	"net/http"
)

// Kind 是封闭的错误类别集合。
type Kind int

const (
	KindValidation Kind = iota // 入参校验失败
	KindBadRequest             // 其他客户端错误（如邮箱已占用）
	KindUnauthorized
	KindNotFound
	KindInternal
)

// Error 携带错误类别与面向客户端的文案。
type Error struct {
	Kind    Kind
	Message string
	Err     error // 底层原因，可为 nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status 返回该类别对应的 HTTP 状态码。
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Validation 构造校验错误。
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// BadRequest 构造客户端错误。
func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

// Unauthorized 构造鉴权错误。
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// NotFound 构造未找到错误。
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Internal 包装非预期错误，统一对外文案。
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Something went wrong!", Err: err}
}

// As 提取业务错误，失败返回 nil。
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
