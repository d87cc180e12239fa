package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	validator "github.com/go-playground/validator/v10"

	"github.com/sevennguyen07/task-management/internal/pkg/apperr"
)

// bindingViolations 将绑定错误翻译为逐字段文案。
//
// 校验器默认收集全部失败字段，这里逐条转译而不是只报第一条。
func bindingViolations(err error) []string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldViolation(fe))
		}
		return msgs
	}
	return []string{"invalid request body"}
}

func fieldViolation(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

// passwordViolations 校验密码策略：至少 8 位，且同时包含字母与数字。
func passwordViolations(password string) []string {
	var msgs []string
	if len(password) < 8 {
		msgs = append(msgs, "password must be at least 8 characters")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		msgs = append(msgs, "password must contain at least 1 letter and 1 number")
	}
	return msgs
}

// validationError 将全部违规文案合并为一个校验错误。
func validationError(msgs []string) *apperr.Error {
	return apperr.Validation(strings.Join(msgs, ", "))
}

// parseIDParam 解析路径中的数字 ID。
func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apperr.Validation("id must be a number")
	}
	return uint(id), nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
