package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sevennguyen07/task-management/internal/pkg/apperr"
)

// respondError 是所有处理函数共用的错误出口。
//
// 业务错误按类别映射状态码；非预期错误在生产环境统一兜底为 500，
// 非生产环境附带底层细节。
func (s *Server) respondError(c *gin.Context, err error) {
	e := apperr.As(err)
	operational := e != nil && e.Kind != apperr.KindInternal

	status := http.StatusInternalServerError
	message := "Something went wrong!"
	if e != nil {
		status = e.Status()
	}
	if operational {
		message = e.Message
	} else if s.cfg.App.Env != "production" {
		message = err.Error()
	}

	body := gin.H{"code": status, "message": message}
	if s.cfg.App.Env == "development" {
		body["stack"] = err.Error()
	}

	if !operational && s.logger != nil {
		s.logger.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
	}

	c.JSON(status, body)
}
