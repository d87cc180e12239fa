package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sevennguyen07/task-management/internal/model"
	"github.com/sevennguyen07/task-management/internal/pkg/metrics"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// userResponse 是对外的用户投影，永不包含密码哈希。
type userResponse struct {
	ID    uint    `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

func makeUserResponse(u *model.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

// handleLogin 校验凭证并签发令牌对。
//
// POST /v1/users/login
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	var msgs []string
	if err := c.ShouldBindJSON(&req); err != nil {
		msgs = append(msgs, bindingViolations(err)...)
	}
	if req.Password != "" {
		msgs = append(msgs, passwordViolations(req.Password)...)
	}
	if len(msgs) > 0 {
		s.respondError(c, validationError(msgs))
		return
	}

	user, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginTotal.WithLabelValues("failure").Inc()
		s.respondError(c, err)
		return
	}

	tokens, err := s.auth.IssueAuthPair(c.Request.Context(), user.ID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	metrics.LoginTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{
		"user":   makeUserResponse(user),
		"tokens": tokens,
	})
}

// handleLogout 按出示的刷新令牌注销该用户的全部令牌。
//
// POST /v1/users/logout
func (s *Server) handleLogout(c *gin.Context) {
	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, validationError(bindingViolations(err)))
		return
	}

	if err := s.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		s.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
