package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sevennguyen07/task-management/internal/api/middleware"
	"github.com/sevennguyen07/task-management/internal/auth"
	"github.com/sevennguyen07/task-management/internal/model"
	"github.com/sevennguyen07/task-management/internal/pkg/apperr"
)

type createUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=3"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required"`
}

type updateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=3"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password"`
}

// handleCreateUser 注册新用户。
//
// POST /v1/users
func (s *Server) handleCreateUser(c *gin.Context) {
	var req createUserRequest
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

	taken, err := s.users.EmailTaken(c.Request.Context(), req.Email)
	if err != nil {
		s.respondError(c, apperr.Internal(err))
		return
	}
	if taken {
		s.respondError(c, apperr.BadRequest("Email already taken"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.respondError(c, apperr.Internal(err))
		return
	}

	user := &model.User{
		Email:    req.Email,
		Name:     req.Name,
		Password: hash,
	}
	if err := s.users.Create(c.Request.Context(), user); err != nil {
		s.respondError(c, apperr.Internal(err))
		return
	}

	c.JSON(http.StatusCreated, makeUserResponse(user))
}

// handleGetMe 返回当前用户。
//
// GET /v1/users/me
func (s *Server) handleGetMe(c *gin.Context) {
	logged := middleware.CurrentUser(c)

	user, err := s.users.FindByID(c.Request.Context(), logged.ID)
	if err != nil {
		s.respondError(c, apperr.Internal(err))
		return
	}
	if user == nil {
		s.respondError(c, apperr.NotFound("Not found."))
		return
	}

	c.JSON(http.StatusOK, makeUserResponse(user))
}

// handleUpdateMe 更新当前用户资料。
//
// PATCH /v1/users/me
func (s *Server) handleUpdateMe(c *gin.Context) {
	logged := middleware.CurrentUser(c)

	var req updateUserRequest
	var msgs []string
	if err := c.ShouldBindJSON(&req); err != nil {
		msgs = append(msgs, bindingViolations(err)...)
	}
	if req.Password != nil {
		msgs = append(msgs, passwordViolations(*req.Password)...)
	}
	if len(msgs) > 0 {
		s.respondError(c, validationError(msgs))
		return
	}
	if req.Name == nil && req.Email == nil && req.Password == nil {
		s.respondError(c, validationError([]string{"body must have at least 1 key"}))
		return
	}

	current, err := s.users.FindByID(c.Request.Context(), logged.ID)
	if err != nil {
		s.respondError(c, apperr.Internal(err))
		return
	}
	if current == nil {
		s.respondError(c, apperr.NotFound("Not found."))
		return
	}

	updates := map[string]interface{}{}
	if req.Email != nil {
		if *req.Email != current.Email {
			taken, err := s.users.EmailTaken(c.Request.Context(), *req.Email)
			if err != nil {
				s.respondError(c, apperr.Internal(err))
				return
			}
			if taken {
				s.respondError(c, apperr.BadRequest("Email already taken"))
				return
			}
		}
		updates["email"] = *req.Email
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			s.respondError(c, apperr.Internal(err))
			return
		}
		updates["password"] = hash
	}

	if err := s.users.Update(c.Request.Context(), current.ID, updates); err != nil {
		s.respondError(c, apperr.Internal(err))
		return
	}

	updated, err := s.users.FindByID(c.Request.Context(), current.ID)
	if err != nil {
		s.respondError(c, apperr.Internal(err))
		return
	}
	if updated == nil {
		s.respondError(c, apperr.NotFound("Not found."))
		return
	}

	c.JSON(http.StatusOK, makeUserResponse(updated))
}

// handleDeleteMe 注销当前账户，连带删除名下任务与令牌。
//
// DELETE /v1/users/me
func (s *Server) handleDeleteMe(c *gin.Context) {
	logged := middleware.CurrentUser(c)

	user, err := s.users.FindByID(c.Request.Context(), logged.ID)
	if err != nil {
		s.respondError(c, apperr.Internal(err))
		return
	}
	if user == nil {
		s.respondError(c, apperr.NotFound("Not found."))
		return
	}

	if err := s.users.Delete(c.Request.Context(), user.ID); err != nil {
		s.respondError(c, apperr.Internal(err))
		return
	}

	c.Status(http.StatusNoContent)
}
