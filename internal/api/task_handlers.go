package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sevennguyen07/task-management/internal/api/middleware"
	"github.com/sevennguyen07/task-management/internal/model"
	"github.com/sevennguyen07/task-management/internal/pkg/apperr"
)

type createTaskRequest struct {
	Title       string  `json:"title" binding:"required,min=3"`
	Description *string `json:"description" binding:"omitempty,min=3"`
}

type updateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=3"`
	Description *string `json:"description" binding:"omitempty,min=3"`
	Completed   *bool   `json:"completed"`
}

type taskResponse struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	OwnerID     uint    `json:"ownerId"`
}

func makeTaskResponse(t *model.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		OwnerID:     t.OwnerID,
	}
}

// handleCreateTask 创建任务。
//
// POST /v1/users/tasks
func (s *Server) handleCreateTask(c *gin.Context) {
	logged := middleware.CurrentUser(c)

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, validationError(bindingViolations(err)))
		return
	}

	task := &model.Task{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     logged.ID,
	}
	if err := s.tasks.Create(c.Request.Context(), task); err != nil {
		s.respondError(c, apperr.Internal(err))
		return
	}

	c.JSON(http.StatusCreated, makeTaskResponse(task))
}

// handleListTasks 列出当前用户的全部任务。
//
// GET /v1/users/tasks
func (s *Server) handleListTasks(c *gin.Context) {
	logged := middleware.CurrentUser(c)

	tasks, err := s.tasks.ListByOwner(c.Request.Context(), logged.ID)
	if err != nil {
		s.respondError(c, apperr.Internal(err))
		return
	}

	resp := []taskResponse{} // 保证空列表序列化为 [] 而不是 null
	for i := range tasks {
		resp = append(resp, makeTaskResponse(&tasks[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// handleGetTask 按 ID 返回当前用户的任务。
//
// GET /v1/users/tasks/:id
//
// 记录属于他人时与不存在时的返回完全一致。
func (s *Server) handleGetTask(c *gin.Context) {
	logged := middleware.CurrentUser(c)

	id, err := parseIDParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	task, err := s.tasks.FindByIDAndOwner(c.Request.Context(), id, logged.ID)
	if err != nil {
		s.respondError(c, apperr.Internal(err))
		return
	}
	if task == nil {
		s.respondError(c, apperr.NotFound("Not found."))
		return
	}

	c.JSON(http.StatusOK, makeTaskResponse(task))
}

// handleUpdateTask 更新当前用户的任务。
//
// PATCH /v1/users/tasks/:id
func (s *Server) handleUpdateTask(c *gin.Context) {
	logged := middleware.CurrentUser(c)

	id, err := parseIDParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, validationError(bindingViolations(err)))
		return
	}
	if req.Title == nil && req.Description == nil && req.Completed == nil {
		s.respondError(c, validationError([]string{"body must have at least 1 key"}))
		return
	}

	task, err := s.tasks.FindByIDAndOwner(c.Request.Context(), id, logged.ID)
	if err != nil {
		s.respondError(c, apperr.Internal(err))
		return
	}
	if task == nil {
		s.respondError(c, apperr.NotFound("Not found."))
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Completed != nil {
		updates["completed"] = *req.Completed
	}

	updated, err := s.tasks.Update(c.Request.Context(), id, logged.ID, updates)
	if err != nil {
		s.respondError(c, apperr.Internal(err))
		return
	}
	if updated == nil {
		s.respondError(c, apperr.NotFound("Not found."))
		return
	}

	c.JSON(http.StatusOK, makeTaskResponse(updated))
}

// handleDeleteTask 删除当前用户的任务。
//
// DELETE /v1/users/tasks/:id
func (s *Server) handleDeleteTask(c *gin.Context) {
	logged := middleware.CurrentUser(c)

	id, err := parseIDParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	task, err := s.tasks.FindByIDAndOwner(c.Request.Context(), id, logged.ID)
	if err != nil {
		s.respondError(c, apperr.Internal(err))
		return
	}
	if task == nil {
		s.respondError(c, apperr.NotFound("Not found."))
		return
	}

	if err := s.tasks.Delete(c.Request.Context(), id, logged.ID); err != nil {
		s.respondError(c, apperr.Internal(err))
		return
	}

	c.Status(http.StatusNoContent)
}
