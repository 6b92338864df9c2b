package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/taskhub/taskhub-api/internal/application"
	"github.com/taskhub/taskhub-api/internal/domain/entity"
	"github.com/taskhub/taskhub-api/internal/interface/middleware"
	"github.com/taskhub/taskhub-api/pkg/response"
	"github.com/taskhub/taskhub-api/pkg/validation"
)

// dueDateLayout is the calendar-date wire format, both directions.
const dueDateLayout = "2006-01-02"

type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
	Env    string
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger, env string) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger, Env: env}
}

type createTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"omitempty,oneof=todo in-progress done"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     string `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
}

// updateTaskRequest is a partial body. DueDate stays raw so an absent key,
// an explicit null and a date value remain distinguishable.
type updateTaskRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Status      *string         `json:"status" binding:"omitempty,oneof=todo in-progress done"`
	Priority    *string         `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     json.RawMessage `json:"dueDate"`
}

type listTasksQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=todo in-progress done"`
	Priority string `form:"priority" binding:"omitempty,oneof=low medium high"`
	Search   string `form:"search"`
}

// List GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	var q listTasksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, "invalid query", validation.ToDetails(err))
		return
	}

	uid := c.GetString(middleware.CtxUserIDKey)
	tasks, err := h.Svc.List(c.Request.Context(), uid, application.TaskFilter{
		Status:   q.Status,
		Priority: q.Priority,
		Search:   q.Search,
	})
	if err != nil {
		handleServiceError(c, h.Logger, h.Env, err)
		return
	}

	out := make([]gin.H, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskJSON(t))
	}
	response.Success(c, http.StatusOK, gin.H{"tasks": out}, "tasks")
}

// Get GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	t, err := h.Svc.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		handleServiceError(c, h.Logger, h.Env, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"task": taskJSON(t)}, "task")
}

// Create POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, "invalid payload", validation.ToDetails(err))
		return
	}

	in := application.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if req.DueDate != "" {
		due, err := time.Parse(dueDateLayout, req.DueDate)
		if err != nil {
			response.Error(c, http.StatusUnprocessableEntity, "invalid payload",
				[]validation.FieldError{{Field: "dueDate", Message: "must match format " + dueDateLayout}})
			return
		}
		in.DueDate = &due
	}

	uid := c.GetString(middleware.CtxUserIDKey)
	t, err := h.Svc.Create(c.Request.Context(), uid, in)
	if err != nil {
		handleServiceError(c, h.Logger, h.Env, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"task": taskJSON(t)}, "task created")
}

// Update PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, "invalid payload", validation.ToDetails(err))
		return
	}

	in := application.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if len(req.DueDate) > 0 {
		in.DueDateSet = true
		if !bytes.Equal(req.DueDate, []byte("null")) {
			var s string
			if err := json.Unmarshal(req.DueDate, &s); err != nil {
				response.Error(c, http.StatusUnprocessableEntity, "invalid payload",
					[]validation.FieldError{{Field: "dueDate", Message: "must be a date string or null"}})
				return
			}
			due, err := time.Parse(dueDateLayout, s)
			if err != nil {
				response.Error(c, http.StatusUnprocessableEntity, "invalid payload",
					[]validation.FieldError{{Field: "dueDate", Message: "must match format " + dueDateLayout}})
				return
			}
			in.DueDate = &due
		}
	}

	uid := c.GetString(middleware.CtxUserIDKey)
	t, err := h.Svc.Update(c.Request.Context(), uid, c.Param("id"), in)
	if err != nil {
		handleServiceError(c, h.Logger, h.Env, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"task": taskJSON(t)}, "task updated")
}

// Delete DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		handleServiceError(c, h.Logger, h.Env, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, "task deleted")
}

func taskJSON(t *entity.Task) gin.H {
	var due any
	if t.DueDate != nil {
		due = t.DueDate.Format(dueDateLayout)
	}
	return gin.H{
		"id":          t.ID,
		"userId":      t.UserID,
		"title":       t.Title,
		"description": t.Description,
		"status":      t.Status,
		"priority":    t.Priority,
		"dueDate":     due,
		"createdAt":   t.CreatedAt,
		"updatedAt":   t.UpdatedAt,
	}
}
