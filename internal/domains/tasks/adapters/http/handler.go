// Package http exposes the tasks context over gin.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domains/tasks/application"
	"github.com/taskhive/taskhive-api/internal/domains/tasks/domain"
	"github.com/taskhive/taskhive-api/internal/domains/tasks/ports"
	sharederrors "github.com/taskhive/taskhive-api/internal/shared/errors"
)

// Handler adapts the tasks service to HTTP.
type Handler struct {
	service ports.Service
}

// NewHandler wires the tasks HTTP surface.
func NewHandler(service ports.Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the task routes on the given group.
func (h *Handler) Register(r *gin.RouterGroup) {
	tasks := r.Group("/tasks")
	tasks.POST("", h.create)
	tasks.GET("", h.list)
	tasks.GET("/:id", h.get)
	tasks.PATCH("/:id", h.update)
	tasks.DELETE("/:id", h.remove)
	tasks.POST("/:id/move", h.move)
	tasks.POST("/:id/assign", h.assign)
	tasks.POST("/:id/restore", h.restore)
}

type createTaskRequest struct {
	BoardID     uuid.UUID  `json:"boardId" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    *string    `json:"priority"`
	Assignee    string     `json:"assignee"`
	Labels      []string   `json:"labels"`
	DueAt       *time.Time `json:"dueAt"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	Labels      []string   `json:"labels"`
	DueAt       *time.Time `json:"dueAt"`
	ClearDueAt  bool       `json:"clearDueAt"`
}

type moveTaskRequest struct {
	Status string `json:"status" binding:"required"`
}

type assignTaskRequest struct {
	Assignee string `json:"assignee"`
}

type taskResponse struct {
	ID          uuid.UUID  `json:"id"`
	BoardID     uuid.UUID  `json:"boardId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Assignee    string     `json:"assignee,omitempty"`
	Labels      []string   `json:"labels,omitempty"`
	DueAt       *time.Time `json:"dueAt,omitempty"`
	Deleted     bool       `json:"deleted"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"createdAt"`
	CreatedBy   string     `json:"createdBy"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	UpdatedBy   string     `json:"updatedBy,omitempty"`
}

func (h *Handler) create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sharederrors.Respond(c, sharederrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	input := ports.CreateTaskInput{
		BoardID:     req.BoardID,
		Title:       req.Title,
		Description: req.Description,
		Assignee:    req.Assignee,
		Labels:      req.Labels,
		DueAt:       req.DueAt,
	}
	if req.Priority != nil {
		priority := domain.Priority(*req.Priority)
		input.Priority = &priority
	}
	task, err := h.service.CreateTask(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(task))
}

// list serves /tasks?boardId=... and /tasks?status=...
func (h *Handler) list(c *gin.Context) {
	if raw := c.Query("boardId"); raw != "" {
		boardID, err := uuid.Parse(raw)
		if err != nil {
			sharederrors.Respond(c, sharederrors.ErrBadRequest.WithDetail("boardId must be a UUID"))
			return
		}
		h.respondList(c, func() ([]*domain.Task, error) {
			return h.service.ListByBoard(c.Request.Context(), boardID)
		})
		return
	}
	if status := c.Query("status"); status != "" {
		h.respondList(c, func() ([]*domain.Task, error) {
			return h.service.ListByStatus(c.Request.Context(), domain.Status(status))
		})
		return
	}
	sharederrors.Respond(c, sharederrors.ErrBadRequest.WithDetail("boardId or status query parameter is required"))
}

func (h *Handler) respondList(c *gin.Context, fetch func() ([]*domain.Task, error)) {
	tasks, err := fetch()
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toResponse(t))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	task, err := h.service.GetTask(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(task))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sharederrors.Respond(c, sharederrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	input := ports.UpdateTaskInput{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Labels:      req.Labels,
		DueAt:       req.DueAt,
		ClearDueAt:  req.ClearDueAt,
	}
	if req.Priority != nil {
		priority := domain.Priority(*req.Priority)
		input.Priority = &priority
	}
	task, err := h.service.UpdateTask(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(task))
}

func (h *Handler) remove(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteTask(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) move(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var req moveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sharederrors.Respond(c, sharederrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	task, err := h.service.MoveTask(c.Request.Context(), id, domain.Status(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(task))
}

func (h *Handler) assign(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var req assignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sharederrors.Respond(c, sharederrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	task, err := h.service.AssignTask(c.Request.Context(), id, req.Assignee)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(task))
}

func (h *Handler) restore(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	task, err := h.service.RestoreTask(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(task))
}

func taskID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		sharederrors.Respond(c, sharederrors.ErrBadRequest.WithDetail("task id must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrNotFound):
		sharederrors.Respond(c, sharederrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, application.ErrInvalidInput):
		sharederrors.Respond(c, sharederrors.ErrUnprocessable.WithDetail(err.Error()))
	case errors.Is(err, application.ErrConflict):
		sharederrors.Respond(c, sharederrors.ErrConflict.WithDetail(err.Error()))
	default:
		sharederrors.RespondError(c, err)
	}
}

func toResponse(t *domain.Task) taskResponse {
	resp := taskResponse{
		ID:          t.ID,
		BoardID:     t.BoardID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Assignee:    t.Assignee,
		Labels:      t.Labels,
		DueAt:       t.DueAt,
		Deleted:     t.Deleted,
		Version:     t.Version,
		CreatedAt:   t.CreatedAt,
		CreatedBy:   t.CreatedBy,
		UpdatedBy:   t.UpdatedBy,
	}
	if !t.UpdatedAt.IsZero() {
		updatedAt := t.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
