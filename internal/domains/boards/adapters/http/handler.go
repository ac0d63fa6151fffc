// Package http exposes the boards context over gin.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domains/boards/application"
	"github.com/taskhive/taskhive-api/internal/domains/boards/domain"
	sharederrors "github.com/taskhive/taskhive-api/internal/shared/errors"
)

// Handler adapts the boards service to HTTP.
type Handler struct {
	service *application.Service
}

// NewHandler wires the boards HTTP surface.
func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the board routes on the given group.
func (h *Handler) Register(r *gin.RouterGroup) {
	boards := r.Group("/boards")
	boards.POST("", h.create)
	boards.GET("", h.list)
	boards.GET("/:id", h.get)
	boards.PATCH("/:id", h.update)
	boards.DELETE("/:id", h.remove)
	boards.POST("/:id/archive", h.archive)
	boards.POST("/:id/unarchive", h.unarchive)
	boards.POST("/:id/restore", h.restore)
}

type createBoardRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type updateBoardRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type boardResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Archived    bool       `json:"archived"`
	Deleted     bool       `json:"deleted"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"createdAt"`
	CreatedBy   string     `json:"createdBy"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	UpdatedBy   string     `json:"updatedBy,omitempty"`
}

func (h *Handler) create(c *gin.Context) {
	var req createBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sharederrors.Respond(c, sharederrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	board, err := h.service.CreateBoard(c.Request.Context(), application.CreateBoardInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(board))
}

func (h *Handler) list(c *gin.Context) {
	boards, err := h.service.ListBoards(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]boardResponse, 0, len(boards))
	for _, b := range boards {
		out = append(out, toResponse(b))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := boardID(c)
	if !ok {
		return
	}
	board, err := h.service.GetBoard(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(board))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := boardID(c)
	if !ok {
		return
	}
	var req updateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sharederrors.Respond(c, sharederrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	board, err := h.service.UpdateBoard(c.Request.Context(), application.UpdateBoardInput{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(board))
}

func (h *Handler) remove(c *gin.Context) {
	id, ok := boardID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteBoard(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) archive(c *gin.Context) {
	h.transition(c, h.service.ArchiveBoard)
}

func (h *Handler) unarchive(c *gin.Context) {
	h.transition(c, h.service.UnarchiveBoard)
}

func (h *Handler) restore(c *gin.Context) {
	h.transition(c, h.service.RestoreBoard)
}

func (h *Handler) transition(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*domain.Board, error)) {
	id, ok := boardID(c)
	if !ok {
		return
	}
	board, err := op(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(board))
}

func boardID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		sharederrors.Respond(c, sharederrors.ErrBadRequest.WithDetail("board id must be a UUID"))
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

func toResponse(b *domain.Board) boardResponse {
	resp := boardResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Archived:    b.Archived,
		Deleted:     b.Deleted,
		Version:     b.Version,
		CreatedAt:   b.CreatedAt,
		CreatedBy:   b.CreatedBy,
		UpdatedBy:   b.UpdatedBy,
	}
	if !b.UpdatedAt.IsZero() {
		updatedAt := b.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
