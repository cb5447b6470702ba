package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/orgdesk/internal/errors"
	"github.com/stwalsh4118/orgdesk/internal/models"
	"github.com/stwalsh4118/orgdesk/internal/services"
)

// ProjectHandler handles project search and status changes.
type ProjectHandler struct {
	service services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler instance.
func NewProjectHandler(service services.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// statusQuery binds PATCH /projects/status?id=&active=.
type statusQuery struct {
	Active *bool `form:"active" binding:"required"`
	ID     int64 `form:"id" binding:"required,gt=0"`
}

// Search handles GET /api/v1/projects/search.
func (h *ProjectHandler) Search(c *gin.Context) {
	var f models.ProjectFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		apierrors.BindError(c, err)
		return
	}

	page, err := h.service.Search(c.Request.Context(), f)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to search projects", err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Create handles POST /api/v1/projects/add.
func (h *ProjectHandler) Create(c *gin.Context) {
	var in models.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		apierrors.BindError(c, err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to create project", err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// SetStatus handles PATCH /api/v1/projects/status?id={id}&active={bool}.
func (h *ProjectHandler) SetStatus(c *gin.Context) {
	var q statusQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apierrors.BindError(c, err)
		return
	}

	p, err := h.service.SetStatus(c.Request.Context(), q.ID, *q.Active)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalServerError(c, "Failed to update project status", err)
		return
	}

	c.JSON(http.StatusOK, p)
}
