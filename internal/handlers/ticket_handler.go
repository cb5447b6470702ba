package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/orgdesk/internal/errors"
	"github.com/stwalsh4118/orgdesk/internal/middleware"
	"github.com/stwalsh4118/orgdesk/internal/models"
	"github.com/stwalsh4118/orgdesk/internal/services"
)

// TicketHandler handles ticket search and maintenance.
type TicketHandler struct {
	service services.TicketService
}

// NewTicketHandler creates a new TicketHandler instance.
func NewTicketHandler(service services.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

// Search handles GET /api/v1/tickets/search.
// The query string is the list page's search state, bound into the same
// struct the client serializes.
func (h *TicketHandler) Search(c *gin.Context) {
	var f models.TicketFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		apierrors.BindError(c, err)
		return
	}
	if !f.CreatedFrom.IsZero() && !f.CreatedTo.IsZero() && f.CreatedTo.Before(f.CreatedFrom) {
		apierrors.BadRequest(c, "createdTo must not be before createdFrom", nil)
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Debug("Processing ticket search", map[string]interface{}{
			"page": f.Page,
			"size": f.Size,
		})
	}

	page, err := h.service.Search(c.Request.Context(), f)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to search tickets", err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Create handles POST /api/v1/tickets/add.
func (h *TicketHandler) Create(c *gin.Context) {
	var in models.TicketInput
	if err := c.ShouldBindJSON(&in); err != nil {
		apierrors.BindError(c, err)
		return
	}

	t, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.BadRequest(c, err.Error(), map[string]interface{}{"projectId": in.ProjectID})
			return
		}
		apierrors.InternalServerError(c, "Failed to create ticket", err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

// Delete handles DELETE /api/v1/tickets?id={id}.
func (h *TicketHandler) Delete(c *gin.Context) {
	var q idQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apierrors.BindError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), q.ID); err != nil {
		if errors.Is(err, services.ErrTicketNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalServerError(c, "Failed to delete ticket", err)
		return
	}

	c.Status(http.StatusNoContent)
}
