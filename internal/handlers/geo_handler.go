package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/orgdesk/internal/errors"
	"github.com/stwalsh4118/orgdesk/internal/models"
	"github.com/stwalsh4118/orgdesk/internal/services"
)

// RelationConflictMessage is returned when a delete is blocked because the
// node is still referenced.
const RelationConflictMessage = "Record is used by other records and cannot be deleted"

// GeoHandler serves the address hierarchy, one route set per level.
type GeoHandler struct {
	service services.GeoService
}

// NewGeoHandler creates a new GeoHandler instance.
func NewGeoHandler(service services.GeoService) *GeoHandler {
	return &GeoHandler{service: service}
}

// geoListQuery holds every parent filter; the level decides which applies.
type geoListQuery struct {
	CountryID  *int64 `form:"countryId" binding:"omitempty,gt=0"`
	RegionID   *int64 `form:"regionId" binding:"omitempty,gt=0"`
	CityID     *int64 `form:"cityId" binding:"omitempty,gt=0"`
	StreetID   *int64 `form:"streetId" binding:"omitempty,gt=0"`
	DistrictID *int64 `form:"districtId" binding:"omitempty,gt=0"`
}

func (q geoListQuery) parent(level models.Level) *int64 {
	switch level.ParentField() {
	case "countryId":
		return q.CountryID
	case "regionId":
		return q.RegionID
	case "cityId":
		return q.CityID
	case "streetId":
		return q.StreetID
	}
	return nil
}

// idQuery binds the ?id= parameter of update and delete.
type idQuery struct {
	ID int64 `form:"id" binding:"required,gt=0"`
}

// Register mounts GET /{entity}, POST /{entity}/add, PUT /{entity}/update
// and DELETE /{entity} for every level.
func (h *GeoHandler) Register(rg *gin.RouterGroup) {
	for _, level := range models.Levels() {
		g := rg.Group("/" + level.Entity())
		g.GET("", h.List(level))
		g.POST("/add", h.Create(level))
		g.PUT("/update", h.Update(level))
		g.DELETE("", h.Delete(level))
	}
}

// List handles GET /api/v1/{entity}?{parentField}={id}.
func (h *GeoHandler) List(level models.Level) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q geoListQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			apierrors.BindError(c, err)
			return
		}

		nodes, err := h.service.List(c.Request.Context(), level, q.parent(level), q.DistrictID)
		if err != nil {
			h.fail(c, err, "Failed to list "+level.Entity())
			return
		}

		c.JSON(http.StatusOK, nodes)
	}
}

// Create handles POST /api/v1/{entity}/add.
func (h *GeoHandler) Create(level models.Level) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.GeoInput
		if err := c.ShouldBindJSON(&in); err != nil {
			apierrors.BindError(c, err)
			return
		}

		node, err := h.service.Create(c.Request.Context(), level, in)
		if err != nil {
			h.fail(c, err, "Failed to create "+string(level))
			return
		}

		c.JSON(http.StatusCreated, node)
	}
}

// Update handles PUT /api/v1/{entity}/update?id={id}.
func (h *GeoHandler) Update(level models.Level) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q idQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			apierrors.BindError(c, err)
			return
		}
		var in models.GeoInput
		if err := c.ShouldBindJSON(&in); err != nil {
			apierrors.BindError(c, err)
			return
		}

		node, err := h.service.Update(c.Request.Context(), level, q.ID, in)
		if err != nil {
			h.fail(c, err, "Failed to update "+string(level))
			return
		}

		c.JSON(http.StatusOK, node)
	}
}

// Delete handles DELETE /api/v1/{entity}?id={id}.
func (h *GeoHandler) Delete(level models.Level) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q idQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			apierrors.BindError(c, err)
			return
		}

		if err := h.service.Delete(c.Request.Context(), level, q.ID); err != nil {
			h.fail(c, err, "Failed to delete "+string(level))
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// fail maps service errors onto the error envelope.
func (h *GeoHandler) fail(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrHasRelation):
		apierrors.RelationConflict(c, RelationConflictMessage)
	case errors.Is(err, services.ErrNodeNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidLevel),
		errors.Is(err, services.ErrParentNotFound),
		errors.Is(err, services.ErrParentLevelMismatch):
		apierrors.BadRequest(c, err.Error(), nil)
	default:
		apierrors.InternalServerError(c, message, err)
	}
}
