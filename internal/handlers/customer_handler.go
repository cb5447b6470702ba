package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/orgdesk/internal/errors"
	"github.com/stwalsh4118/orgdesk/internal/models"
	"github.com/stwalsh4118/orgdesk/internal/services"
)

// CustomerHandler handles customer intake.
type CustomerHandler struct {
	service services.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler instance.
func NewCustomerHandler(service services.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// Create handles POST /api/v1/customers/add.
// The conditional rules (tax id for legal entities, appointment details when
// one is booked) are enforced by the binding tags of CustomerInput.
func (h *CustomerHandler) Create(c *gin.Context) {
	var in models.CustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		apierrors.BindError(c, err)
		return
	}

	customer, err := h.service.Register(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, services.ErrCustomerExists) {
			apierrors.Conflict(c, "Customer already exists", map[string]interface{}{"phone": in.Phone})
			return
		}
		apierrors.InternalServerError(c, "Failed to register customer", err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}
