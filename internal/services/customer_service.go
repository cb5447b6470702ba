package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stwalsh4118/orgdesk/internal/logger"
	"github.com/stwalsh4118/orgdesk/internal/models"
	"github.com/stwalsh4118/orgdesk/internal/repository"
)

// ErrCustomerExists is returned when the phone number is already registered.
var ErrCustomerExists = errors.New("customer already exists")

// CustomerService handles customer intake.
type CustomerService interface {
	// Register stores an intake form that already passed validation.
	Register(ctx context.Context, in models.CustomerInput) (*models.Customer, error)
}

type customerService struct {
	repo repository.CustomerRepository
	log  *logger.Logger
}

// NewCustomerService creates a new instance of CustomerService.
func NewCustomerService(repo repository.CustomerRepository, log *logger.Logger) CustomerService {
	return &customerService{repo: repo, log: log}
}

func (s *customerService) Register(ctx context.Context, in models.CustomerInput) (*models.Customer, error) {
	if !in.HasAppointment {
		in.Appointment = nil
	}
	if in.Type != models.CustomerLegal {
		in.TaxID = ""
	}

	c, err := s.repo.Create(ctx, in)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: phone %s", ErrCustomerExists, in.Phone)
		}
		s.log.Error("Failed to register customer", err, map[string]interface{}{"type": in.Type})
		return nil, fmt.Errorf("failed to register customer: %w", err)
	}

	s.log.Info("Customer registered", map[string]interface{}{
		"id":              c.ID,
		"type":            c.Type,
		"has_appointment": c.HasAppointment,
	})
	return c, nil
}
