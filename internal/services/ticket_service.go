package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stwalsh4118/orgdesk/internal/logger"
	"github.com/stwalsh4118/orgdesk/internal/models"
	"github.com/stwalsh4118/orgdesk/internal/repository"
)

// ErrTicketNotFound is returned when a ticket id does not resolve.
var ErrTicketNotFound = errors.New("ticket not found")

// TicketService defines the business operations on tickets.
type TicketService interface {
	// Create adds a ticket to an existing project.
	// Returns ErrProjectNotFound if the project does not exist.
	Create(ctx context.Context, in models.TicketInput) (*models.Ticket, error)

	// Delete removes a ticket. Returns ErrTicketNotFound if absent.
	Delete(ctx context.Context, id int64) error

	// Search returns one page of tickets matching f.
	Search(ctx context.Context, f models.TicketFilter) (models.Page[models.Ticket], error)
}

type ticketService struct {
	tickets  repository.TicketRepository
	projects repository.ProjectRepository
	log      *logger.Logger
}

// NewTicketService creates a new instance of TicketService.
func NewTicketService(tickets repository.TicketRepository, projects repository.ProjectRepository, log *logger.Logger) TicketService {
	return &ticketService{
		tickets:  tickets,
		projects: projects,
		log:      log,
	}
}

func (s *ticketService) Create(ctx context.Context, in models.TicketInput) (*models.Ticket, error) {
	project, err := s.projects.Get(ctx, in.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project %d: %w", in.ProjectID, err)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: %d", ErrProjectNotFound, in.ProjectID)
	}

	t, err := s.tickets.Create(ctx, in)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrHasRelation) {
			return nil, fmt.Errorf("%w: %d", ErrProjectNotFound, in.ProjectID)
		}
		s.log.Error("Failed to create ticket", err, map[string]interface{}{
			"project_id": in.ProjectID,
			"name":       in.Name,
		})
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	s.log.Info("Ticket created", map[string]interface{}{
		"id":         t.ID,
		"project_id": t.ProjectID,
	})
	return t, nil
}

func (s *ticketService) Delete(ctx context.Context, id int64) error {
	if err := s.tickets.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %d", ErrTicketNotFound, id)
		}
		s.log.Error("Failed to delete ticket", err, map[string]interface{}{"id": id})
		return fmt.Errorf("failed to delete ticket %d: %w", id, err)
	}

	s.log.Info("Ticket deleted", map[string]interface{}{"id": id})
	return nil
}

func (s *ticketService) Search(ctx context.Context, f models.TicketFilter) (models.Page[models.Ticket], error) {
	s.log.Debug("Searching tickets", map[string]interface{}{
		"name":        f.Name,
		"project_ids": f.ProjectIDs,
		"page":        f.Page,
		"size":        f.Size,
	})

	tickets, total, err := s.tickets.Search(ctx, f)
	if err != nil {
		s.log.Error("Failed to search tickets", err, map[string]interface{}{
			"page": f.Page,
			"size": f.Size,
		})
		return models.Page[models.Ticket]{}, fmt.Errorf("failed to search tickets: %w", err)
	}

	return models.NewPage(tickets, f.Page, f.Size, total), nil
}
