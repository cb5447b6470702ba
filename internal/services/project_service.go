package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stwalsh4118/orgdesk/internal/logger"
	"github.com/stwalsh4118/orgdesk/internal/models"
	"github.com/stwalsh4118/orgdesk/internal/repository"
)

// ErrProjectNotFound is returned when a project id does not resolve.
var ErrProjectNotFound = errors.New("project not found")

// ProjectService defines the business operations on projects.
type ProjectService interface {
	Create(ctx context.Context, in models.ProjectInput) (*models.Project, error)

	// SetStatus activates or deactivates a project.
	// Returns ErrProjectNotFound if the project does not exist.
	SetStatus(ctx context.Context, id int64, active bool) (*models.Project, error)

	Search(ctx context.Context, f models.ProjectFilter) (models.Page[models.Project], error)
}

type projectService struct {
	repo repository.ProjectRepository
	log  *logger.Logger
}

// NewProjectService creates a new instance of ProjectService.
func NewProjectService(repo repository.ProjectRepository, log *logger.Logger) ProjectService {
	return &projectService{repo: repo, log: log}
}

func (s *projectService) Create(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	p, err := s.repo.Create(ctx, in)
	if err != nil {
		s.log.Error("Failed to create project", err, map[string]interface{}{"name": in.Name})
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.log.Info("Project created", map[string]interface{}{
		"id":   p.ID,
		"name": p.Name,
	})
	return p, nil
}

func (s *projectService) SetStatus(ctx context.Context, id int64, active bool) (*models.Project, error) {
	p, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrProjectNotFound, id)
		}
		s.log.Error("Failed to update project status", err, map[string]interface{}{"id": id})
		return nil, fmt.Errorf("failed to update project %d: %w", id, err)
	}

	s.log.Info("Project status changed", map[string]interface{}{
		"id":     id,
		"active": active,
	})
	return p, nil
}

func (s *projectService) Search(ctx context.Context, f models.ProjectFilter) (models.Page[models.Project], error) {
	projects, total, err := s.repo.Search(ctx, f)
	if err != nil {
		s.log.Error("Failed to search projects", err, map[string]interface{}{
			"page": f.Page,
			"size": f.Size,
		})
		return models.Page[models.Project]{}, fmt.Errorf("failed to search projects: %w", err)
	}
	return models.NewPage(projects, f.Page, f.Size, total), nil
}
