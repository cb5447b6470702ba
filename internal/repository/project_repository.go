package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/orgdesk/internal/database"
	"github.com/stwalsh4118/orgdesk/internal/models"
)

// ProjectRepository defines data access for projects.
type ProjectRepository interface {
	// Create inserts a project.
	Create(ctx context.Context, in models.ProjectInput) (*models.Project, error)

	// Get returns nil, nil if the project does not exist.
	Get(ctx context.Context, id int64) (*models.Project, error)

	// SetActive toggles the project status. Returns ErrNotFound if absent.
	SetActive(ctx context.Context, id int64, active bool) (*models.Project, error)

	// Search returns one page of projects and the total match count.
	Search(ctx context.Context, f models.ProjectFilter) ([]models.Project, int64, error)
}

type projectRepository struct {
	db *database.Database
}

// NewProjectRepository creates a PostgreSQL-backed ProjectRepository.
func NewProjectRepository(db *database.Database) ProjectRepository {
	return &projectRepository{db: db}
}

const projectColumns = `id, name, manager, active, created_at`

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	if err := row.Scan(&p.ID, &p.Name, &p.Manager, &p.Active, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepository) Create(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	p, err := scanProject(r.db.Pool.QueryRow(ctx, `
		INSERT INTO projects (name, manager, active)
		VALUES ($1, $2, $3)
		RETURNING `+projectColumns,
		in.Name, in.Manager, in.Active,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create project %q: %w", in.Name, translatePgError(err))
	}
	return p, nil
}

func (r *projectRepository) Get(ctx context.Context, id int64) (*models.Project, error) {
	p, err := scanProject(r.db.Pool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project %d: %w", id, err)
	}
	return p, nil
}

func (r *projectRepository) SetActive(ctx context.Context, id int64, active bool) (*models.Project, error) {
	p, err := scanProject(r.db.Pool.QueryRow(ctx, `
		UPDATE projects SET active = $2 WHERE id = $1
		RETURNING `+projectColumns, id, active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update project %d status: %w", id, err)
	}
	return p, nil
}

func (r *projectRepository) Search(ctx context.Context, f models.ProjectFilter) ([]models.Project, int64, error) {
	var w whereBuilder
	if f.Name != "" {
		w.add("name ILIKE ?", "%"+f.Name+"%")
	}
	if f.Status != nil {
		w.add("active = ?", *f.Status)
	}
	if len(f.Managers) > 0 {
		w.add("manager = ANY(?)", f.Managers)
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM projects `+w.sql(), w.args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	limit := w.arg(f.Size)
	offset := w.arg(models.Offset(f.Page, f.Size))
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects `+w.sql()+
			` ORDER BY id DESC LIMIT `+limit+` OFFSET `+offset, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, total, nil
}
