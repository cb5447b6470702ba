package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/orgdesk/internal/database"
	"github.com/stwalsh4118/orgdesk/internal/models"
)

// TicketRepository defines data access for tickets.
type TicketRepository interface {
	// Create inserts a ticket. The project must exist.
	Create(ctx context.Context, in models.TicketInput) (*models.Ticket, error)

	// Delete removes a ticket. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id int64) error

	// Search returns one page of tickets and the total match count.
	Search(ctx context.Context, f models.TicketFilter) ([]models.Ticket, int64, error)
}

type ticketRepository struct {
	db *database.Database
}

// NewTicketRepository creates a PostgreSQL-backed TicketRepository.
func NewTicketRepository(db *database.Database) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketColumns = `id, project_id, name, description, assignee, active, created_at`

func scanTicket(row pgx.Row) (*models.Ticket, error) {
	var t models.Ticket
	if err := row.Scan(&t.ID, &t.ProjectID, &t.Name, &t.Description, &t.Assignee, &t.Active, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepository) Create(ctx context.Context, in models.TicketInput) (*models.Ticket, error) {
	t, err := scanTicket(r.db.Pool.QueryRow(ctx, `
		INSERT INTO tickets (project_id, name, description, assignee, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+ticketColumns,
		in.ProjectID, in.Name, in.Description, in.Assignee, in.Active,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket %q: %w", in.Name, translatePgError(err))
	}
	return t, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ticket %d: %w", id, translatePgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ticketWhere builds the shared filter clause of the count and page queries.
func ticketWhere(f models.TicketFilter) *whereBuilder {
	w := &whereBuilder{}
	if f.Name != "" {
		w.add("name ILIKE ?", "%"+f.Name+"%")
	}
	if f.Status != nil {
		w.add("active = ?", *f.Status)
	}
	if len(f.ProjectIDs) > 0 {
		w.add("project_id = ANY(?)", f.ProjectIDs)
	}
	if len(f.Assignees) > 0 {
		w.add("assignee = ANY(?)", f.Assignees)
	}
	if !f.CreatedFrom.IsZero() {
		w.add("created_at >= ?", f.CreatedFrom)
	}
	if !f.CreatedTo.IsZero() {
		// inclusive of the whole end day
		w.add("created_at < ?", f.CreatedTo.AddDate(0, 0, 1))
	}
	return w
}

func (r *ticketRepository) Search(ctx context.Context, f models.TicketFilter) ([]models.Ticket, int64, error) {
	w := ticketWhere(f)

	var total int64
	if err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tickets `+w.sql(), w.args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	limit := w.arg(f.Size)
	offset := w.arg(models.Offset(f.Page, f.Size))
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+ticketColumns+` FROM tickets `+w.sql()+
			` ORDER BY created_at DESC, id DESC LIMIT `+limit+` OFFSET `+offset, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search tickets: %w", err)
	}
	defer rows.Close()

	tickets := []models.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan ticket row: %w", err)
		}
		tickets = append(tickets, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating ticket rows: %w", err)
	}

	return tickets, total, nil
}
