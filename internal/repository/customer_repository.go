package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/stwalsh4118/orgdesk/internal/database"
	"github.com/stwalsh4118/orgdesk/internal/models"
)

// CustomerRepository defines data access for customer intake.
type CustomerRepository interface {
	// Create stores a validated intake form.
	// Returns ErrDuplicate if the phone number is already registered.
	Create(ctx context.Context, in models.CustomerInput) (*models.Customer, error)
}

type customerRepository struct {
	db *database.Database
}

// NewCustomerRepository creates a PostgreSQL-backed CustomerRepository.
func NewCustomerRepository(db *database.Database) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, in models.CustomerInput) (*models.Customer, error) {
	var apptDate *time.Time
	var apptNote string
	if in.HasAppointment && in.Appointment != nil {
		d, err := time.Parse("2006-01-02", in.Appointment.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid appointment date %q: %w", in.Appointment.Date, err)
		}
		apptDate = &d
		apptNote = in.Appointment.Note
	}

	c := &models.Customer{CustomerInput: in}
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO customers (
			first_name, last_name, phone, email, customer_type, tax_id,
			has_appointment, appointment_date, appointment_note
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		in.FirstName, in.LastName, in.Phone, in.Email, string(in.Type), in.TaxID,
		in.HasAppointment, apptDate, apptNote,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", translatePgError(err))
	}

	return c, nil
}
