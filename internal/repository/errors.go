package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Repository-level errors.
var (
	// ErrNotFound is returned by mutations whose target row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrHasRelation is returned when a delete is blocked by rows referencing the target.
	ErrHasRelation = errors.New("record is referenced by other records")
	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("duplicate record")
)

// PostgreSQL error codes we translate.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// translatePgError maps constraint violations onto repository errors.
// Other errors are returned unchanged.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgForeignKeyViolation:
		return errors.Join(ErrHasRelation, err)
	case pgUniqueViolation:
		return errors.Join(ErrDuplicate, err)
	}
	return err
}
