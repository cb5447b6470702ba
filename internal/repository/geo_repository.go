package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/orgdesk/internal/database"
	"github.com/stwalsh4118/orgdesk/internal/models"
)

// GeoQuery selects the nodes of one level, optionally under one parent.
type GeoQuery struct {
	ParentID   *int64
	DistrictID *int64
	Level      models.Level
}

// GeoRepository defines data access for the address hierarchy.
type GeoRepository interface {
	// List returns the nodes matching q ordered by name.
	// Returns an empty slice if nothing matches (not an error).
	List(ctx context.Context, q GeoQuery) ([]models.GeoNode, error)

	// Get returns the node with id.
	// Returns nil, nil if no node is found (not an error).
	Get(ctx context.Context, id int64) (*models.GeoNode, error)

	// Create inserts node and returns it with ID and timestamps set.
	Create(ctx context.Context, node models.GeoNode) (*models.GeoNode, error)

	// Update renames and re-parents the node with node.ID.
	// Returns ErrNotFound if it does not exist at node.Level.
	Update(ctx context.Context, node models.GeoNode) (*models.GeoNode, error)

	// Delete removes the node with id at level.
	// Returns ErrNotFound if absent and ErrHasRelation if referenced.
	Delete(ctx context.Context, level models.Level, id int64) error
}

type geoRepository struct {
	db *database.Database
}

// NewGeoRepository creates a PostgreSQL-backed GeoRepository.
func NewGeoRepository(db *database.Database) GeoRepository {
	return &geoRepository{db: db}
}

const geoColumns = `id, level, name, parent_id, district_id, created_at, updated_at`

func scanGeoNode(row pgx.Row) (*models.GeoNode, error) {
	var n models.GeoNode
	var level string
	if err := row.Scan(&n.ID, &level, &n.Name, &n.ParentID, &n.DistrictID, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	n.Level = models.Level(level)
	return &n, nil
}

func (r *geoRepository) List(ctx context.Context, q GeoQuery) ([]models.GeoNode, error) {
	var w whereBuilder
	w.add("level = ?", string(q.Level))
	if q.ParentID != nil {
		w.add("parent_id = ?", *q.ParentID)
	}
	if q.DistrictID != nil {
		w.add("district_id = ?", *q.DistrictID)
	}

	query := `SELECT ` + geoColumns + ` FROM geo_nodes ` + w.sql() + ` ORDER BY name, id`

	rows, err := r.db.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s nodes: %w", q.Level, err)
	}
	defer rows.Close()

	nodes := []models.GeoNode{}
	for rows.Next() {
		n, err := scanGeoNode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan geo node row: %w", err)
		}
		nodes = append(nodes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating geo node rows: %w", err)
	}

	return nodes, nil
}

func (r *geoRepository) Get(ctx context.Context, id int64) (*models.GeoNode, error) {
	n, err := scanGeoNode(r.db.Pool.QueryRow(ctx,
		`SELECT `+geoColumns+` FROM geo_nodes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get geo node %d: %w", id, err)
	}
	return n, nil
}

func (r *geoRepository) Create(ctx context.Context, node models.GeoNode) (*models.GeoNode, error) {
	n, err := scanGeoNode(r.db.Pool.QueryRow(ctx, `
		INSERT INTO geo_nodes (level, name, parent_id, district_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+geoColumns,
		string(node.Level), node.Name, node.ParentID, node.DistrictID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s %q: %w", node.Level, node.Name, translatePgError(err))
	}
	return n, nil
}

func (r *geoRepository) Update(ctx context.Context, node models.GeoNode) (*models.GeoNode, error) {
	n, err := scanGeoNode(r.db.Pool.QueryRow(ctx, `
		UPDATE geo_nodes
		SET name = $3, parent_id = $4, district_id = $5, updated_at = NOW()
		WHERE id = $1 AND level = $2
		RETURNING `+geoColumns,
		node.ID, string(node.Level), node.Name, node.ParentID, node.DistrictID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update %s %d: %w", node.Level, node.ID, translatePgError(err))
	}
	return n, nil
}

func (r *geoRepository) Delete(ctx context.Context, level models.Level, id int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM geo_nodes WHERE id = $1 AND level = $2`, id, string(level))
	if err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", level, id, translatePgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
