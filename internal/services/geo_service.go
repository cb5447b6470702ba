package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stwalsh4118/orgdesk/internal/logger"
	"github.com/stwalsh4118/orgdesk/internal/models"
	"github.com/stwalsh4118/orgdesk/internal/repository"
)

// Service-level errors
var (
	ErrInvalidLevel        = errors.New("invalid level")
	ErrNodeNotFound        = errors.New("node not found")
	ErrParentNotFound      = errors.New("parent not found")
	ErrParentLevelMismatch = errors.New("parent has the wrong level")
	ErrHasRelation         = errors.New("node is used by other records")
)

// GeoService defines the business operations on the address hierarchy.
type GeoService interface {
	// List returns the nodes of level under parentID, or every node of the
	// level when parentID is nil. districtID narrows buildings further.
	List(ctx context.Context, level models.Level, parentID, districtID *int64) ([]models.GeoNode, error)

	// Create adds a node under the parent referenced by in.
	// Returns ErrParentNotFound or ErrParentLevelMismatch for a bad reference.
	Create(ctx context.Context, level models.Level, in models.GeoInput) (*models.GeoNode, error)

	// Update renames and re-parents a node.
	// Returns ErrNodeNotFound if no node of level has id.
	Update(ctx context.Context, level models.Level, id int64, in models.GeoInput) (*models.GeoNode, error)

	// Delete removes a node.
	// Returns ErrHasRelation if any other node still references it.
	Delete(ctx context.Context, level models.Level, id int64) error
}

type geoService struct {
	repo repository.GeoRepository
	log  *logger.Logger
}

// NewGeoService creates a new instance of GeoService.
func NewGeoService(repo repository.GeoRepository, log *logger.Logger) GeoService {
	return &geoService{
		repo: repo,
		log:  log,
	}
}

func (s *geoService) List(ctx context.Context, level models.Level, parentID, districtID *int64) ([]models.GeoNode, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLevel, level)
	}
	if districtID != nil && level != models.LevelBuilding {
		return nil, fmt.Errorf("%w: only buildings filter by district", ErrInvalidLevel)
	}

	nodes, err := s.repo.List(ctx, repository.GeoQuery{Level: level, ParentID: parentID, DistrictID: districtID})
	if err != nil {
		s.log.Error("Failed to list nodes", err, map[string]interface{}{
			"level":     level,
			"parent_id": parentID,
		})
		return nil, fmt.Errorf("failed to list %s: %w", level.Entity(), err)
	}

	s.log.Debug("Listed nodes", map[string]interface{}{
		"level": level,
		"count": len(nodes),
	})
	return nodes, nil
}

// resolveRefs turns the denormalized references of in into the node's
// parent and district ids, checking that each exists at the expected level.
func (s *geoService) resolveRefs(ctx context.Context, level models.Level, in models.GeoInput) (parentID, districtID *int64, err error) {
	parentLevel, hasParent := level.Parent()
	if hasParent {
		ref := in.ParentRef(level)
		if ref == nil {
			return nil, nil, fmt.Errorf("%w: %s reference is required", ErrParentNotFound, parentLevel)
		}
		parent, err := s.expectLevel(ctx, ref.ID, parentLevel)
		if err != nil {
			return nil, nil, err
		}
		parentID = &parent.ID
	}

	if level == models.LevelBuilding && in.District != nil {
		district, err := s.expectLevel(ctx, in.District.ID, models.LevelDistrict)
		if err != nil {
			return nil, nil, err
		}
		street, err := s.repo.Get(ctx, *parentID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load street %d: %w", *parentID, err)
		}
		if street == nil || !sameParent(street, district) {
			return nil, nil, fmt.Errorf("%w: district %d is not in the street's city", ErrParentLevelMismatch, district.ID)
		}
		districtID = &district.ID
	}

	return parentID, districtID, nil
}

func (s *geoService) expectLevel(ctx context.Context, id int64, level models.Level) (*models.GeoNode, error) {
	node, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s %d: %w", level, id, err)
	}
	if node == nil {
		return nil, fmt.Errorf("%w: %s %d", ErrParentNotFound, level, id)
	}
	if node.Level != level {
		return nil, fmt.Errorf("%w: node %d is a %s, expected %s", ErrParentLevelMismatch, id, node.Level, level)
	}
	return node, nil
}

func sameParent(a, b *models.GeoNode) bool {
	return a.ParentID != nil && b.ParentID != nil && *a.ParentID == *b.ParentID
}

func (s *geoService) Create(ctx context.Context, level models.Level, in models.GeoInput) (*models.GeoNode, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLevel, level)
	}

	parentID, districtID, err := s.resolveRefs(ctx, level, in)
	if err != nil {
		s.log.Warn("Rejected node reference", map[string]interface{}{
			"level": level,
			"name":  in.Name,
			"error": err.Error(),
		})
		return nil, err
	}

	node, err := s.repo.Create(ctx, models.GeoNode{
		Level:      level,
		Name:       in.Name,
		ParentID:   parentID,
		DistrictID: districtID,
	})
	if err != nil {
		// the parent vanished between the check and the insert
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrHasRelation) {
			return nil, fmt.Errorf("%w: %v", ErrParentNotFound, err)
		}
		s.log.Error("Failed to create node", err, map[string]interface{}{
			"level": level,
			"name":  in.Name,
		})
		return nil, fmt.Errorf("failed to create %s: %w", level, err)
	}

	s.log.Info("Node created", map[string]interface{}{
		"level":     level,
		"id":        node.ID,
		"name":      node.Name,
		"parent_id": node.ParentID,
	})
	return node, nil
}

func (s *geoService) Update(ctx context.Context, level models.Level, id int64, in models.GeoInput) (*models.GeoNode, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLevel, level)
	}

	parentID, districtID, err := s.resolveRefs(ctx, level, in)
	if err != nil {
		return nil, err
	}

	node, err := s.repo.Update(ctx, models.GeoNode{
		ID:         id,
		Level:      level,
		Name:       in.Name,
		ParentID:   parentID,
		DistrictID: districtID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s %d", ErrNodeNotFound, level, id)
		}
		// the parent vanished between the check and the update
		if errors.Is(err, repository.ErrHasRelation) {
			return nil, fmt.Errorf("%w: %v", ErrParentNotFound, err)
		}
		s.log.Error("Failed to update node", err, map[string]interface{}{
			"level": level,
			"id":    id,
		})
		return nil, fmt.Errorf("failed to update %s %d: %w", level, id, err)
	}

	s.log.Info("Node updated", map[string]interface{}{
		"level": level,
		"id":    node.ID,
		"name":  node.Name,
	})
	return node, nil
}

func (s *geoService) Delete(ctx context.Context, level models.Level, id int64) error {
	if !level.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLevel, level)
	}

	err := s.repo.Delete(ctx, level, id)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s %d", ErrNodeNotFound, level, id)
	case errors.Is(err, repository.ErrHasRelation):
		s.log.Info("Delete blocked by related records", map[string]interface{}{
			"level": level,
			"id":    id,
		})
		return fmt.Errorf("%w: %s %d", ErrHasRelation, level, id)
	default:
		s.log.Error("Failed to delete node", err, map[string]interface{}{
			"level": level,
			"id":    id,
		})
		return fmt.Errorf("failed to delete %s %d: %w", level, id, err)
	}

	s.log.Info("Node deleted", map[string]interface{}{
		"level": level,
		"id":    id,
	})
	return nil
}
