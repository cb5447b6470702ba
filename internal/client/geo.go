package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/stwalsh4118/orgdesk/internal/models"
)

// geoCacheKey is the prefix shared by every cached list of level.
func geoCacheKey(level models.Level) string {
	return "geo/" + level.Entity()
}

// ListGeo returns the nodes of level under parentID, or every node of the
// level when parentID is nil. Results are served from the cache while fresh.
func (c *Client) ListGeo(ctx context.Context, level models.Level, parentID *int64) ([]models.GeoNode, error) {
	query := url.Values{}
	if parentID != nil && level.ParentField() != "" {
		query.Set(level.ParentField(), strconv.FormatInt(*parentID, 10))
	}
	return c.listGeo(ctx, level, query)
}

// ListBuildings returns the buildings of a street, optionally only those in
// one district.
func (c *Client) ListBuildings(ctx context.Context, streetID int64, districtID *int64) ([]models.GeoNode, error) {
	query := url.Values{}
	query.Set(models.LevelBuilding.ParentField(), strconv.FormatInt(streetID, 10))
	if districtID != nil {
		query.Set("districtId", strconv.FormatInt(*districtID, 10))
	}
	return c.listGeo(ctx, models.LevelBuilding, query)
}

func (c *Client) listGeo(ctx context.Context, level models.Level, query url.Values) ([]models.GeoNode, error) {
	key := geoCacheKey(level) + "?" + query.Encode()
	return Fetch(ctx, c.cache, key, func(ctx context.Context) ([]models.GeoNode, error) {
		nodes := []models.GeoNode{}
		if err := c.get(ctx, "/"+level.Entity(), query, &nodes); err != nil {
			return nil, err
		}
		return nodes, nil
	})
}

// CreateGeo adds a node. in carries the denormalized parent reference.
func (c *Client) CreateGeo(ctx context.Context, level models.Level, in models.GeoInput) (*models.GeoNode, error) {
	var node models.GeoNode
	if err := c.post(ctx, "/"+level.Entity()+"/add", in, &node); err != nil {
		return nil, err
	}
	c.cache.Invalidate(geoCacheKey(level))
	return &node, nil
}

// UpdateGeo renames or re-parents a node.
func (c *Client) UpdateGeo(ctx context.Context, level models.Level, id int64, in models.GeoInput) (*models.GeoNode, error) {
	var node models.GeoNode
	query := url.Values{"id": {strconv.FormatInt(id, 10)}}
	if err := c.do(ctx, http.MethodPut, "/"+level.Entity()+"/update", query, in, &node); err != nil {
		return nil, err
	}
	c.cache.Invalidate(geoCacheKey(level))
	return &node, nil
}

// DeleteGeo removes a node. A node that is still referenced fails with an
// error for which IsRelationConflict reports true.
func (c *Client) DeleteGeo(ctx context.Context, level models.Level, id int64) error {
	query := url.Values{"id": {strconv.FormatInt(id, 10)}}
	err := c.do(ctx, http.MethodDelete, "/"+level.Entity(), query, nil, nil)
	if err == nil {
		c.cache.Invalidate(geoCacheKey(level))
	}
	return err
}
