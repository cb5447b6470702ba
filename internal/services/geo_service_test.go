package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/orgdesk/internal/logger"
	"github.com/stwalsh4118/orgdesk/internal/models"
	"github.com/stwalsh4118/orgdesk/internal/repository"
)

func newGeoService() (*MockGeoRepository, GeoService) {
	repo := new(MockGeoRepository)
	return repo, NewGeoService(repo, logger.New("test"))
}

func TestGeoList_Success(t *testing.T) {
	// Arrange
	repo, service := newGeoService()
	ctx := context.Background()
	q := repository.GeoQuery{Level: models.LevelRegion, ParentID: int64Ptr(1)}
	repo.On("List", ctx, q).Return([]models.GeoNode{{ID: 2, Name: "Tbilisi", Level: models.LevelRegion}}, nil)

	// Act
	nodes, err := service.List(ctx, models.LevelRegion, int64Ptr(1), nil)

	// Assert
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "Tbilisi", nodes[0].Name)
	repo.AssertExpectations(t)
}

func TestGeoList_InvalidLevel(t *testing.T) {
	repo, service := newGeoService()

	_, err := service.List(context.Background(), models.Level("planet"), nil, nil)

	assert.ErrorIs(t, err, ErrInvalidLevel)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestGeoList_DistrictFilterOnlyForBuildings(t *testing.T) {
	_, service := newGeoService()

	_, err := service.List(context.Background(), models.LevelStreet, int64Ptr(1), int64Ptr(2))

	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestGeoList_RepositoryError(t *testing.T) {
	repo, service := newGeoService()
	ctx := context.Background()
	dbErr := errors.New("connection refused")
	repo.On("List", ctx, mock.Anything).Return(nil, dbErr)

	_, err := service.List(ctx, models.LevelCountry, nil, nil)

	assert.ErrorIs(t, err, dbErr)
}

func TestGeoCreate_Success(t *testing.T) {
	// Arrange
	repo, service := newGeoService()
	ctx := context.Background()
	repo.On("Get", ctx, int64(1)).Return(&models.GeoNode{ID: 1, Level: models.LevelCountry, Name: "Georgia"}, nil)
	repo.On("Create", ctx, models.GeoNode{Level: models.LevelRegion, Name: "Tbilisi", ParentID: int64Ptr(1)}).
		Return(&models.GeoNode{ID: 2, Level: models.LevelRegion, Name: "Tbilisi", ParentID: int64Ptr(1)}, nil)

	// Act
	in := models.NewGeoInput(models.LevelRegion, "Tbilisi", &models.Ref{ID: 1, Name: "Georgia"}, nil)
	node, err := service.Create(ctx, models.LevelRegion, in)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(2), node.ID)
	repo.AssertExpectations(t)
}

func TestGeoCreate_Country(t *testing.T) {
	repo, service := newGeoService()
	ctx := context.Background()
	repo.On("Create", ctx, models.GeoNode{Level: models.LevelCountry, Name: "Armenia"}).
		Return(&models.GeoNode{ID: 5, Level: models.LevelCountry, Name: "Armenia"}, nil)

	node, err := service.Create(ctx, models.LevelCountry, models.GeoInput{Name: "Armenia"})

	require.NoError(t, err)
	assert.Nil(t, node.ParentID)
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestGeoCreate_ParentErrors(t *testing.T) {
	tests := []struct {
		name    string
		parent  *models.GeoNode
		in      models.GeoInput
		wantErr error
	}{
		{
			name:    "missing reference",
			in:      models.GeoInput{Name: "Tbilisi"},
			wantErr: ErrParentNotFound,
		},
		{
			name:    "unknown parent",
			parent:  nil,
			in:      models.NewGeoInput(models.LevelRegion, "Tbilisi", &models.Ref{ID: 9}, nil),
			wantErr: ErrParentNotFound,
		},
		{
			name:    "parent at wrong level",
			parent:  &models.GeoNode{ID: 9, Level: models.LevelCity},
			in:      models.NewGeoInput(models.LevelRegion, "Tbilisi", &models.Ref{ID: 9}, nil),
			wantErr: ErrParentLevelMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, service := newGeoService()
			ctx := context.Background()
			repo.On("Get", ctx, int64(9)).Return(tt.parent, nil).Maybe()

			node, err := service.Create(ctx, models.LevelRegion, tt.in)

			assert.Nil(t, node)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestGeoCreate_BuildingWithDistrict(t *testing.T) {
	repo, service := newGeoService()
	ctx := context.Background()
	street := &models.GeoNode{ID: 10, Level: models.LevelStreet, ParentID: int64Ptr(3)}
	district := &models.GeoNode{ID: 11, Level: models.LevelDistrict, ParentID: int64Ptr(3)}
	repo.On("Get", ctx, int64(10)).Return(street, nil)
	repo.On("Get", ctx, int64(11)).Return(district, nil)
	repo.On("Create", ctx, models.GeoNode{
		Level: models.LevelBuilding, Name: "12", ParentID: int64Ptr(10), DistrictID: int64Ptr(11),
	}).Return(&models.GeoNode{ID: 12}, nil)

	in := models.NewGeoInput(models.LevelBuilding, "12", &models.Ref{ID: 10}, &models.Ref{ID: 11})
	node, err := service.Create(ctx, models.LevelBuilding, in)

	require.NoError(t, err)
	assert.Equal(t, int64(12), node.ID)
	repo.AssertExpectations(t)
}

func TestGeoCreate_BuildingDistrictInOtherCity(t *testing.T) {
	repo, service := newGeoService()
	ctx := context.Background()
	repo.On("Get", ctx, int64(10)).Return(&models.GeoNode{ID: 10, Level: models.LevelStreet, ParentID: int64Ptr(3)}, nil)
	repo.On("Get", ctx, int64(11)).Return(&models.GeoNode{ID: 11, Level: models.LevelDistrict, ParentID: int64Ptr(4)}, nil)

	in := models.NewGeoInput(models.LevelBuilding, "12", &models.Ref{ID: 10}, &models.Ref{ID: 11})
	_, err := service.Create(ctx, models.LevelBuilding, in)

	assert.ErrorIs(t, err, ErrParentLevelMismatch)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGeoUpdate_NotFound(t *testing.T) {
	repo, service := newGeoService()
	ctx := context.Background()
	repo.On("Update", ctx, models.GeoNode{ID: 7, Level: models.LevelCountry, Name: "X"}).
		Return(nil, repository.ErrNotFound)

	_, err := service.Update(ctx, models.LevelCountry, 7, models.GeoInput{Name: "X"})

	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestGeoUpdate_ParentRemovedConcurrently(t *testing.T) {
	repo, service := newGeoService()
	ctx := context.Background()
	repo.On("Get", ctx, int64(9)).Return(&models.GeoNode{ID: 9, Level: models.LevelCountry}, nil)
	repo.On("Update", ctx, models.GeoNode{ID: 7, Level: models.LevelRegion, Name: "Imereti", ParentID: int64Ptr(9)}).
		Return(nil, repository.ErrHasRelation)

	in := models.NewGeoInput(models.LevelRegion, "Imereti", &models.Ref{ID: 9}, nil)
	node, err := service.Update(ctx, models.LevelRegion, 7, in)

	assert.Nil(t, node)
	assert.ErrorIs(t, err, ErrParentNotFound)
	repo.AssertExpectations(t)
}

func TestGeoDelete(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		wantErr error
	}{
		{name: "success"},
		{name: "not found", repoErr: repository.ErrNotFound, wantErr: ErrNodeNotFound},
		{name: "has relation", repoErr: errors.Join(repository.ErrHasRelation, errors.New("fk")), wantErr: ErrHasRelation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, service := newGeoService()
			ctx := context.Background()
			repo.On("Delete", ctx, models.LevelCity, int64(4)).Return(tt.repoErr)

			err := service.Delete(ctx, models.LevelCity, 4)

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
