package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/stwalsh4118/orgdesk/internal/errors"
	"github.com/stwalsh4118/orgdesk/internal/models"
)

func createNode(t *testing.T, router http.Handler, level models.Level, name string, parent *models.GeoNode) models.GeoNode {
	t.Helper()
	var ref *models.Ref
	if parent != nil {
		ref = &models.Ref{ID: parent.ID, Name: parent.Name}
	}
	w := doJSON(t, router, http.MethodPost, "/api/v1/"+level.Entity()+"/add", models.NewGeoInput(level, name, ref, nil))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.GeoNode](t, w)
}

func TestGeoHandler_CreateAndList(t *testing.T) {
	router, _ := setupTestRouter(t)

	georgia := createNode(t, router, models.LevelCountry, "Georgia", nil)
	armenia := createNode(t, router, models.LevelCountry, "Armenia", nil)
	createNode(t, router, models.LevelRegion, "Tbilisi", &georgia)
	createNode(t, router, models.LevelRegion, "Shirak", &armenia)

	w := doJSON(t, router, http.MethodGet, "/api/v1/countries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.GeoNode](t, w), 2)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/regions?countryId=%d", georgia.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	regions := decode[[]models.GeoNode](t, w)
	require.Len(t, regions, 1)
	assert.Equal(t, "Tbilisi", regions[0].Name)
	assert.Equal(t, georgia.ID, *regions[0].ParentID)
}

func TestGeoHandler_ListEmptyIsArray(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/cities?regionId=99", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGeoHandler_BadParentFilter(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/regions?countryId=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/regions?countryId=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apierrors.ErrValidation, errorCode(t, w))
}

func TestGeoHandler_CreateValidation(t *testing.T) {
	router, _ := setupTestRouter(t)
	georgia := createNode(t, router, models.LevelCountry, "Georgia", nil)

	tests := []struct {
		name     string
		entity   string
		body     interface{}
		wantCode string
	}{
		{
			name:     "missing name",
			entity:   "countries",
			body:     map[string]interface{}{},
			wantCode: apierrors.ErrValidation,
		},
		{
			name:     "missing parent reference",
			entity:   "regions",
			body:     map[string]interface{}{"name": "Tbilisi"},
			wantCode: apierrors.ErrBadRequest,
		},
		{
			name:     "parent at wrong level",
			entity:   "cities",
			body:     map[string]interface{}{"name": "Tbilisi", "region": map[string]interface{}{"id": georgia.ID}},
			wantCode: apierrors.ErrBadRequest,
		},
		{
			name:     "reference id must be positive",
			entity:   "regions",
			body:     map[string]interface{}{"name": "Tbilisi", "country": map[string]interface{}{"id": 0}},
			wantCode: apierrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/v1/"+tt.entity+"/add", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}
}

func TestGeoHandler_Update(t *testing.T) {
	router, _ := setupTestRouter(t)
	georgia := createNode(t, router, models.LevelCountry, "Georgia", nil)

	w := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/v1/countries/update?id=%d", georgia.ID),
		models.GeoInput{Name: "Sakartvelo"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sakartvelo", decode[models.GeoNode](t, w).Name)

	w = doJSON(t, router, http.MethodPut, "/api/v1/countries/update?id=999", models.GeoInput{Name: "X"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/v1/countries/update", models.GeoInput{Name: "X"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGeoHandler_DeleteRelationConflict(t *testing.T) {
	router, _ := setupTestRouter(t)
	georgia := createNode(t, router, models.LevelCountry, "Georgia", nil)
	tbilisi := createNode(t, router, models.LevelRegion, "Tbilisi", &georgia)

	w := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/countries?id=%d", georgia.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apierrors.ErrHasRelation, errorCode(t, w))

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/regions?id=%d", tbilisi.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/countries?id=%d", georgia.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/countries?id=%d", georgia.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGeoHandler_BuildingsByDistrict(t *testing.T) {
	router, _ := setupTestRouter(t)
	country := createNode(t, router, models.LevelCountry, "Armenia", nil)
	region := createNode(t, router, models.LevelRegion, "Yerevan", &country)
	city := createNode(t, router, models.LevelCity, "Yerevan", &region)
	street := createNode(t, router, models.LevelStreet, "Abovyan", &city)
	district := createNode(t, router, models.LevelDistrict, "Kentron", &city)

	in := models.NewGeoInput(models.LevelBuilding, "1",
		&models.Ref{ID: street.ID, Name: street.Name}, &models.Ref{ID: district.ID, Name: district.Name})
	w := doJSON(t, router, http.MethodPost, "/api/v1/buildings/add", in)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	createNode(t, router, models.LevelBuilding, "2", &street)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/buildings?streetId=%d", street.ID), nil)
	assert.Len(t, decode[[]models.GeoNode](t, w), 2)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/buildings?streetId=%d&districtId=%d", street.ID, district.ID), nil)
	buildings := decode[[]models.GeoNode](t, w)
	require.Len(t, buildings, 1)
	assert.Equal(t, "1", buildings[0].Name)

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/districts?id=%d", district.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
