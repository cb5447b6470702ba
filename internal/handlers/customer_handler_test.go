package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/stwalsh4118/orgdesk/internal/errors"
	"github.com/stwalsh4118/orgdesk/internal/models"
)

func TestCustomerHandler_Create(t *testing.T) {
	tests := []struct {
		name        string
		body        map[string]interface{}
		wantStatus  int
		wantDetails []string
	}{
		{
			name: "individual without appointment",
			body: map[string]interface{}{
				"firstName": "Ani", "lastName": "Petrosyan", "phone": "+37491000001", "type": "individual",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "legal entity needs tax id",
			body: map[string]interface{}{
				"firstName": "Ani", "lastName": "Petrosyan", "phone": "+37491000002", "type": "legal",
			},
			wantStatus:  http.StatusBadRequest,
			wantDetails: []string{"taxId"},
		},
		{
			name: "booked appointment needs details",
			body: map[string]interface{}{
				"firstName": "Ani", "lastName": "Petrosyan", "phone": "+37491000003", "type": "individual",
				"hasAppointment": true,
			},
			wantStatus:  http.StatusBadRequest,
			wantDetails: []string{"appointment"},
		},
		{
			name: "appointment date is validated",
			body: map[string]interface{}{
				"firstName": "Ani", "lastName": "Petrosyan", "phone": "+37491000004", "type": "individual",
				"hasAppointment": true, "appointment": map[string]interface{}{"date": "tomorrow"},
			},
			wantStatus:  http.StatusBadRequest,
			wantDetails: []string{"appointment.date"},
		},
		{
			name: "legal entity with appointment",
			body: map[string]interface{}{
				"firstName": "Ani", "lastName": "Petrosyan", "phone": "+37491000005", "type": "legal",
				"taxId": "02500000", "email": "ani@example.com",
				"hasAppointment": true, "appointment": map[string]interface{}{"date": "2026-11-02", "note": "demo"},
			},
			wantStatus: http.StatusCreated,
		},
	}

	router, _ := setupTestRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/v1/customers/add", tt.body)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if len(tt.wantDetails) == 0 {
				assert.NotZero(t, decode[models.Customer](t, w).ID)
				return
			}
			resp := decode[apierrors.ErrorResponse](t, w)
			assert.Equal(t, apierrors.ErrValidation, resp.Error.Code)
			for _, field := range tt.wantDetails {
				assert.Contains(t, resp.Error.Details, field)
			}
		})
	}
}

func TestCustomerHandler_DuplicatePhone(t *testing.T) {
	router, _ := setupTestRouter(t)
	body := map[string]interface{}{"firstName": "A", "lastName": "B", "phone": "+37491000009", "type": "individual"}

	w := doJSON(t, router, http.MethodPost, "/api/v1/customers/add", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/customers/add", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apierrors.ErrConflict, errorCode(t, w))
}
