package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/orgdesk/internal/models"
	"github.com/stwalsh4118/orgdesk/internal/validation"
)

func TestModal_Lifecycle(t *testing.T) {
	var m Modal[models.GeoNode]
	assert.False(t, m.Open())
	assert.Equal(t, ModeClosed, m.Mode())

	m.OpenCreate()
	assert.Equal(t, ModeCreate, m.Mode())
	_, ok := m.Target()
	assert.False(t, ok)

	m.OpenEdit(models.GeoNode{ID: 4, Name: "Shirak"})
	assert.Equal(t, ModeEdit, m.Mode())
	row, ok := m.Target()
	require.True(t, ok)
	assert.Equal(t, "Shirak", row.Name)

	m.Cancel()
	assert.False(t, m.Open())
	_, ok = m.Target()
	assert.False(t, ok)
}

func TestSubmit_ClosedModal(t *testing.T) {
	var m Modal[models.Project]
	err := Submit(context.Background(), &m, models.ProjectInput{Name: "ERP"}, func(context.Context, *models.Project, models.ProjectInput) error {
		t.Fatal("fn must not be called")
		return nil
	})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSubmit_ValidationBlocksCall(t *testing.T) {
	var m Modal[models.Customer]
	m.OpenCreate()

	calls := 0
	draft := models.CustomerInput{
		FirstName:      "Ani",
		LastName:       "Petrosyan",
		Phone:          "+37491000000",
		Type:           models.CustomerLegal,
		HasAppointment: true,
	}
	err := Submit(context.Background(), &m, draft, func(context.Context, *models.Customer, models.CustomerInput) error {
		calls++
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, 0, calls)
	assert.True(t, m.Open(), "modal stays open on validation failure")

	fields := validation.FieldErrors(err)
	assert.Contains(t, fields, "taxId")
	assert.Contains(t, fields, "appointment")
}

func TestSubmit_FailureKeepsSession(t *testing.T) {
	var m Modal[models.GeoNode]
	m.OpenEdit(models.GeoNode{ID: 7, Name: "Lori"})

	boom := errors.New("server unavailable")
	err := Submit(context.Background(), &m, models.GeoInput{Name: "Lori Marz"}, func(_ context.Context, target *models.GeoNode, draft models.GeoInput) error {
		require.NotNil(t, target)
		assert.Equal(t, int64(7), target.ID)
		assert.Equal(t, "Lori Marz", draft.Name)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, ModeEdit, m.Mode())
	row, ok := m.Target()
	require.True(t, ok)
	assert.Equal(t, "Lori", row.Name)
}

func TestSubmit_SuccessCloses(t *testing.T) {
	var m Modal[models.Project]
	m.OpenCreate()

	var got models.ProjectInput
	err := Submit(context.Background(), &m, models.ProjectInput{Name: "CRM", Active: true}, func(_ context.Context, target *models.Project, draft models.ProjectInput) error {
		assert.Nil(t, target)
		got = draft
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "CRM", got.Name)
	assert.False(t, m.Open())
}
