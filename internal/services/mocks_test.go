package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/stwalsh4118/orgdesk/internal/models"
	"github.com/stwalsh4118/orgdesk/internal/repository"
)

// MockGeoRepository is a mock implementation of GeoRepository for testing
type MockGeoRepository struct {
	mock.Mock
}

func (m *MockGeoRepository) List(ctx context.Context, q repository.GeoQuery) ([]models.GeoNode, error) {
	args := m.Called(ctx, q)
	nodes, _ := args.Get(0).([]models.GeoNode)
	return nodes, args.Error(1)
}

func (m *MockGeoRepository) Get(ctx context.Context, id int64) (*models.GeoNode, error) {
	args := m.Called(ctx, id)
	node, _ := args.Get(0).(*models.GeoNode)
	return node, args.Error(1)
}

func (m *MockGeoRepository) Create(ctx context.Context, node models.GeoNode) (*models.GeoNode, error) {
	args := m.Called(ctx, node)
	created, _ := args.Get(0).(*models.GeoNode)
	return created, args.Error(1)
}

func (m *MockGeoRepository) Update(ctx context.Context, node models.GeoNode) (*models.GeoNode, error) {
	args := m.Called(ctx, node)
	updated, _ := args.Get(0).(*models.GeoNode)
	return updated, args.Error(1)
}

func (m *MockGeoRepository) Delete(ctx context.Context, level models.Level, id int64) error {
	args := m.Called(ctx, level, id)
	return args.Error(0)
}

// MockProjectRepository is a mock implementation of ProjectRepository for testing
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	args := m.Called(ctx, in)
	p, _ := args.Get(0).(*models.Project)
	return p, args.Error(1)
}

func (m *MockProjectRepository) Get(ctx context.Context, id int64) (*models.Project, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Project)
	return p, args.Error(1)
}

func (m *MockProjectRepository) SetActive(ctx context.Context, id int64, active bool) (*models.Project, error) {
	args := m.Called(ctx, id, active)
	p, _ := args.Get(0).(*models.Project)
	return p, args.Error(1)
}

func (m *MockProjectRepository) Search(ctx context.Context, f models.ProjectFilter) ([]models.Project, int64, error) {
	args := m.Called(ctx, f)
	projects, _ := args.Get(0).([]models.Project)
	return projects, args.Get(1).(int64), args.Error(2)
}

// MockTicketRepository is a mock implementation of TicketRepository for testing
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, in models.TicketInput) (*models.Ticket, error) {
	args := m.Called(ctx, in)
	t, _ := args.Get(0).(*models.Ticket)
	return t, args.Error(1)
}

func (m *MockTicketRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTicketRepository) Search(ctx context.Context, f models.TicketFilter) ([]models.Ticket, int64, error) {
	args := m.Called(ctx, f)
	tickets, _ := args.Get(0).([]models.Ticket)
	return tickets, args.Get(1).(int64), args.Error(2)
}

// MockCustomerRepository is a mock implementation of CustomerRepository for testing
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, in models.CustomerInput) (*models.Customer, error) {
	args := m.Called(ctx, in)
	c, _ := args.Get(0).(*models.Customer)
	return c, args.Error(1)
}

func int64Ptr(v int64) *int64 { return &v }
