package repository

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stwalsh4118/orgdesk/internal/models"
)

// MemStore is an in-process implementation of every repository.
// It enforces the same reference rules as the PostgreSQL foreign keys, so a
// node with children (or a district referenced by a building) cannot be
// deleted. It backs STORAGE=memory and end-to-end tests.
type MemStore struct {
	mu        sync.RWMutex
	now       func() time.Time
	nextID    int64
	geo       map[int64]models.GeoNode
	projects  map[int64]models.Project
	tickets   map[int64]models.Ticket
	customers map[int64]models.Customer
}

// NewMemStore creates an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		now:       time.Now,
		geo:       make(map[int64]models.GeoNode),
		projects:  make(map[int64]models.Project),
		tickets:   make(map[int64]models.Ticket),
		customers: make(map[int64]models.Customer),
	}
}

// Ping always succeeds.
func (s *MemStore) Ping(context.Context) error { return nil }

// Geo returns the store's GeoRepository view.
func (s *MemStore) Geo() GeoRepository { return memGeo{s} }

// Projects returns the store's ProjectRepository view.
func (s *MemStore) Projects() ProjectRepository { return memProjects{s} }

// Tickets returns the store's TicketRepository view.
func (s *MemStore) Tickets() TicketRepository { return memTickets{s} }

// Customers returns the store's CustomerRepository view.
func (s *MemStore) Customers() CustomerRepository { return memCustomers{s} }

// id must be called with mu held for writing.
func (s *MemStore) id() int64 {
	s.nextID++
	return s.nextID
}

type memGeo struct{ s *MemStore }

func (m memGeo) List(_ context.Context, q GeoQuery) ([]models.GeoNode, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	nodes := []models.GeoNode{}
	for _, n := range m.s.geo {
		if n.Level != q.Level {
			continue
		}
		if q.ParentID != nil && (n.ParentID == nil || *n.ParentID != *q.ParentID) {
			continue
		}
		if q.DistrictID != nil && (n.DistrictID == nil || *n.DistrictID != *q.DistrictID) {
			continue
		}
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Name != nodes[j].Name {
			return nodes[i].Name < nodes[j].Name
		}
		return nodes[i].ID < nodes[j].ID
	})
	return nodes, nil
}

func (m memGeo) Get(_ context.Context, id int64) (*models.GeoNode, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	n, ok := m.s.geo[id]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

// checkRefs must be called with mu held. A dangling reference is reported
// as ErrHasRelation, like a foreign key violation.
func (m memGeo) checkRefs(node models.GeoNode) error {
	for _, ref := range []*int64{node.ParentID, node.DistrictID} {
		if ref == nil {
			continue
		}
		if _, ok := m.s.geo[*ref]; !ok {
			return ErrHasRelation
		}
	}
	return nil
}

func (m memGeo) Create(_ context.Context, node models.GeoNode) (*models.GeoNode, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if err := m.checkRefs(node); err != nil {
		return nil, err
	}
	now := m.s.now()
	node.ID = m.s.id()
	node.CreatedAt, node.UpdatedAt = now, now
	m.s.geo[node.ID] = node
	return &node, nil
}

func (m memGeo) Update(_ context.Context, node models.GeoNode) (*models.GeoNode, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	cur, ok := m.s.geo[node.ID]
	if !ok || cur.Level != node.Level {
		return nil, ErrNotFound
	}
	if err := m.checkRefs(node); err != nil {
		return nil, err
	}
	node.CreatedAt = cur.CreatedAt
	node.UpdatedAt = m.s.now()
	m.s.geo[node.ID] = node
	return &node, nil
}

func (m memGeo) Delete(_ context.Context, level models.Level, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	cur, ok := m.s.geo[id]
	if !ok || cur.Level != level {
		return ErrNotFound
	}
	for _, n := range m.s.geo {
		if (n.ParentID != nil && *n.ParentID == id) || (n.DistrictID != nil && *n.DistrictID == id) {
			return ErrHasRelation
		}
	}
	delete(m.s.geo, id)
	return nil
}

type memProjects struct{ s *MemStore }

func (m memProjects) Create(_ context.Context, in models.ProjectInput) (*models.Project, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	p := models.Project{
		ID:        m.s.id(),
		Name:      in.Name,
		Manager:   in.Manager,
		Active:    in.Active,
		CreatedAt: m.s.now(),
	}
	m.s.projects[p.ID] = p
	return &p, nil
}

func (m memProjects) Get(_ context.Context, id int64) (*models.Project, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	p, ok := m.s.projects[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m memProjects) SetActive(_ context.Context, id int64, active bool) (*models.Project, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	p, ok := m.s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Active = active
	m.s.projects[id] = p
	return &p, nil
}

func (m memProjects) Search(_ context.Context, f models.ProjectFilter) ([]models.Project, int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var matched []models.Project
	for _, p := range m.s.projects {
		if f.Name != "" && !containsFold(p.Name, f.Name) {
			continue
		}
		if f.Status != nil && p.Active != *f.Status {
			continue
		}
		if len(f.Managers) > 0 && !slices.Contains(f.Managers, p.Manager) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	return paginate(matched, f.Page, f.Size), int64(len(matched)), nil
}

type memTickets struct{ s *MemStore }

func (m memTickets) Create(_ context.Context, in models.TicketInput) (*models.Ticket, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.projects[in.ProjectID]; !ok {
		return nil, ErrNotFound
	}
	t := models.Ticket{
		ID:          m.s.id(),
		ProjectID:   in.ProjectID,
		Name:        in.Name,
		Description: in.Description,
		Assignee:    in.Assignee,
		Active:      in.Active,
		CreatedAt:   m.s.now(),
	}
	m.s.tickets[t.ID] = t
	return &t, nil
}

func (m memTickets) Delete(_ context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.tickets[id]; !ok {
		return ErrNotFound
	}
	delete(m.s.tickets, id)
	return nil
}

func (m memTickets) Search(_ context.Context, f models.TicketFilter) ([]models.Ticket, int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var matched []models.Ticket
	for _, t := range m.s.tickets {
		if f.Name != "" && !containsFold(t.Name, f.Name) {
			continue
		}
		if f.Status != nil && t.Active != *f.Status {
			continue
		}
		if len(f.ProjectIDs) > 0 && !slices.Contains(f.ProjectIDs, t.ProjectID) {
			continue
		}
		if len(f.Assignees) > 0 && !slices.Contains(f.Assignees, t.Assignee) {
			continue
		}
		if !f.CreatedFrom.IsZero() && t.CreatedAt.Before(f.CreatedFrom) {
			continue
		}
		if !f.CreatedTo.IsZero() && !t.CreatedAt.Before(f.CreatedTo.AddDate(0, 0, 1)) {
			continue
		}
		matched = append(matched, t)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	return paginate(matched, f.Page, f.Size), int64(len(matched)), nil
}

type memCustomers struct{ s *MemStore }

func (m memCustomers) Create(_ context.Context, in models.CustomerInput) (*models.Customer, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, c := range m.s.customers {
		if c.Phone == in.Phone {
			return nil, ErrDuplicate
		}
	}
	c := models.Customer{ID: m.s.id(), CustomerInput: in, CreatedAt: m.s.now()}
	m.s.customers[c.ID] = c
	return &c, nil
}

func paginate[T any](items []T, page, size int) []T {
	out := []T{}
	if size <= 0 {
		return out
	}
	start := models.Offset(page, size)
	if start < 0 || start >= len(items) {
		return out
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return append(out, items[start:end]...)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
