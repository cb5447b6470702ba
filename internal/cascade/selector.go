// Package cascade implements dependent address-hierarchy selectors: one
// option list per level, each fetched for the selection of its parent.
package cascade

import (
	"context"
	"sync"

	"github.com/stwalsh4118/orgdesk/internal/logger"
	"github.com/stwalsh4118/orgdesk/internal/models"
)

// Query is what a selector's option list is fetched for.
type Query struct {
	Parent   *int64
	District *int64
}

func (q Query) equal(o Query) bool {
	return sameID(q.Parent, o.Parent) && sameID(q.District, o.District)
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// settledCh is a closed channel for selectors with nothing in flight.
var settledCh = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Fetcher loads the option list for q.
type Fetcher func(ctx context.Context, q Query) ([]models.GeoNode, error)

// State is what a selector exposes to its owner.
type State struct {
	Err     error
	Items   []models.GeoNode
	Query   Query
	Loading bool
}

// Selector holds the option list of one level. Only the response of the
// latest fetch is ever applied; superseded fetches are cancelled.
type Selector struct {
	fetch Fetcher
	log   *logger.Logger

	mu      sync.Mutex
	state   State
	gen     uint64
	cancel  context.CancelFunc
	settled chan struct{}
	wg      sync.WaitGroup
	root    bool
	primed  bool
	closed  bool
}

// NewSelector creates a selector. A root selector fetches even without a
// parent; any other selector stays empty until it has one.
func NewSelector(fetch Fetcher, root bool, log *logger.Logger) *Selector {
	if log == nil {
		log = logger.Nop()
	}
	return &Selector{
		fetch:   fetch,
		root:    root,
		log:     log,
		settled: settledCh,
		state:   State{Items: []models.GeoNode{}},
	}
}

// State returns a copy of the current state.
func (s *Selector) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Selector) snapshot() State {
	st := s.state
	st.Items = append([]models.GeoNode(nil), s.state.Items...)
	if st.Items == nil {
		st.Items = []models.GeoNode{}
	}
	return st
}

// SetParent points the selector at parentID. A changed parent clears the
// items before returning and starts a fetch when parentID is set.
func (s *Selector) SetParent(parentID *int64) {
	s.SetQuery(Query{Parent: parentID})
}

// SetQuery is SetParent with the extra district filter used by buildings.
func (s *Selector) SetQuery(q Query) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.primed && q.equal(s.state.Query) {
		return
	}
	s.start(q)
}

// Refetch reloads the list for parentID even if it is unchanged.
func (s *Selector) Refetch(parentID *int64) {
	s.RefetchQuery(Query{Parent: parentID})
}

// RefetchQuery reloads the list for q.
func (s *Selector) RefetchQuery(q Query) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start(q)
}

// start must be called with mu held.
func (s *Selector) start(q Query) {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	gen := s.gen
	s.primed = true

	s.state = State{Items: []models.GeoNode{}, Query: q}
	if s.closed || (q.Parent == nil && !s.root) {
		s.settled = settledCh
		return
	}
	s.state.Loading = true

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.settled = done

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(done)
		defer cancel()

		items, err := s.fetch(ctx, q)

		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.gen {
			return
		}
		s.cancel = nil
		s.state.Loading = false
		if err != nil {
			s.log.Error("Failed to load options", err, map[string]interface{}{
				"parent_id": q.Parent,
			})
			s.state.Err = err
			return
		}
		if items == nil {
			items = []models.GeoNode{}
		}
		s.state.Items = items
	}()
}

// Wait blocks until the latest fetch settles or ctx is done.
func (s *Selector) Wait(ctx context.Context) error {
	for {
		s.mu.Lock()
		gen, ch := s.gen, s.settled
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}

		s.mu.Lock()
		current := gen == s.gen
		s.mu.Unlock()
		if current {
			return nil
		}
	}
}

// Close cancels any fetch in flight and waits for it to exit. The selector
// is left empty and never fetches again.
func (s *Selector) Close() {
	s.mu.Lock()
	s.closed = true
	s.start(Query{})
	s.mu.Unlock()
	s.wg.Wait()
}
