package cascade

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/stwalsh4118/orgdesk/internal/client"
	"github.com/stwalsh4118/orgdesk/internal/logger"
	"github.com/stwalsh4118/orgdesk/internal/models"
	"golang.org/x/sync/errgroup"
)

// Row messages shown next to a node whose delete failed.
const (
	MessageInUse        = "Չի կարող ջնջվել, քանի որ օգտագործվում է այլ տվյալներում"
	MessageDeleteFailed = "Չհաջողվեց ջնջել"
)

var (
	// ErrParentNotSelected is returned when a level's parent has no selection.
	ErrParentNotSelected = errors.New("parent level has no selection")

	// ErrParentNotLoaded is returned when a referenced node is missing from
	// the loaded option list, so its name cannot be sent.
	ErrParentNotLoaded = errors.New("referenced node is not in the loaded list")

	// ErrNodeNotLoaded is returned when the node being edited is not listed.
	ErrNodeNotLoaded = errors.New("node is not in the loaded list")
)

// API is the part of the admin client the hierarchy drives.
type API interface {
	ListGeo(ctx context.Context, level models.Level, parentID *int64) ([]models.GeoNode, error)
	ListBuildings(ctx context.Context, streetID int64, districtID *int64) ([]models.GeoNode, error)
	CreateGeo(ctx context.Context, level models.Level, in models.GeoInput) (*models.GeoNode, error)
	UpdateGeo(ctx context.Context, level models.Level, id int64, in models.GeoInput) (*models.GeoNode, error)
	DeleteGeo(ctx context.Context, level models.Level, id int64) error
}

// LevelView is one level as seen by a renderer.
type LevelView struct {
	Err      error
	Selected *int64
	Items    []models.GeoNode
	Loading  bool
	Disabled bool
}

// Snapshot is a consistent view of every level.
type Snapshot map[models.Level]LevelView

// DeleteOutcome reports a delete attempt for one row.
type DeleteOutcome struct {
	Err     error
	Message string
	ID      int64
	Deleted bool
}

// Hierarchy coordinates one selector per level. Selecting a level clears
// every selection and option list of higher rank in the same step.
type Hierarchy struct {
	api       API
	log       *logger.Logger
	mu        sync.Mutex
	selected  map[models.Level]*int64
	selectors map[models.Level]*Selector
}

// NewHierarchy creates a hierarchy and starts loading the countries.
func NewHierarchy(api API, log *logger.Logger) *Hierarchy {
	if log == nil {
		log = logger.Nop()
	}
	h := &Hierarchy{
		api:       api,
		log:       log.Named("cascade"),
		selected:  make(map[models.Level]*int64),
		selectors: make(map[models.Level]*Selector),
	}
	for _, level := range models.Levels() {
		_, hasParent := level.Parent()
		h.selectors[level] = NewSelector(h.fetcher(level), !hasParent, h.log.With(map[string]interface{}{
			"level": string(level),
		}))
	}
	h.selectors[models.LevelCountry].SetParent(nil)
	return h
}

func (h *Hierarchy) fetcher(level models.Level) Fetcher {
	if level == models.LevelBuilding {
		return func(ctx context.Context, q Query) ([]models.GeoNode, error) {
			return h.api.ListBuildings(ctx, *q.Parent, q.District)
		}
	}
	return func(ctx context.Context, q Query) ([]models.GeoNode, error) {
		return h.api.ListGeo(ctx, level, q.Parent)
	}
}

// queryFor must be called with mu held.
func (h *Hierarchy) queryFor(level models.Level) Query {
	var q Query
	if p, ok := level.Parent(); ok {
		q.Parent = h.selected[p]
	}
	if level == models.LevelBuilding {
		q.District = h.selected[models.LevelDistrict]
	}
	return q
}

// Select sets the selection of level, or unsets it when id is nil.
func (h *Hierarchy) Select(level models.Level, id *int64) error {
	if !level.Valid() {
		return fmt.Errorf("select: unknown level %q", level)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.disabled(level) && id != nil {
		return ErrParentNotSelected
	}
	if id != nil {
		v := *id
		id = &v
	}
	h.selected[level] = id

	for _, l := range models.Levels() {
		if l.Rank() > level.Rank() {
			h.selected[l] = nil
		}
	}
	for _, l := range models.Levels() {
		if l.Rank() > level.Rank() {
			h.selectors[l].SetQuery(h.queryFor(l))
		}
	}
	return nil
}

// Reset clears every selection.
func (h *Hierarchy) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, l := range models.Levels() {
		h.selected[l] = nil
	}
	for _, l := range models.Levels() {
		if _, hasParent := l.Parent(); hasParent {
			h.selectors[l].SetQuery(Query{})
		}
	}
}

// Selected returns the selection of level.
func (h *Hierarchy) Selected(level models.Level) *int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.selected[level]
}

// Disabled reports whether level's parent has no selection.
func (h *Hierarchy) Disabled(level models.Level) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.disabled(level)
}

func (h *Hierarchy) disabled(level models.Level) bool {
	p, ok := level.Parent()
	return ok && h.selected[p] == nil
}

// State returns the selector state of level.
func (h *Hierarchy) State(level models.Level) State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.selectors[level].State()
}

// Snapshot returns every level at one instant.
func (h *Hierarchy) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	snap := make(Snapshot, len(h.selectors))
	for level, sel := range h.selectors {
		st := sel.State()
		snap[level] = LevelView{
			Selected: h.selected[level],
			Items:    st.Items,
			Loading:  st.Loading,
			Err:      st.Err,
			Disabled: h.disabled(level),
		}
	}
	return snap
}

// Wait blocks until every level's latest fetch has settled.
func (h *Hierarchy) Wait(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, sel := range h.selectors {
		g.Go(func() error { return sel.Wait(ctx) })
	}
	return g.Wait()
}

// Close stops every selector.
func (h *Hierarchy) Close() {
	for _, sel := range h.selectors {
		sel.Close()
	}
}

// Create adds a node under the selected parent of level. For buildings,
// districtID optionally links the building to a loaded district.
func (h *Hierarchy) Create(ctx context.Context, level models.Level, name string, districtID *int64) (*models.GeoNode, error) {
	h.mu.Lock()
	parent, err := h.parentRef(level)
	var district *models.Ref
	if err == nil && level == models.LevelBuilding && districtID != nil {
		district, err = h.ref(models.LevelDistrict, *districtID, true)
	}
	h.mu.Unlock()
	if err != nil {
		return nil, err
	}

	node, err := h.api.CreateGeo(ctx, level, models.NewGeoInput(level, name, parent, district))
	if err != nil {
		h.log.Error("Failed to create node", err, map[string]interface{}{"level": string(level), "name": name})
		return nil, err
	}
	h.refresh(level)
	return node, nil
}

// Update renames a loaded node of level, keeping its parent and district.
func (h *Hierarchy) Update(ctx context.Context, level models.Level, id int64, name string) (*models.GeoNode, error) {
	h.mu.Lock()
	var (
		current  *models.GeoNode
		parent   *models.Ref
		district *models.Ref
		err      error
	)
	current = findNode(h.selectors[level].State().Items, id)
	if current == nil {
		err = ErrNodeNotLoaded
	}
	if err == nil {
		parent, err = h.parentRef(level)
	}
	if err == nil && current.DistrictID != nil {
		district, err = h.ref(models.LevelDistrict, *current.DistrictID, false)
	}
	h.mu.Unlock()
	if err != nil {
		return nil, err
	}

	node, err := h.api.UpdateGeo(ctx, level, id, models.NewGeoInput(level, name, parent, district))
	if err != nil {
		h.log.Error("Failed to update node", err, map[string]interface{}{"level": string(level), "id": id})
		return nil, err
	}
	h.refresh(level)
	return node, nil
}

// Delete removes a node. Failures are reported on the outcome's Message;
// the level's list is reloaded either way.
func (h *Hierarchy) Delete(ctx context.Context, level models.Level, id int64) DeleteOutcome {
	err := h.api.DeleteGeo(ctx, level, id)
	out := DeleteOutcome{ID: id, Deleted: err == nil, Err: err, Message: DeleteMessage(err)}
	if err != nil && !client.IsRelationConflict(err) {
		h.log.Error("Failed to delete node", err, map[string]interface{}{"level": string(level), "id": id})
	}

	if out.Deleted {
		h.mu.Lock()
		sel := h.selected[level]
		h.mu.Unlock()
		if sel != nil && *sel == id {
			_ = h.Select(level, nil)
		}
	}
	h.refresh(level)
	return out
}

// DeleteMessage returns the row message for a delete that ended with err,
// or "" when it succeeded.
func DeleteMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case client.IsRelationConflict(err):
		return MessageInUse
	default:
		return MessageDeleteFailed
	}
}

// refresh reloads the option list of level for the current selections.
func (h *Hierarchy) refresh(level models.Level) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.selectors[level].RefetchQuery(h.queryFor(level))
}

// parentRef must be called with mu held. It returns nil for the root.
func (h *Hierarchy) parentRef(level models.Level) (*models.Ref, error) {
	p, ok := level.Parent()
	if !ok {
		return nil, nil
	}
	id := h.selected[p]
	if id == nil {
		return nil, ErrParentNotSelected
	}
	return h.ref(p, *id, true)
}

// ref must be called with mu held. Without strict, a node missing from
// the list is referenced by id alone.
func (h *Hierarchy) ref(level models.Level, id int64, strict bool) (*models.Ref, error) {
	if n := findNode(h.selectors[level].State().Items, id); n != nil {
		return &models.Ref{ID: n.ID, Name: n.Name}, nil
	}
	if strict {
		return nil, fmt.Errorf("%s %d: %w", level, id, ErrParentNotLoaded)
	}
	return &models.Ref{ID: id}, nil
}

func findNode(items []models.GeoNode, id int64) *models.GeoNode {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}
