package mod

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry holds the runtime records of all known mods, one per ID.
//
// The registry guards its own map. Fields of a record are not guarded: callers
// must not run two installs of the same mod at the same time.
type Registry struct {
	mu      sync.RWMutex
	records map[ID]*Record
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[ID]*Record)}
}

// Get returns the record for id.
func (r *Registry) Get(id ID) (*Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	return rec, ok
}

// Add inserts rec. It fails if a record with the same ID already exists.
func (r *Registry) Add(rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[rec.ID()]; ok {
		return fmt.Errorf("mod %s is already registered", rec.ID())
	}
	r.records[rec.ID()] = rec
	return nil
}

// GetOrAdd returns the record registered for rec's ID, inserting rec if there is none.
func (r *Registry) GetOrAdd(rec *Record) *Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.records[rec.ID()]; ok {
		return existing
	}
	r.records[rec.ID()] = rec
	return rec
}

// Remove deletes the record for id.
func (r *Registry) Remove(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, id)
}

// Len returns the number of registered mods.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// All returns every record sorted by display name.
func (r *Registry) All() []*Record {
	r.mu.RLock()
	all := make([]*Record, 0, len(r.records))
	for _, rec := range r.records {
		all = append(all, rec)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return strings.ToLower(all[i].Name()) < strings.ToLower(all[j].Name())
	})
	return all
}

// FindByName returns the record whose mod ID matches name, case-insensitively.
// Mods of every type are considered, UMM first.
func (r *Registry) FindByName(name string) (*Record, bool) {
	if rec, ok := r.Get(ID{ID: name, Type: TypeUMM}); ok {
		return rec, true
	}
	for _, rec := range r.All() {
		if strings.EqualFold(rec.ID().ID, name) {
			return rec, true
		}
	}
	return nil, false
}
