package battle

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Registry maps battle IDs to their managers. It is an explicit object
// owned by the calling application, never a package-level singleton; each
// battle entry is created and destroyed through it.
type Registry struct {
	mu      sync.Mutex
	battles map[string]*Manager
}

func NewRegistry() *Registry {
	return &Registry{battles: make(map[string]*Manager)}
}

// Create assigns the state a fresh battle ID, starts a manager for it and
// registers the pair.
func (r *Registry) Create(st *State) *Manager {
	st.ID = uuid.NewString()
	m := NewManager(st)

	r.mu.Lock()
	r.battles[st.ID] = m
	r.mu.Unlock()
	return m
}

// Get returns the manager for a battle ID.
func (r *Registry) Get(id string) (*Manager, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.battles[id]
	return m, ok
}

// Remove closes the battle's manager and drops it from the registry.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	m, ok := r.battles[id]
	delete(r.battles, id)
	r.mu.Unlock()

	if ok {
		m.Close()
	}
}

// IDs returns the registered battle IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.battles))
	for id := range r.battles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len reports the number of live battles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.battles)
}
