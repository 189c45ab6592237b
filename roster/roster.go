package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"arena-lite/combatant"
)

// Template defines a named character blueprint. Templates are immutable
// once registered; Build stamps out fresh battle-ready characters.
type Template struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Tagline   string                  `json:"tagline"`
	Archetype combatant.Archetype     `json:"archetype"`
	Tier      int                     `json:"tier"` // 1=champion, 2=regular, 3=recruit
	Level     int                     `json:"level"`
	MaxHealth int                     `json:"maxHealth"`
	Strength  int                     `json:"strength"`
	Defense   int                     `json:"defense"`
	Speed     int                     `json:"speed"`
	Psych     combatant.PsychProfile  `json:"psych"`
	Traits    []string                `json:"traits"`
	Hates     []string                `json:"hates"`
}

// Build instantiates a fresh character from the template at full health.
func (t *Template) Build() *combatant.Character {
	return &combatant.Character{
		ID:                t.ID,
		Name:              t.Name,
		Archetype:         t.Archetype,
		Level:             t.Level,
		CurrentHealth:     t.MaxHealth,
		MaxHealth:         t.MaxHealth,
		Strength:          t.Strength,
		Defense:           t.Defense,
		Speed:             t.Speed,
		Psych:             t.Psych,
		CurrentStress:     0,
		CurrentConfidence: 50 + t.Psych.MentalHealth/5,
		TeamTrust:         t.Psych.TeamPlayer,
		GameplanAdherence: t.Psych.Training,
		PersonalityTraits: append([]string(nil), t.Traits...),
		Relationships:     make(map[string]int),
		HatedTeammates:    append([]string(nil), t.Hates...),
	}
}

// Registry holds all character templates.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewRegistry creates a registry preloaded with the builtin roster.
func NewRegistry() *Registry {
	r := &Registry{templates: make(map[string]*Template)}
	for i := range builtinRoster {
		t := builtinRoster[i]
		r.templates[t.ID] = &t
	}
	return r
}

// LoadFromFile loads character templates from a JSON file.
func (r *Registry) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read roster file: %w", err)
	}
	return r.LoadFromJSON(data)
}

// LoadFromJSON loads character templates from raw JSON bytes. Entries with
// an ID already registered replace the existing template. A malformed entry
// rejects the whole batch; the registry is only touched once every entry
// checks out.
func (r *Registry) LoadFromJSON(data []byte) error {
	var list []*Template
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parse roster JSON: %w", err)
	}
	for i, t := range list {
		if t == nil {
			return fmt.Errorf("roster entry %d: null entry", i)
		}
		if strings.TrimSpace(t.ID) == "" {
			return fmt.Errorf("roster entry %d (%q): missing id", i, t.Name)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range list {
		r.templates[t.ID] = t
	}
	return nil
}

// Get returns a template by ID.
func (r *Registry) Get(id string) *Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.templates[id]
}

// All returns a snapshot of all templates sorted by ID.
func (r *Registry) All() []*Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ByTier returns all templates of the given tier, sorted by ID.
func (r *Registry) ByTier(tier int) []*Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Template
	for _, t := range r.templates {
		if t.Tier == tier {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the total number of registered templates.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.templates)
}
