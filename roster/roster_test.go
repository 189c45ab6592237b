package roster

import (
	"strings"
	"testing"
)

func TestBuiltinRosterLoads(t *testing.T) {
	r := NewRegistry()
	if r.Count() != len(builtinRoster) {
		t.Fatalf("Count = %d, want %d", r.Count(), len(builtinRoster))
	}
	if r.Get("vex") == nil {
		t.Fatalf("builtin template vex missing")
	}
	if r.Get("nobody") != nil {
		t.Fatalf("unknown ID returned a template")
	}
}

func TestAllIsSortedAndStable(t *testing.T) {
	r := NewRegistry()
	first := r.All()
	second := r.All()
	if len(first) != len(second) {
		t.Fatalf("All length changed between calls")
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("ordering not stable at %d: %s vs %s", i, first[i].ID, second[i].ID)
		}
		if i > 0 && first[i-1].ID >= first[i].ID {
			t.Fatalf("not sorted at %d: %s >= %s", i, first[i-1].ID, first[i].ID)
		}
	}
}

func TestBuildIsIndependent(t *testing.T) {
	r := NewRegistry()
	tmpl := r.Get("gore")
	a := tmpl.Build()
	b := tmpl.Build()

	if a.CurrentHealth != a.MaxHealth {
		t.Fatalf("built character not at full health: %d/%d", a.CurrentHealth, a.MaxHealth)
	}
	a.Relationships["vex"] = 50
	a.PersonalityTraits[0] = "changed"
	a.HatedTeammates[0] = "changed"
	if len(b.Relationships) != 0 {
		t.Fatalf("relationship map shared between builds")
	}
	if b.PersonalityTraits[0] == "changed" || b.HatedTeammates[0] == "changed" {
		t.Fatalf("trait slices shared between builds")
	}
	if tmpl.Traits[0] == "changed" || tmpl.Hates[0] == "changed" {
		t.Fatalf("template mutated by built character")
	}
}

func TestLoadFromJSONOverrides(t *testing.T) {
	r := NewRegistry()
	data := []byte(`[
		{"id": "vex", "name": "Vex Reforged", "maxHealth": 200},
		{"id": "new1", "name": "Newcomer", "tier": 3}
	]`)
	if err := r.LoadFromJSON(data); err != nil {
		t.Fatalf("LoadFromJSON: %v", err)
	}
	if got := r.Get("vex"); got.Name != "Vex Reforged" || got.MaxHealth != 200 {
		t.Fatalf("override not applied: %+v", got)
	}
	if r.Get("new1") == nil {
		t.Fatalf("new template not registered")
	}
	if r.Count() != len(builtinRoster)+1 {
		t.Fatalf("Count = %d, want %d", r.Count(), len(builtinRoster)+1)
	}
}

// A bad entry rejects the whole batch and leaves the registry untouched,
// including entries earlier in the file.
func TestLoadFromJSONRejectsMissingID(t *testing.T) {
	r := NewRegistry()
	data := []byte(`[
		{"id": "new1", "name": "Newcomer", "tier": 3},
		{"id": "", "name": "Ghost"}
	]`)
	err := r.LoadFromJSON(data)
	if err == nil {
		t.Fatalf("expected error for entry with missing id")
	}
	if !strings.Contains(err.Error(), "entry 1") || !strings.Contains(err.Error(), "Ghost") {
		t.Fatalf("error does not name the bad entry: %v", err)
	}
	if r.Get("new1") != nil {
		t.Fatalf("partial batch was registered")
	}
	if r.Count() != len(builtinRoster) {
		t.Fatalf("Count = %d, want %d", r.Count(), len(builtinRoster))
	}
}

func TestByTier(t *testing.T) {
	r := NewRegistry()
	for _, tmpl := range r.ByTier(1) {
		if tmpl.Tier != 1 {
			t.Fatalf("%s has tier %d", tmpl.ID, tmpl.Tier)
		}
	}
	total := len(r.ByTier(1)) + len(r.ByTier(2)) + len(r.ByTier(3))
	if total != r.Count() {
		t.Fatalf("tiers cover %d of %d templates", total, r.Count())
	}
}
