package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stratagem/techtree/internal/tech"
)

// buildRegistry assembles a registry from the given technologies.
func buildRegistry(techs ...tech.Technology) *tech.Registry {
	reg := tech.NewRegistry()
	for _, t := range techs {
		reg.Add(t)
	}
	return reg
}

func TestUnlockable_Conjunctive(t *testing.T) {
	reg := buildRegistry(
		tech.Technology{ID: "pottery", Prereqs: tech.RequireAll(), Cost: 5},
		tech.Technology{ID: "writing", Prereqs: tech.RequireAll("pottery"), Cost: 10},
		tech.Technology{ID: "currency", Prereqs: tech.RequireAll("pottery", "writing"), Cost: 20},
	)

	tests := []struct {
		name     string
		id       string
		unlocked tech.Set
		points   int
		want     bool
	}{
		{"empty prereqs, affordable", "pottery", tech.NewSet(), 5, true},
		{"empty prereqs, unaffordable", "pottery", tech.NewSet(), 4, false},
		{"prereq missing", "writing", tech.NewSet(), 15, false},
		{"prereq present", "writing", tech.NewSet("pottery"), 15, true},
		{"prereq present, unaffordable", "writing", tech.NewSet("pottery"), 9, false},
		{"partial prereqs", "currency", tech.NewSet("pottery"), 100, false},
		{"all prereqs", "currency", tech.NewSet("pottery", "writing"), 20, true},
		{"unknown id", "nonexistent", tech.NewSet("pottery"), 100, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Unlockable(reg, tc.id, tc.unlocked, tc.points))
		})
	}
}

func TestUnlockable_Disjunctive(t *testing.T) {
	reg := buildRegistry(
		tech.Technology{ID: "sailing", Prereqs: tech.RequireAny("astronomy", "fishing"), Cost: 12},
		tech.Technology{ID: "mysticism", Prereqs: tech.RequireAny(), Cost: 0},
	)

	tests := []struct {
		name     string
		id       string
		unlocked tech.Set
		points   int
		want     bool
	}{
		{"one branch unlocked", "sailing", tech.NewSet("fishing"), 12, true},
		{"other branch unlocked", "sailing", tech.NewSet("astronomy"), 12, true},
		{"both branches unlocked", "sailing", tech.NewSet("astronomy", "fishing"), 12, true},
		{"no branch unlocked", "sailing", tech.NewSet("pottery"), 12, false},
		{"branch unlocked, unaffordable", "sailing", tech.NewSet("fishing"), 11, false},
		// The intentional asymmetry: an empty disjunction is never satisfiable,
		// even at zero cost with a rich unlocked set.
		{"empty disjunction, empty set", "mysticism", tech.NewSet(), 100, false},
		{"empty disjunction, rich set", "mysticism", tech.NewSet("a", "b", "c"), 100, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Unlockable(reg, tc.id, tc.unlocked, tc.points))
		})
	}
}

func TestListUnlockable(t *testing.T) {
	reg := buildRegistry(
		tech.Technology{ID: "pottery", Prereqs: tech.RequireAll(), Cost: 5},
		tech.Technology{ID: "archery", Prereqs: tech.RequireAll(), Cost: 3},
		tech.Technology{ID: "writing", Prereqs: tech.RequireAll("pottery"), Cost: 10},
		tech.Technology{ID: "sailing", Prereqs: tech.RequireAny("fishing"), Cost: 4},
	)

	got := ListUnlockable(reg, tech.NewSet(), 5)
	assert.Equal(t, []string{"archery", "pottery"}, got, "sorted by id")

	got = ListUnlockable(reg, tech.NewSet("pottery", "fishing"), 10)
	assert.Equal(t, []string{"archery", "sailing", "writing"}, got)

	got = ListUnlockable(reg, tech.NewSet(), 0)
	assert.Empty(t, got)
}
