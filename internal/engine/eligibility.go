package engine

import (
	"github.com/stratagem/techtree/internal/tech"
)

// Unlockable reports whether the technology with the given id could be
// unlocked right now, given the unlocked set and the available points.
//
// An unknown id is not an error; it is simply never unlockable. Otherwise
// the technology is eligible iff its prerequisite condition is satisfied by
// the unlocked set AND its cost fits the points budget.
//
// Note the disjunctive empty case: a KindAny technology with no listed
// prerequisites is never eligible, regardless of budget. See tech.Prereqs.
func Unlockable(reg *tech.Registry, id string, unlocked tech.Set, points int) bool {
	t, ok := reg.Get(id)
	if !ok {
		return false
	}
	return t.Prereqs.SatisfiedBy(unlocked) && t.Cost <= points
}

// ListUnlockable returns every id for which Unlockable holds, sorted by id.
//
// The ordering is a determinism contract: callers and tests may rely on
// stable output for equal inputs.
func ListUnlockable(reg *tech.Registry, unlocked tech.Set, points int) []string {
	var ids []string
	for _, id := range reg.IDs() {
		if Unlockable(reg, id, unlocked, points) {
			ids = append(ids, id)
		}
	}
	return ids
}
