package engine

import (
	"log/slog"

	"github.com/stratagem/techtree/internal/tech"
)

// Unlock attempts to unlock the technology with the given id.
//
// If the technology is currently unlockable, its id is inserted into the
// caller-owned unlocked set and Unlock returns true. Otherwise the set is
// left untouched and Unlock returns false.
//
// Re-unlocking an already-unlocked id is a no-op insert under set semantics
// and still returns true as long as the technology remains eligible.
func Unlock(reg *tech.Registry, id string, unlocked tech.Set, points int) bool {
	if !Unlockable(reg, id, unlocked, points) {
		slog.Debug("unlock refused", "tech", id, "points", points)
		return false
	}
	unlocked.Add(id)
	slog.Debug("unlocked technology", "tech", id)
	return true
}
