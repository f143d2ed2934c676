package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratagem/techtree/internal/tech"
)

func TestUnlock_Eligible(t *testing.T) {
	reg := buildRegistry(
		tech.Technology{ID: "pottery", Prereqs: tech.RequireAll(), Cost: 5},
		tech.Technology{ID: "writing", Prereqs: tech.RequireAll("pottery"), Cost: 10},
	)
	unlocked := tech.NewSet()

	require.True(t, Unlock(reg, "pottery", unlocked, 15))
	assert.True(t, unlocked.Has("pottery"))

	// Unlocking pottery makes writing eligible against the mutated set.
	require.True(t, Unlock(reg, "writing", unlocked, 15))
	assert.Equal(t, []string{"pottery", "writing"}, unlocked.IDs())
}

func TestUnlock_IneligibleLeavesSetUntouched(t *testing.T) {
	reg := buildRegistry(
		tech.Technology{ID: "writing", Prereqs: tech.RequireAll("pottery"), Cost: 10},
	)
	unlocked := tech.NewSet()

	assert.False(t, Unlock(reg, "writing", unlocked, 15), "prereq missing")
	assert.False(t, Unlock(reg, "nonexistent", unlocked, 15), "unknown id")
	assert.Empty(t, unlocked.IDs())
}

func TestUnlock_Idempotent(t *testing.T) {
	reg := buildRegistry(
		tech.Technology{ID: "pottery", Prereqs: tech.RequireAll(), Cost: 5},
	)
	unlocked := tech.NewSet()

	require.True(t, Unlock(reg, "pottery", unlocked, 15))
	// Still eligible, so a repeat unlock succeeds as a no-op insert.
	assert.True(t, Unlock(reg, "pottery", unlocked, 15))
	assert.Equal(t, []string{"pottery"}, unlocked.IDs())
}

func TestUnlock_SpecScenario(t *testing.T) {
	// The worked scenario: pottery (free of prereqs, cost 5) gates
	// writing (cost 10), with 15 points available.
	reg := buildRegistry(
		tech.Technology{ID: "pottery", Prereqs: tech.RequireAll(), Cost: 5},
		tech.Technology{ID: "writing", Prereqs: tech.RequireAll("pottery"), Cost: 10},
	)
	unlocked := tech.NewSet()

	assert.True(t, Unlockable(reg, "pottery", unlocked, 15))
	assert.False(t, Unlockable(reg, "writing", unlocked, 15))

	require.True(t, Unlock(reg, "pottery", unlocked, 15))
	assert.True(t, Unlockable(reg, "writing", unlocked, 15))

	path, ok := FindPath(reg, "writing", unlocked, 15)
	require.True(t, ok)
	assert.Equal(t, []string{"pottery"}, path)
}
