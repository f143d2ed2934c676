package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratagem/techtree/internal/tech"
)

func lintRegistry(techs ...tech.Technology) []LintWarning {
	reg := tech.NewRegistry()
	for _, t := range techs {
		reg.Add(t)
	}
	return Lint(reg)
}

func TestLint_CleanRegistry(t *testing.T) {
	warnings := lintRegistry(
		tech.Technology{ID: "pottery", Prereqs: tech.RequireAll(), Cost: 5},
		tech.Technology{ID: "writing", Prereqs: tech.RequireAll("pottery"), Cost: 10},
	)
	assert.Empty(t, warnings)
}

func TestLint_DanglingPrereq(t *testing.T) {
	warnings := lintRegistry(
		tech.Technology{ID: "sailing", Prereqs: tech.RequireAny("fishing", "astronomy"), Cost: 12},
	)

	require.Len(t, warnings, 2, "one warning per dangling id")
	assert.Equal(t, WarnDanglingPrereq, warnings[0].Code)
	assert.Equal(t, "sailing", warnings[0].TechID)
	assert.Contains(t, warnings[0].Message, "astronomy", "prereqs reported in id order")
	assert.Contains(t, warnings[1].Message, "fishing")
}

func TestLint_TwoNodeCycle(t *testing.T) {
	warnings := lintRegistry(
		tech.Technology{ID: "alpha", Prereqs: tech.RequireAll("omega"), Cost: 1},
		tech.Technology{ID: "omega", Prereqs: tech.RequireAll("alpha"), Cost: 1},
	)

	require.Len(t, warnings, 1)
	w := warnings[0]
	assert.Equal(t, WarnPrereqCycle, w.Code)
	assert.Equal(t, []string{"alpha", "omega", "alpha"}, w.Path)
	assert.Contains(t, w.Message, "alpha -> omega -> alpha")
}

func TestLint_SelfLoop(t *testing.T) {
	warnings := lintRegistry(
		tech.Technology{ID: "paradox", Prereqs: tech.RequireAll("paradox"), Cost: 1},
	)

	require.Len(t, warnings, 1)
	assert.Equal(t, WarnPrereqCycle, warnings[0].Code)
	assert.Equal(t, []string{"paradox", "paradox"}, warnings[0].Path)
}

func TestLint_DisjunctiveEdgesCountToo(t *testing.T) {
	// Cycle detection treats both kinds identically - an any-of edge still
	// closes a cycle.
	warnings := lintRegistry(
		tech.Technology{ID: "alpha", Prereqs: tech.RequireAny("omega", "escape"), Cost: 1},
		tech.Technology{ID: "omega", Prereqs: tech.RequireAll("alpha"), Cost: 1},
		tech.Technology{ID: "escape", Prereqs: tech.RequireAll(), Cost: 1},
	)

	require.Len(t, warnings, 1)
	assert.Equal(t, WarnPrereqCycle, warnings[0].Code)
}

func TestLint_AcyclicSharedSubtree(t *testing.T) {
	// Diamond shape: two paths into the same prerequisite is not a cycle.
	warnings := lintRegistry(
		tech.Technology{ID: "base", Prereqs: tech.RequireAll(), Cost: 1},
		tech.Technology{ID: "left", Prereqs: tech.RequireAll("base"), Cost: 1},
		tech.Technology{ID: "right", Prereqs: tech.RequireAll("base"), Cost: 1},
		tech.Technology{ID: "top", Prereqs: tech.RequireAll("left", "right"), Cost: 1},
	)
	assert.Empty(t, warnings)
}
