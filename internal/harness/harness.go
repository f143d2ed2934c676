// Package harness runs YAML-defined conformance scenarios against the
// progression engine. Each scenario builds a fresh registry and unlocked
// set, executes its steps in order, and produces a deterministic trace
// suitable for golden snapshots alongside pass/fail expectation checks.
package harness

import (
	"fmt"
	"sort"

	"github.com/stratagem/techtree/internal/engine"
	"github.com/stratagem/techtree/internal/tech"
)

// ErrCodeDependencyExists is the error code recorded when a removal is
// blocked by a dependent technology.
const ErrCodeDependencyExists = "DEPENDENCY_EXISTS"

// TraceEvent records the observed outcome of one step.
type TraceEvent struct {
	Op   string `json:"op"`
	Tech string `json:"tech,omitempty"`

	// OK holds the unlock result, or removal success.
	OK *bool `json:"ok,omitempty"`

	// IDs holds the list result.
	IDs []string `json:"ids,omitempty"`

	// Path and Found hold the path result.
	Path  []string `json:"path,omitempty"`
	Found *bool    `json:"found,omitempty"`

	// Error holds the removal error code, if any.
	Error string `json:"error,omitempty"`

	// Unlocked is the unlocked set after the step, sorted.
	Unlocked []string `json:"unlocked"`
}

// Result is the outcome of running one scenario.
type Result struct {
	ScenarioName string       `json:"scenario_name"`
	Trace        []TraceEvent `json:"trace"`

	// Failures lists expectation mismatches. Empty means the scenario
	// passed.
	Failures []string `json:"-"`
}

// Passed reports whether every step expectation held.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// Run executes a scenario from scratch and returns its result. The only
// error conditions are structural (a step referencing an op the runner
// does not know); expectation mismatches are reported via Result.Failures.
func Run(scenario *Scenario) (*Result, error) {
	reg := buildRegistry(scenario.Technologies)

	unlocked := tech.NewSet(scenario.Unlocked...)

	result := &Result{
		ScenarioName: scenario.Name,
		Trace:        make([]TraceEvent, 0, len(scenario.Steps)),
	}

	for i, step := range scenario.Steps {
		points := scenario.Points
		if step.Points != nil {
			points = *step.Points
		}

		event, err := runStep(reg, unlocked, step, points)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}

		result.Trace = append(result.Trace, event)
		checkExpectations(result, i, step, event)
	}

	return result, nil
}

func buildRegistry(specs []TechSpec) *tech.Registry {
	reg := tech.NewRegistry()
	for _, ts := range specs {
		name := ts.Name
		if name == "" {
			name = ts.ID
		}

		var prereqs tech.Prereqs
		if tech.Kind(ts.Requires.Kind) == tech.KindAny {
			prereqs = tech.RequireAny(ts.Requires.IDs...)
		} else {
			prereqs = tech.RequireAll(ts.Requires.IDs...)
		}

		reg.Add(tech.Technology{
			ID:          ts.ID,
			Name:        name,
			Description: ts.Description,
			Prereqs:     prereqs,
			Cost:        ts.Cost,
		})
	}
	return reg
}

func runStep(reg *tech.Registry, unlocked tech.Set, step Step, points int) (TraceEvent, error) {
	event := TraceEvent{Op: step.Op, Tech: step.Tech}

	switch step.Op {
	case OpUnlock:
		ok := engine.Unlock(reg, step.Tech, unlocked, points)
		event.OK = &ok

	case OpList:
		ids := engine.ListUnlockable(reg, unlocked, points)
		if ids == nil {
			ids = []string{}
		}
		event.IDs = ids

	case OpPath:
		route, found := engine.FindPath(reg, step.Tech, unlocked, points)
		event.Found = &found
		if found {
			event.Path = route
		}

	case OpRemove:
		err := reg.Remove(step.Tech)
		ok := err == nil
		event.OK = &ok
		if err != nil {
			event.Error = ErrCodeDependencyExists
		}

	default:
		return TraceEvent{}, fmt.Errorf("unknown op %q", step.Op)
	}

	event.Unlocked = unlocked.IDs()
	return event, nil
}

func checkExpectations(result *Result, index int, step Step, event TraceEvent) {
	if step.Expect == nil {
		return
	}
	expect := step.Expect

	fail := func(format string, args ...any) {
		msg := fmt.Sprintf("step %d (%s %s): ", index, step.Op, step.Tech) + fmt.Sprintf(format, args...)
		result.Failures = append(result.Failures, msg)
	}

	if expect.OK != nil {
		if event.OK == nil {
			fail("expected ok=%v but the op produced no ok result", *expect.OK)
		} else if *event.OK != *expect.OK {
			fail("expected ok=%v, got ok=%v", *expect.OK, *event.OK)
		}
	}

	if expect.IDs != nil {
		want := append([]string(nil), expect.IDs...)
		sort.Strings(want)
		if !equalStrings(want, event.IDs) {
			fail("expected ids=%v, got ids=%v", want, event.IDs)
		}
	}

	if expect.Found != nil {
		if event.Found == nil {
			fail("expected found=%v but the op produced no path result", *expect.Found)
		} else if *event.Found != *expect.Found {
			fail("expected found=%v, got found=%v", *expect.Found, *event.Found)
		}
	}

	if expect.Path != nil {
		if !equalStrings(expect.Path, event.Path) {
			fail("expected path=%v, got path=%v", expect.Path, event.Path)
		}
	}

	if expect.Error != "" && event.Error != expect.Error {
		fail("expected error=%q, got error=%q", expect.Error, event.Error)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
