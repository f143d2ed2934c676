package tree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stratagem/techtree/internal/tech"
)

// Lint warning codes.
const (
	WarnDanglingPrereq = "DANGLING_PREREQ"
	WarnPrereqCycle    = "PREREQ_CYCLE"
)

// LintWarning reports a condition that is legal at runtime but usually an
// authoring mistake.
//
// Warnings, not errors: a dangling prerequisite id is simply never
// satisfiable by a membership test, and a prerequisite cycle makes every
// technology on it permanently locked (unless disjunction offers another
// way in). Both are well-defined behaviors the engine handles; the linter
// exists so authors notice them.
type LintWarning struct {
	Code    string   `json:"code"`
	TechID  string   `json:"tech_id,omitempty"`
	Message string   `json:"message"`
	Path    []string `json:"path,omitempty"` // cycle path, e.g. ["a", "b", "a"]
}

// Lint analyzes a registry for dangling prerequisite references and
// prerequisite cycles. A clean registry returns an empty slice.
func Lint(reg *tech.Registry) []LintWarning {
	warnings := []LintWarning{}

	for _, id := range reg.IDs() {
		t, _ := reg.Get(id)
		for _, p := range t.Prereqs.IDs() {
			if _, ok := reg.Get(p); !ok {
				warnings = append(warnings, LintWarning{
					Code:    WarnDanglingPrereq,
					TechID:  id,
					Message: fmt.Sprintf("technology %q requires %q, which is not defined", id, p),
				})
			}
		}
	}

	for _, scc := range cycleComponents(reg) {
		path := append(scc, scc[0])
		warnings = append(warnings, LintWarning{
			Code:    WarnPrereqCycle,
			TechID:  scc[0],
			Message: fmt.Sprintf("prerequisite cycle: %s", strings.Join(path, " -> ")),
			Path:    path,
		})
	}

	return warnings
}

// cycleComponents finds the strongly connected components of the
// prerequisite graph that form cycles (size > 1, or a self-loop), using
// Tarjan's algorithm. Edges run from a technology to each of its registered
// prerequisites; dangling ids contribute no edges. Components are returned
// with sorted members, ordered by first member, so output is deterministic.
func cycleComponents(reg *tech.Registry) [][]string {
	graph := make(map[string][]string)
	for _, id := range reg.IDs() {
		t, _ := reg.Get(id)
		for _, p := range t.Prereqs.IDs() {
			if _, ok := reg.Get(p); ok {
				graph[id] = append(graph[id], p)
			}
		}
	}

	tj := &tarjan{
		graph:   graph,
		index:   make(map[string]int),
		lowlink: make(map[string]int),
		onStack: make(map[string]bool),
	}
	for _, id := range reg.IDs() {
		if _, seen := tj.index[id]; !seen {
			tj.strongConnect(id)
		}
	}

	var cycles [][]string
	for _, scc := range tj.sccs {
		if len(scc) > 1 || selfLoop(scc[0], graph) {
			sort.Strings(scc)
			cycles = append(cycles, scc)
		}
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles
}

func selfLoop(id string, graph map[string][]string) bool {
	for _, dep := range graph[id] {
		if dep == id {
			return true
		}
	}
	return false
}

type tarjan struct {
	graph   map[string][]string
	index   map[string]int
	lowlink map[string]int
	onStack map[string]bool
	stack   []string
	counter int
	sccs    [][]string
}

func (t *tarjan) strongConnect(v string) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.graph[v] {
		if _, seen := t.index[w]; !seen {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var scc []string
		for {
			w := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, scc)
	}
}
