// Package display renders a technology registry as a human-readable tree.
//
// This is pure presentation over the engine's query API - no state of its
// own, no mutation of the caller's unlocked set. The traversal works on a
// scratch copy: descending into a technology temporarily treats it as
// unlocked so its dependents render beneath it, and backs that out on the
// way up.
//
// The technology graph can in principle be deep, so the walk uses an
// explicit stack rather than recursion. Technologies already on the current
// branch are not descended into again, so shared subtrees and cycles
// terminate (a shared subtree still renders once under each parent that
// reaches it).
package display

import (
	"fmt"
	"io"
	"math"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/stratagem/techtree/internal/engine"
	"github.com/stratagem/techtree/internal/tech"
)

const indentStep = 4

// Render writes the tree to w.
//
// Roots are technologies whose prerequisite set is empty or already
// satisfied by the unlocked set. Beneath each technology appear the
// technologies that list it as a prerequisite and would be unlockable with
// it held (cost ignored - display shows structure, not affordability).
// Sibling order is collated so output is stable for equal inputs.
func Render(w io.Writer, reg *tech.Registry, unlocked tech.Set) error {
	ids := reg.IDs()
	collate.New(language.Und).SortStrings(ids)

	var roots []string
	for _, id := range ids {
		t, _ := reg.Get(id)
		if t.Prereqs.Len() == 0 || t.Prereqs.SatisfiedBy(unlocked) {
			roots = append(roots, id)
		}
	}

	r := &renderer{
		w:       w,
		reg:     reg,
		ids:     ids,
		scratch: unlocked.Clone(),
		onPath:  make(tech.Set),
	}
	for _, root := range roots {
		if err := r.walk(root); err != nil {
			return err
		}
	}
	return nil
}

type renderer struct {
	w       io.Writer
	reg     *tech.Registry
	ids     []string // all registry ids, collated
	scratch tech.Set
	onPath  tech.Set
}

// frame is one technology on the current branch. next is the cursor into
// the collated id list, so each candidate child is examined exactly once
// and in order.
type frame struct {
	id     string
	indent int
	next   int
}

// walk renders root and everything beneath it.
//
// Child eligibility is evaluated lazily, after any earlier sibling's
// subtree has been rendered and backed out, mirroring a depth-first
// recursion over the live scratch set.
func (r *renderer) walk(root string) error {
	stack := []frame{}
	if err := r.enter(root, 0, &stack); err != nil {
		return err
	}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		child := ""
		for top.next < len(r.ids) {
			candidate := r.ids[top.next]
			top.next++
			if r.isChild(top.id, candidate) {
				child = candidate
				break
			}
		}

		if child == "" {
			r.scratch.Remove(top.id)
			r.onPath.Remove(top.id)
			stack = stack[:len(stack)-1]
			continue
		}
		if err := r.enter(child, top.indent+indentStep, &stack); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) enter(id string, indent int, stack *[]frame) error {
	t, ok := r.reg.Get(id)
	if !ok {
		return nil
	}
	if _, err := fmt.Fprintf(r.w, "%*s- %s (Cost: %d)\n", indent, "", t.Name, t.Cost); err != nil {
		return err
	}
	r.scratch.Add(id)
	r.onPath.Add(id)
	*stack = append(*stack, frame{id: id, indent: indent})
	return nil
}

func (r *renderer) isChild(parentID, candidateID string) bool {
	if r.onPath.Has(candidateID) {
		return false
	}
	t, _ := r.reg.Get(candidateID)
	if !t.Prereqs.Contains(parentID) {
		return false
	}
	return engine.Unlockable(r.reg, candidateID, r.scratch, math.MaxInt)
}
