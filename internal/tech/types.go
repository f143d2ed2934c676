package tech

import "sort"

// Kind discriminates how a prerequisite set is evaluated.
type Kind string

const (
	// KindAll requires every listed technology to be unlocked (conjunctive).
	KindAll Kind = "all"
	// KindAny requires at least one listed technology to be unlocked (disjunctive).
	KindAny Kind = "any"
)

// ValidKinds defines the allowed prerequisite kinds.
var ValidKinds = map[Kind]bool{
	KindAll: true,
	KindAny: true,
}

// Prereqs is the prerequisite condition attached to a Technology.
//
// It is a closed tagged union: a Kind plus a set of technology ids. The two
// variants share storage but differ in evaluation:
//   - KindAll: satisfied when the id set is a subset of the unlocked set.
//     An empty set is vacuously satisfied.
//   - KindAny: satisfied when the id set intersects the unlocked set.
//     An empty set intersects nothing and is NEVER satisfied. This asymmetry
//     with the KindAll empty case is intentional and load-bearing.
type Prereqs struct {
	kind Kind
	ids  map[string]bool
}

// RequireAll builds a conjunctive prerequisite over the given ids.
func RequireAll(ids ...string) Prereqs {
	return Prereqs{kind: KindAll, ids: idSet(ids)}
}

// RequireAny builds a disjunctive prerequisite over the given ids.
func RequireAny(ids ...string) Prereqs {
	return Prereqs{kind: KindAny, ids: idSet(ids)}
}

func idSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

// Kind returns the prerequisite kind. The zero Prereqs reports KindAll with
// an empty set, which evaluates as "no prerequisites".
func (p Prereqs) Kind() Kind {
	if p.kind == "" {
		return KindAll
	}
	return p.kind
}

// Contains reports whether id is a member of the prerequisite set.
func (p Prereqs) Contains(id string) bool {
	return p.ids[id]
}

// Len returns the number of prerequisite ids.
func (p Prereqs) Len() int {
	return len(p.ids)
}

// IDs returns the prerequisite ids sorted by id.
func (p Prereqs) IDs() []string {
	ids := make([]string, 0, len(p.ids))
	for id := range p.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SatisfiedBy evaluates the prerequisite condition against an unlocked set.
func (p Prereqs) SatisfiedBy(unlocked Set) bool {
	switch p.Kind() {
	case KindAny:
		for id := range p.ids {
			if unlocked.Has(id) {
				return true
			}
		}
		return false
	default: // KindAll
		for id := range p.ids {
			if !unlocked.Has(id) {
				return false
			}
		}
		return true
	}
}

// Technology is a node in the dependency graph.
//
// ID is the only identity-bearing field. Name and Description are opaque
// display strings with no semantic role in the engine. Cost is the
// non-negative science-point price compared against the caller's budget.
type Technology struct {
	ID          string
	Name        string
	Description string
	Prereqs     Prereqs
	Cost        int
}

// Set is a caller-owned collection of unlocked technology ids.
//
// The engine never retains a Set; every query and mutation receives it by
// reference from the caller. Callers sharing a Set across goroutines must
// serialize access themselves.
type Set map[string]bool

// NewSet builds a Set containing the given ids.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// Has reports membership.
func (s Set) Has(id string) bool {
	return s[id]
}

// Add inserts id. Inserting an existing id is a no-op (set semantics).
func (s Set) Add(id string) {
	s[id] = true
}

// Remove deletes id. Removing an absent id is a no-op.
func (s Set) Remove(id string) {
	delete(s, id)
}

// IDs returns the members sorted by id.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for id := range s {
		c[id] = true
	}
	return c
}
