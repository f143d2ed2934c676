package tech

import "sort"

// Registry owns the id → Technology mapping.
//
// Insertion does not validate prerequisite existence; dangling references are
// legal. Removal is guarded: a technology that is still a prerequisite of any
// other registered technology cannot be removed.
type Registry struct {
	techs map[string]Technology
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{techs: make(map[string]Technology)}
}

// Add inserts or overwrites by id. Re-adding an id replaces the prior record
// in place; there is no merge.
func (r *Registry) Add(t Technology) {
	r.techs[t.ID] = t
}

// Remove deletes the technology with the given id.
//
// If any other registered technology lists id in its prerequisite set
// (either kind, checked identically), Remove returns a *DependencyError
// naming the blocking technology and leaves the registry unchanged.
// Otherwise the record is deleted unconditionally; removal never cascades.
// Removing an unknown id succeeds as a no-op delete.
func (r *Registry) Remove(id string) error {
	// Dependents are scanned in id order so the reported blocker is stable.
	for _, otherID := range r.IDs() {
		if otherID == id {
			continue
		}
		if r.techs[otherID].Prereqs.Contains(id) {
			return &DependencyError{ID: id, DependentID: otherID}
		}
	}
	delete(r.techs, id)
	return nil
}

// Get returns the technology with the given id.
func (r *Registry) Get(id string) (Technology, bool) {
	t, ok := r.techs[id]
	return t, ok
}

// IDs returns all registered ids sorted by id.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.techs))
	for id := range r.techs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered technologies.
func (r *Registry) Len() int {
	return len(r.techs)
}
