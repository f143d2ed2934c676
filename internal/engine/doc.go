// Package engine implements eligibility, unlock, and path queries over a
// technology registry.
//
// ARCHITECTURE:
//
// The engine is a set of pure functions over (registry, unlocked set, points).
// It holds no state of its own: the registry is read, the unlocked set is the
// caller's, and the points budget is a plain scalar. All operations are
// bounded, finite computations over the registry's size - nothing suspends,
// blocks, or performs I/O.
//
// Determinism:
// Bulk query results are sorted by id, and graph expansion scans the registry
// in id order. Given equal inputs, every function returns equal outputs.
// The one deliberate exception: when two frontier entries carry the same
// accumulated cost, FindPath's extraction order between them is a property of
// the heap, not of the contract.
//
// Snapshot semantics:
// FindPath evaluates eligibility ONCE against the caller-supplied unlocked
// set and points, and never re-evaluates as the search discovers new nodes.
// It is a reachability report over what is eligible right now, not a staged
// unlock planner. See FindPath for the full contract.
package engine
