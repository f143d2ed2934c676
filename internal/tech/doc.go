// Package tech defines the technology-tree data model.
//
// A Technology is a node in the dependency graph: an id, display metadata,
// a prerequisite condition, and a science-point cost. The Registry owns the
// id → Technology mapping and guards removal against dangling dependents.
//
// The unlocked Set is deliberately NOT owned by this package. It belongs to
// the caller (a player profile, a simulation, a test) and is passed by
// reference into every engine query. Membership is the only notion of
// "possessed" - no ordering, no timestamps.
//
// Prerequisite references are not validated on insertion. A prerequisite id
// that names no registered technology is legal; it simply can never be
// satisfied by a membership test.
package tech
