// Package entity defines the configuration-entity contract and the registry
// that discovers concrete entity definitions across installed components.
//
// An entity couples an artifact location with the tree that artifact must
// contain and a validation priority. Concrete definitions are registered
// explicitly in a Registry keyed by owning component; discovery walks the
// component dependency graph from a base framework component, collects the
// definitions of every component extending it, and resolves overrides so
// that only the most-derived definition of each name survives.
//
// Override resolution replaces the runtime class-hierarchy inspection a
// dynamic language would use: a definition declares Replaces: "name" and the
// registry drops the named definition when both are collected.
package entity
