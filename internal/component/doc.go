// Package component models the installed software components driftwood
// reconciles for, and the dependency graph between them.
//
// A component is an installed unit of software with a name and a list of
// requirement strings naming other components. The graph is directed from
// dependent to dependency and is assumed acyclic; it is built once per
// process from a Provider snapshot and read-only afterwards.
//
// The central query is AllDependingOn: given a base framework component, it
// returns every component that extends it, in dependencies-before-dependents
// topological order. The entity registry uses this to collect configuration
// entity definitions from the base framework and all of its plugins, with
// upstream components ahead of the components that override them.
//
// Names are normalized (lowercase, separators unified) before every lookup,
// so graph queries are stable regardless of the naming convention used by
// the install tooling.
package component
