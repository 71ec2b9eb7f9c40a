// Package scheduler drives the reconciliation of discovered entities.
//
// Every entity is taken through the same state machine: ensure the backing
// artifact exists, check it against the entity's expected tree, repair it
// with the merge strategy when incorrect, and check again. An entity ends
// either Correct or Fatal; Fatal is never retried because a failed repair
// plus recheck indicates an inconsistency repairs cannot resolve.
//
// # Tiers
//
// Entities are grouped by declared priority and validated tier by tier in
// descending order. Within a tier all entities run concurrently — each
// entity owns exactly one artifact, so workers share nothing mutable — and
// the next tier starts only after the whole previous tier finished. That
// barrier is what allows a high-priority manifest entity to be repaired
// before lower-priority entities read values out of the manifest.
//
// A fatal entity fails the whole run: its tier's in-flight siblings finish,
// later tiers never start, and the first fatal error is surfaced with the
// offending artifact path.
package scheduler
