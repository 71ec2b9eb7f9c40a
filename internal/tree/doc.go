// Package tree implements the structural subset algorithm at the heart of
// driftwood's reconciliation.
//
// Configuration artifacts are represented as generic tree values: maps with
// string keys, ordered sequences, and scalars, exactly as produced by
// deserializing YAML or JSON into interface{}. An artifact is considered
// correct when its expected tree is a structural subset of the tree on disk:
//
//   - every expected map key is present with a containing value, extra keys
//     are ignored (this is what lets user customizations survive);
//   - every expected sequence item is contained in some on-disk item,
//     regardless of position;
//   - scalars compare by strict equality.
//
// # Checking vs. repairing
//
// IsSubset is the pure comparison used to decide correctness. Patch runs the
// same traversal but consults a Patcher for a replacement value at every
// failing key or index, then retries that key or index once. MergePatcher is
// the standard repair strategy: it fills in missing content and overwrites
// wrong leaves with the expected value without touching anything the user
// added.
//
// # Sequence semantics
//
// Sequence containment is order-independent and first-match-wins, not a
// bijective multiset match. An expected sequence with two logically equal
// items will happily match a single actual element twice. This mirrors the
// historical behavior repairs were written against; see Mismatches for how
// failures are reported.
package tree
