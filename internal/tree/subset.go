package tree

import (
	"fmt"

	"driftwood/pkg/logging"
)

// Patcher supplies replacement values when a subset check fails.
//
// MissingMapKey is consulted when actual lacks key, or holds a value for
// which the recursive check failed; the returned value replaces actual[key].
// MissingSeqItem is consulted when no element of actual contains
// expected[index]; the returned value is inserted into actual at index.
// Either method may report false to decline, which leaves the failure in
// place. The engine applies every replacement itself: maps are mutated in
// place, sequences are reallocated and written back into their parent.
type Patcher interface {
	MissingMapKey(expected, actual map[string]interface{}, key string) (interface{}, bool)
	MissingSeqItem(expected, actual []interface{}, index int) (interface{}, bool)
}

// IsSubset reports whether expected is structurally contained in actual.
//
// Maps: every expected key must be present in actual with a value that
// recursively contains the expected value; extra actual keys are ignored.
// Sequences: every expected element must be contained in some actual element,
// in any order (first match wins). Scalars and mismatched kinds compare by
// strict equality. IsSubset never mutates its arguments.
func IsSubset(expected, actual interface{}) bool {
	_, ok := subset(expected, actual, nil)
	return ok
}

// Patch checks expected against actual the same way IsSubset does, but
// consults p for a replacement value whenever a key or index fails, retrying
// the failed key or index once against the replacement. It returns the
// patched actual value and whether every check succeeded after retries.
//
// The returned value must be used by the caller: the top-level actual may be
// reallocated when it is a sequence. A failed retry does not abort the
// traversal; remaining keys and indices are still checked (and patched).
func Patch(expected, actual interface{}, p Patcher) (interface{}, bool) {
	return subset(expected, actual, p)
}

func subset(expected, actual interface{}, p Patcher) (interface{}, bool) {
	switch exp := expected.(type) {
	case map[string]interface{}:
		act, ok := actual.(map[string]interface{})
		if !ok {
			return actual, false
		}
		return act, mapSubset(exp, act, p)

	case []interface{}:
		act, ok := actual.([]interface{})
		if !ok {
			return actual, false
		}
		return seqSubset(exp, act, p)

	default:
		return actual, ScalarEqual(expected, actual)
	}
}

func mapSubset(expected, actual map[string]interface{}, p Patcher) bool {
	ok := true
	for _, key := range sortedKeys(expected) {
		value, present := actual[key]

		keyOK := false
		if present {
			// Sequences nested under this key may be reallocated by
			// patching, so the checked value is written back.
			patched, childOK := subset(expected[key], value, p)
			actual[key] = patched
			keyOK = childOK
		}

		if !keyOK && p != nil {
			if replacement, handled := p.MissingMapKey(expected, actual, key); handled {
				actual[key] = replacement
				_, keyOK = subset(expected[key], actual[key], nil)
				if !keyOK {
					logging.Warn("StructuralSubset", "key %q still mismatching after repair", key)
				}
			}
		}

		if !keyOK {
			ok = false
		}
	}
	return ok
}

func seqSubset(expected, actual []interface{}, p Patcher) ([]interface{}, bool) {
	ok := true
	for i, item := range expected {
		if seqContains(actual, item) {
			continue
		}

		itemOK := false
		if p != nil {
			if replacement, handled := p.MissingSeqItem(expected, actual, i); handled {
				actual = insertAt(actual, i, replacement)
				itemOK = seqContains(actual, item)
				if !itemOK {
					logging.Warn("StructuralSubset", "sequence index %d still mismatching after repair", i)
				}
			}
		}

		if !itemOK {
			ok = false
		}
	}
	return actual, ok
}

// seqContains reports whether any element of actual contains item. The scan
// is in order and the first match wins; a duplicated expected item can
// therefore match the same actual element twice.
func seqContains(actual []interface{}, item interface{}) bool {
	for _, candidate := range actual {
		if _, ok := subset(item, candidate, nil); ok {
			return true
		}
	}
	return false
}

func insertAt(seq []interface{}, index int, item interface{}) []interface{} {
	if index < 0 {
		index = 0
	}
	if index > len(seq) {
		index = len(seq)
	}
	out := make([]interface{}, 0, len(seq)+1)
	out = append(out, seq[:index]...)
	out = append(out, item)
	out = append(out, seq[index:]...)
	return out
}

// Mismatches returns a path for every expected key or index that actual does
// not contain, in deterministic order. Paths look like "jobs.build[2]" with
// a leading "$" for a top-level kind or scalar mismatch. An empty result
// means IsSubset(expected, actual) is true.
func Mismatches(expected, actual interface{}) []string {
	var paths []string
	collectMismatches(expected, actual, "", &paths)
	return paths
}

func collectMismatches(expected, actual interface{}, path string, paths *[]string) {
	switch exp := expected.(type) {
	case map[string]interface{}:
		act, ok := actual.(map[string]interface{})
		if !ok {
			*paths = append(*paths, rootedPath(path))
			return
		}
		for _, key := range sortedKeys(exp) {
			childPath := key
			if path != "" {
				childPath = path + "." + key
			}
			value, present := act[key]
			if !present {
				*paths = append(*paths, childPath)
				continue
			}
			collectMismatches(exp[key], value, childPath, paths)
		}

	case []interface{}:
		act, ok := actual.([]interface{})
		if !ok {
			*paths = append(*paths, rootedPath(path))
			return
		}
		for i, item := range exp {
			if !seqContains(act, item) {
				*paths = append(*paths, fmt.Sprintf("%s[%d]", path, i))
			}
		}

	default:
		if !ScalarEqual(expected, actual) {
			*paths = append(*paths, rootedPath(path))
		}
	}
}

func rootedPath(path string) string {
	if path == "" {
		return "$"
	}
	return path
}
