package tree

import "sort"

// Kind classifies a tree value. Artifacts are represented as plain Go values
// produced by deserialization: map[string]interface{} for mappings,
// []interface{} for sequences, and string/int/float64/bool/nil scalars.
type Kind int

const (
	KindScalar Kind = iota
	KindMap
	KindSequence
)

// String makes Kind satisfy the fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case KindMap:
		return "map"
	case KindSequence:
		return "sequence"
	default:
		return "scalar"
	}
}

// KindOf returns the kind of v. nil is a scalar (the null value).
func KindOf(v interface{}) Kind {
	switch v.(type) {
	case map[string]interface{}:
		return KindMap
	case []interface{}:
		return KindSequence
	default:
		return KindScalar
	}
}

// Copy returns a deep copy of v. Maps and sequences are copied recursively;
// scalars are returned as-is.
func Copy(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, child := range val {
			out[k] = Copy(child)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, child := range val {
			out[i] = Copy(child)
		}
		return out
	default:
		return v
	}
}

// ScalarEqual reports whether two scalar values are equal.
//
// Equality is strict: a string is never equal to a number ("1" != 1).
// Numeric values compare by value across Go's integer and float types so
// that the same artifact round-tripped through different codecs (which may
// decode 1 as int, int64 or float64) still compares equal.
func ScalarEqual(a, b interface{}) bool {
	if KindOf(a) != KindScalar || KindOf(b) != KindScalar {
		return false
	}
	if af, aok := asFloat(a); aok {
		bf, bok := asFloat(b)
		return bok && af == bf
	}
	return a == b
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

// sortedKeys returns the keys of m in lexical order. Map traversal order in
// Go is randomized, so repairs and mismatch reports would otherwise be
// nondeterministic across runs.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
