package tree

import (
	"reflect"
	"testing"
)

func TestIsSubset(t *testing.T) {
	tests := []struct {
		name     string
		expected interface{}
		actual   interface{}
		want     bool
	}{
		{
			name:     "equal scalars",
			expected: "hello",
			actual:   "hello",
			want:     true,
		},
		{
			name:     "unequal scalars",
			expected: "hello",
			actual:   "world",
			want:     false,
		},
		{
			name:     "no numeric coercion from string",
			expected: 1,
			actual:   "1",
			want:     false,
		},
		{
			name:     "numeric value equality across int and float",
			expected: 1,
			actual:   float64(1),
			want:     true,
		},
		{
			name:     "nil equals nil",
			expected: nil,
			actual:   nil,
			want:     true,
		},
		{
			name:     "kind mismatch map vs sequence",
			expected: map[string]interface{}{"a": 1},
			actual:   []interface{}{1},
			want:     false,
		},
		{
			name:     "empty map is subset of any map",
			expected: map[string]interface{}{},
			actual:   map[string]interface{}{"x": 1},
			want:     true,
		},
		{
			name:     "empty sequence is subset of any sequence",
			expected: []interface{}{},
			actual:   []interface{}{},
			want:     true,
		},
		{
			name:     "extra actual keys are ignored",
			expected: map[string]interface{}{"a": 1, "b": []interface{}{2, 3}},
			actual:   map[string]interface{}{"a": 1, "b": []interface{}{2, 3, 4}, "c": 5},
			want:     true,
		},
		{
			name:     "missing key fails",
			expected: map[string]interface{}{"a": 1},
			actual:   map[string]interface{}{},
			want:     false,
		},
		{
			name:     "sequence order independence",
			expected: []interface{}{"a", "b"},
			actual:   []interface{}{"b", "a"},
			want:     true,
		},
		{
			name:     "missing sequence item fails",
			expected: []interface{}{"a", "c"},
			actual:   []interface{}{"a", "b"},
			want:     false,
		},
		{
			name: "nested structures",
			expected: map[string]interface{}{
				"jobs": map[string]interface{}{
					"build": map[string]interface{}{
						"steps": []interface{}{"checkout", "test"},
					},
				},
			},
			actual: map[string]interface{}{
				"version": 2,
				"jobs": map[string]interface{}{
					"build": map[string]interface{}{
						"steps": []interface{}{"checkout", "lint", "test"},
						"image": "golang",
					},
				},
			},
			want: true,
		},
		{
			name: "duplicate expected items match the same actual element",
			// First-match-wins semantics: both expected "a" items match the
			// single actual "a".
			expected: []interface{}{"a", "a"},
			actual:   []interface{}{"a"},
			want:     true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := IsSubset(test.expected, test.actual)
			if got != test.want {
				t.Errorf("IsSubset() = %v, expected %v", got, test.want)
			}
		})
	}
}

func TestIsSubset_Reflexive(t *testing.T) {
	values := []interface{}{
		nil,
		true,
		42,
		"text",
		[]interface{}{1, "two", nil},
		map[string]interface{}{
			"a": 1,
			"b": []interface{}{map[string]interface{}{"c": 3}},
		},
	}

	for _, v := range values {
		if !IsSubset(v, v) {
			t.Errorf("IsSubset(v, v) = false for %#v", v)
		}
	}
}

func TestIsSubset_DoesNotMutate(t *testing.T) {
	expected := map[string]interface{}{"a": 1, "b": []interface{}{2}}
	actual := map[string]interface{}{"a": 1}
	original := Copy(actual)

	IsSubset(expected, actual)

	if !reflect.DeepEqual(actual, original) {
		t.Errorf("IsSubset mutated actual: %#v", actual)
	}
}

// recordingPatcher counts invocations and applies the merge strategy.
type recordingPatcher struct {
	merge   MergePatcher
	mapHits []string
	seqHits []int
}

func (p *recordingPatcher) MissingMapKey(expected, actual map[string]interface{}, key string) (interface{}, bool) {
	p.mapHits = append(p.mapHits, key)
	return p.merge.MissingMapKey(expected, actual, key)
}

func (p *recordingPatcher) MissingSeqItem(expected, actual []interface{}, index int) (interface{}, bool) {
	p.seqHits = append(p.seqHits, index)
	return p.merge.MissingSeqItem(expected, actual, index)
}

func TestPatch_AddsMissingMapKey(t *testing.T) {
	expected := map[string]interface{}{"a": 1}
	actual := map[string]interface{}{}

	patcher := &recordingPatcher{}
	patched, ok := Patch(expected, actual, patcher)
	if !ok {
		t.Fatal("Patch() reported failure")
	}
	if !reflect.DeepEqual(actual, map[string]interface{}{"a": 1}) {
		t.Errorf("actual not repaired in place: %#v", actual)
	}
	if !reflect.DeepEqual(patcher.mapHits, []string{"a"}) {
		t.Errorf("unexpected patcher invocations: %v", patcher.mapHits)
	}

	// Repair idempotence: a pure re-check of the patched value passes.
	if !IsSubset(expected, patched) {
		t.Error("IsSubset(expected, patched) = false after repair")
	}
}

func TestPatch_InsertsMissingSeqItem(t *testing.T) {
	expected := []interface{}{"build", "test", "deploy"}
	actual := []interface{}{"build", "deploy"}

	patched, ok := Patch(expected, actual, &recordingPatcher{})
	if !ok {
		t.Fatal("Patch() reported failure")
	}
	want := []interface{}{"build", "test", "deploy"}
	if !reflect.DeepEqual(patched, want) {
		t.Errorf("patched = %#v, expected %#v", patched, want)
	}
}

func TestPatch_NestedSequenceWriteBack(t *testing.T) {
	// The repaired sequence is reallocated; the engine must write it back
	// into the parent map.
	expected := map[string]interface{}{"steps": []interface{}{"a", "b"}}
	actual := map[string]interface{}{"steps": []interface{}{"b"}}

	patched, ok := Patch(expected, actual, MergePatcher{})
	if !ok {
		t.Fatal("Patch() reported failure")
	}
	if !IsSubset(expected, patched) {
		t.Errorf("patched value still incomplete: %#v", patched)
	}
	steps := actual["steps"].([]interface{})
	if len(steps) != 2 {
		t.Errorf("parent map not updated with reallocated sequence: %#v", steps)
	}
}

func TestPatch_ContinuesAfterFailedRetry(t *testing.T) {
	// A patcher that declines one key must not stop the rest of the
	// traversal from being repaired.
	expected := map[string]interface{}{"bad": 1, "good": 2}
	actual := map[string]interface{}{}

	decline := patchFunc{
		mapKey: func(expected, actual map[string]interface{}, key string) (interface{}, bool) {
			if key == "bad" {
				return nil, false
			}
			return expected[key], true
		},
	}

	_, ok := Patch(expected, actual, decline)
	if ok {
		t.Error("Patch() = true, expected overall failure")
	}
	if _, present := actual["good"]; !present {
		t.Error("remaining key not repaired after earlier failure")
	}
}

// patchFunc adapts plain functions to the Patcher interface for tests.
type patchFunc struct {
	mapKey  func(expected, actual map[string]interface{}, key string) (interface{}, bool)
	seqItem func(expected, actual []interface{}, index int) (interface{}, bool)
}

func (p patchFunc) MissingMapKey(expected, actual map[string]interface{}, key string) (interface{}, bool) {
	if p.mapKey == nil {
		return nil, false
	}
	return p.mapKey(expected, actual, key)
}

func (p patchFunc) MissingSeqItem(expected, actual []interface{}, index int) (interface{}, bool) {
	if p.seqItem == nil {
		return nil, false
	}
	return p.seqItem(expected, actual, index)
}

func TestMismatches(t *testing.T) {
	expected := map[string]interface{}{
		"a": 1,
		"b": map[string]interface{}{"c": []interface{}{"x", "y"}},
		"d": "ok",
	}
	actual := map[string]interface{}{
		"a": 2,
		"b": map[string]interface{}{"c": []interface{}{"x"}},
		"d": "ok",
	}

	got := Mismatches(expected, actual)
	want := []string{"a", "b.c[1]"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Mismatches() = %v, expected %v", got, want)
	}

	if got := Mismatches(expected, expected); len(got) != 0 {
		t.Errorf("Mismatches(v, v) = %v, expected none", got)
	}
}
