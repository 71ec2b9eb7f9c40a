package tree

// MergePatcher is the default repair strategy used when an artifact is
// incorrect. It brings the artifact up to the expected content while
// preserving everything the user added:
//
//   - A missing map key is set to a copy of the expected value.
//   - A present-but-wrong map key whose expected and current values are both
//     maps is merged recursively: overlapping leaves are overwritten with the
//     expected value, keys that exist only in the current value survive.
//   - Otherwise the key is replaced wholesale with the expected value.
//   - A missing sequence item is a copy of the expected item, inserted at its
//     expected position.
type MergePatcher struct{}

func (MergePatcher) MissingMapKey(expected, actual map[string]interface{}, key string) (interface{}, bool) {
	expectedValue := expected[key]
	currentValue, present := actual[key]
	if !present {
		return Copy(expectedValue), true
	}

	expectedMap, expectedIsMap := expectedValue.(map[string]interface{})
	currentMap, currentIsMap := currentValue.(map[string]interface{})
	if expectedIsMap && currentIsMap {
		return mergeMaps(expectedMap, currentMap), true
	}
	return Copy(expectedValue), true
}

func (MergePatcher) MissingSeqItem(expected, actual []interface{}, index int) (interface{}, bool) {
	return Copy(expected[index]), true
}

// mergeMaps merges expected into current, mutating and returning current.
func mergeMaps(expected, current map[string]interface{}) map[string]interface{} {
	for key, expectedValue := range expected {
		currentValue, present := current[key]
		if !present {
			current[key] = Copy(expectedValue)
			continue
		}

		expectedMap, expectedIsMap := expectedValue.(map[string]interface{})
		currentMap, currentIsMap := currentValue.(map[string]interface{})
		if expectedIsMap && currentIsMap {
			current[key] = mergeMaps(expectedMap, currentMap)
			continue
		}

		current[key] = Copy(expectedValue)
	}
	return current
}
