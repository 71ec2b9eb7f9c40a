package scheduler

import (
	"fmt"
	"strings"
)

// UnrepairableError reports an entity that remained incorrect after one
// repair and recheck cycle. It is fatal and aborts the reconciliation run:
// a second repair attempt would hit the same inconsistency, which points at
// a repair bug or a concurrent external modification of the artifact.
type UnrepairableError struct {
	// Path identifies the artifact.
	Path string

	// Mismatches lists the keys and indices that still fail, when known.
	Mismatches []string
}

// IncorrectError reports an artifact that does not contain its expected
// content. It is informational: check-only passes attach it to results
// without aborting anything.
type IncorrectError struct {
	// Path identifies the artifact.
	Path string

	// Mismatches lists the keys and indices that fail, when known.
	Mismatches []string
}

func (e *IncorrectError) Error() string {
	if len(e.Mismatches) == 0 {
		return fmt.Sprintf("artifact %s does not contain its expected content", e.Path)
	}
	return fmt.Sprintf("artifact %s does not contain its expected content (mismatching: %s)",
		e.Path, strings.Join(e.Mismatches, ", "))
}

func (e *UnrepairableError) Error() string {
	if len(e.Mismatches) == 0 {
		return fmt.Sprintf("artifact %s is still incorrect after repair", e.Path)
	}
	return fmt.Sprintf("artifact %s is still incorrect after repair (mismatching: %s)",
		e.Path, strings.Join(e.Mismatches, ", "))
}
