package entity

import "driftwood/internal/artifact"

// Location identifies the artifact an entity manages, relative to the
// project root: parent directory, file name and extension.
type Location struct {
	Dir  string
	Name string
	Ext  string
}

// Entity is one declaratively-specified configuration artifact definition:
// where the artifact lives, what it must at least contain, and the I/O
// primitives bound to it. The scheduler drives every entity through the same
// create/check/repair lifecycle; entities never touch each other's
// artifacts.
type Entity interface {
	// Location returns the resolved artifact location.
	Location() Location

	// Priority orders validation: higher priorities are validated first,
	// in their own concurrent tier. The default is 0.
	Priority() int

	// Expected returns the tree the artifact must structurally contain.
	Expected() (interface{}, error)

	// EnsureCreated creates parent directories and an empty artifact if
	// the artifact is missing, reporting whether it did.
	EnsureCreated() (bool, error)

	// Load returns the artifact's current tree; nil for an empty artifact.
	Load() (interface{}, error)

	// Save persists a tree back to the artifact.
	Save(value interface{}) error
}

// Base is a ready-made Entity over a file-backed artifact whose expected
// tree is supplied by a function. Concrete definitions either use it
// directly or embed it and override single methods.
type Base struct {
	File         artifact.File
	Pri          int
	ExpectedFunc func() (interface{}, error)
}

func (b *Base) Location() Location {
	return Location{Dir: b.File.Dir, Name: b.File.Name, Ext: b.File.Ext}
}

func (b *Base) Priority() int {
	return b.Pri
}

func (b *Base) Expected() (interface{}, error) {
	if b.ExpectedFunc == nil {
		return nil, nil
	}
	return b.ExpectedFunc()
}

func (b *Base) EnsureCreated() (bool, error) {
	return b.File.EnsureCreated()
}

func (b *Base) Load() (interface{}, error) {
	return b.File.Load()
}

func (b *Base) Save(value interface{}) error {
	return b.File.Save(value)
}
