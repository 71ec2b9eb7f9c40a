package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"driftwood/pkg/logging"
)

// File binds one physical artifact on disk to a codec. A File is the only
// writer of its path during a reconciliation run, so no locking is needed
// beyond what the scheduler's tier barrier already guarantees.
type File struct {
	Dir   string // parent directory, absolute or relative to the working dir
	Name  string // file name without extension
	Ext   string // extension including the dot, may be empty
	Codec Codec
}

// Path returns the resolved artifact path.
func (f *File) Path() string {
	return filepath.Join(f.Dir, sanitizeFilename(f.Name)+f.Ext)
}

// Exists reports whether the artifact is present on disk.
func (f *File) Exists() (bool, error) {
	_, err := os.Stat(f.Path())
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", f.Path(), err)
}

// EnsureCreated creates parent directories and an empty artifact if the
// artifact does not exist. It reports whether anything was created.
func (f *File) EnsureCreated() (bool, error) {
	exists, err := f.Exists()
	if err != nil || exists {
		return false, err
	}

	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return false, fmt.Errorf("failed to create directory %s: %w", f.Dir, err)
	}
	if err := os.WriteFile(f.Path(), nil, 0644); err != nil {
		return false, fmt.Errorf("failed to create file %s: %w", f.Path(), err)
	}

	logging.Info("Artifact", "Created empty artifact %s", f.Path())
	return true, nil
}

// Load reads and decodes the artifact's current tree. An empty artifact
// decodes to nil.
func (f *File) Load() (interface{}, error) {
	data, err := os.ReadFile(f.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Path(), err)
	}

	value, err := f.Codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", f.Path(), err)
	}
	return value, nil
}

// Save encodes value and writes it back to the artifact.
func (f *File) Save(value interface{}) error {
	data, err := f.Codec.Encode(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f.Path(), err)
	}

	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", f.Dir, err)
	}
	if err := os.WriteFile(f.Path(), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.Path(), err)
	}

	logging.Debug("Artifact", "Saved %s (%d bytes)", f.Path(), len(data))
	return nil
}

// sanitizeFilename strips path separators and traversal sequences from a
// configured artifact name so it cannot escape its parent directory.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	return name
}
