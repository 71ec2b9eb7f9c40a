package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"driftwood/internal/tree"
)

// MalformedTreeError is returned by Encode when the top-level kind of the
// value does not match what the target format requires, e.g. a sequence
// handed to a codec that must write a mapping.
type MalformedTreeError struct {
	Format string
	Want   tree.Kind
	Got    tree.Kind
}

func (e *MalformedTreeError) Error() string {
	return fmt.Sprintf("%s artifact requires a top-level %s, got %s", e.Format, e.Want, e.Got)
}

// Codec frames one artifact format. Decode turns file content into a tree
// value; an entirely empty document decodes to nil, which the scheduler
// treats as the user's opt-out marker. Encode is the inverse and must reject
// trees whose top-level kind the format cannot carry.
type Codec interface {
	Name() string
	Decode(data []byte) (interface{}, error)
	Encode(value interface{}) ([]byte, error)
}

// CodecFor resolves a format name from configuration to a codec.
func CodecFor(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		return YAML{}, nil
	case "json":
		return JSON{}, nil
	case "lines", "text":
		return Lines{}, nil
	default:
		return nil, fmt.Errorf("unknown artifact format %q", format)
	}
}

// YAML reads and writes YAML documents. RequireMap forces the document root
// to be a mapping, which most managed manifests need.
type YAML struct {
	RequireMap bool
}

func (YAML) Name() string { return "yaml" }

func (YAML) Decode(data []byte) (interface{}, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var value interface{}
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return value, nil
}

func (c YAML) Encode(value interface{}) ([]byte, error) {
	if value == nil {
		return nil, nil
	}
	if c.RequireMap && tree.KindOf(value) != tree.KindMap {
		return nil, &MalformedTreeError{Format: c.Name(), Want: tree.KindMap, Got: tree.KindOf(value)}
	}
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// JSON reads and writes JSON documents.
type JSON struct {
	RequireMap bool
}

func (JSON) Name() string { return "json" }

func (JSON) Decode(data []byte) (interface{}, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return value, nil
}

func (c JSON) Encode(value interface{}) ([]byte, error) {
	if value == nil {
		return nil, nil
	}
	if c.RequireMap && tree.KindOf(value) != tree.KindMap {
		return nil, &MalformedTreeError{Format: c.Name(), Want: tree.KindMap, Got: tree.KindOf(value)}
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Lines reads and writes plain line-oriented files (ignore files and the
// like) as a sequence of string scalars, one per line.
type Lines struct{}

func (Lines) Name() string { return "lines" }

func (Lines) Decode(data []byte) (interface{}, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var value []interface{}
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		value = append(value, line)
	}
	return value, nil
}

func (c Lines) Encode(value interface{}) ([]byte, error) {
	if value == nil {
		return nil, nil
	}
	seq, ok := value.([]interface{})
	if !ok {
		return nil, &MalformedTreeError{Format: c.Name(), Want: tree.KindSequence, Got: tree.KindOf(value)}
	}
	var buf bytes.Buffer
	for _, item := range seq {
		if tree.KindOf(item) != tree.KindScalar {
			return nil, &MalformedTreeError{Format: c.Name(), Want: tree.KindScalar, Got: tree.KindOf(item)}
		}
		fmt.Fprintf(&buf, "%v\n", item)
	}
	return buf.Bytes(), nil
}
