package config

import (
	"fmt"
	"strings"

	"driftwood/internal/artifact"
	"driftwood/internal/component"
)

// ValidationError describes one problem found in a loaded config.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem so users can fix a config in one
// pass instead of replaying load-fix cycles.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks structural problems in the config. It returns nil or a
// ValidationErrors value listing everything wrong.
func (c Config) Validate() error {
	var errs ValidationErrors

	seenComponents := make(map[string]bool)
	for i, cc := range c.Components {
		field := fmt.Sprintf("components[%d]", i)
		name := component.Normalize(cc.Name)
		if name == "" {
			errs = append(errs, ValidationError{Field: field + ".name", Message: "component name is required"})
			continue
		}
		if seenComponents[name] {
			errs = append(errs, ValidationError{Field: field + ".name", Message: fmt.Sprintf("component %q declared twice", name)})
		}
		seenComponents[name] = true
	}

	seenEntities := make(map[string]bool)
	for i, ec := range c.Entities {
		field := fmt.Sprintf("entities[%d]", i)
		if ec.Name == "" {
			errs = append(errs, ValidationError{Field: field + ".name", Message: "entity name is required"})
		}
		if ec.Path == "" {
			errs = append(errs, ValidationError{Field: field + ".path", Message: "artifact path is required"})
		}
		if strings.HasPrefix(ec.Path, "/") || strings.Contains(ec.Path, "..") {
			errs = append(errs, ValidationError{Field: field + ".path", Message: "artifact path must be relative and must not traverse upwards"})
		}
		if ec.Format != "" {
			if _, err := artifact.CodecFor(ec.Format); err != nil {
				errs = append(errs, ValidationError{Field: field + ".format", Message: err.Error()})
			}
		}

		owner := ec.Component
		if owner == "" {
			owner = c.BaseComponent
		}
		key := component.Normalize(owner) + "/" + ec.Name
		if ec.Name != "" && seenEntities[key] {
			errs = append(errs, ValidationError{Field: field + ".name", Message: fmt.Sprintf("entity %q declared twice for component %q", ec.Name, owner)})
		}
		seenEntities[key] = true
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
