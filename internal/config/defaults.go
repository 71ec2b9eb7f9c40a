package config

import (
	"driftwood/internal/component"
)

const (
	// DefaultBaseComponent is the base framework component discovery
	// starts from when the config does not name one.
	DefaultBaseComponent = "driftwood-core"

	// ConfigFileName is the file looked up when a directory is given.
	ConfigFileName = "driftwood.yaml"
)

// applyDefaults fills unset fields in place.
func applyDefaults(cfg *Config) {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.BaseComponent == "" {
		cfg.BaseComponent = DefaultBaseComponent
	}
}

// Provider returns the component snapshot the dependency graph is built
// from. The base component is appended when the config does not declare it,
// so a minimal config with entities only still has a valid graph root.
func (c Config) Provider() component.Provider {
	snapshot := make(component.StaticProvider, 0, len(c.Components)+1)

	declared := false
	base := component.Normalize(c.BaseComponent)
	for _, cc := range c.Components {
		if component.Normalize(cc.Name) == base {
			declared = true
		}
		snapshot = append(snapshot, component.Metadata{Name: cc.Name, Requires: cc.Requires})
	}
	if !declared {
		snapshot = append(snapshot, component.Metadata{Name: c.BaseComponent})
	}

	return snapshot
}
