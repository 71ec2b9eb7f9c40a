package config

// Config is driftwood's own configuration: the project being reconciled, the
// installed components and the entities they declare.
type Config struct {
	// Root is the project directory artifacts are resolved against.
	// Defaults to the current working directory.
	Root string `yaml:"root,omitempty"`

	// BaseComponent names the base framework component entity discovery
	// starts from. It is added to the component snapshot automatically
	// when the components list does not declare it.
	BaseComponent string `yaml:"baseComponent,omitempty"`

	// Vars are the variables available to expected-tree templating.
	Vars map[string]interface{} `yaml:"vars,omitempty"`

	// Components declares the installed components and their requirements.
	Components []ComponentConfig `yaml:"components,omitempty"`

	// Entities declares configuration entities directly in the config
	// file. They are registered under their owning component at startup.
	Entities []EntityConfig `yaml:"entities,omitempty"`
}

// ComponentConfig declares one installed component.
type ComponentConfig struct {
	// Name is the component name; normalized before graph lookups.
	Name string `yaml:"name"`

	// Requires lists requirement strings naming other components,
	// optionally with version constraints ("driftwood-core>=1.0").
	Requires []string `yaml:"requires,omitempty"`
}

// EntityConfig declares one configuration entity.
type EntityConfig struct {
	// Name identifies the definition within its component.
	Name string `yaml:"name"`

	// Component owns this definition. Defaults to the base component.
	Component string `yaml:"component,omitempty"`

	// Replaces names a definition this one overrides.
	Replaces string `yaml:"replaces,omitempty"`

	// Path is the artifact path relative to the project root,
	// e.g. ".github/workflows/ci.yaml".
	Path string `yaml:"path"`

	// Format selects the artifact codec (yaml, json, lines). When empty
	// it is derived from the path's extension.
	Format string `yaml:"format,omitempty"`

	// Priority orders validation; higher runs earlier. Defaults to 0.
	Priority int `yaml:"priority,omitempty"`

	// Expected is the tree the artifact must contain. String scalars may
	// carry {{ var }} placeholders rendered from Vars.
	Expected interface{} `yaml:"expected"`
}
