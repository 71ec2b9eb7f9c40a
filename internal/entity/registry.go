package entity

import (
	"fmt"
	"sync"

	"driftwood/internal/component"
	"driftwood/pkg/logging"
)

// Env is the context the host hands to entity constructors: the project root
// artifacts are resolved against and the variables available to expected-tree
// templating.
type Env struct {
	Root string
	Vars map[string]interface{}
}

// Definition registers a constructor for one entity under its owning
// component. Definitions with a nil constructor are incomplete placeholders
// and are skipped at discovery; a definition naming another via Replaces
// overrides it, so a plugin can swap out an entity the base framework ships
// without both versions being validated.
type Definition struct {
	Name      string
	Component string
	Replaces  string
	New       func(env Env) (Entity, error)
}

// Registry is the lookup table from component names to the entity
// definitions they provide. It replaces runtime type scanning: every
// definition is registered explicitly, either from a package init or from
// configuration at startup.
type Registry struct {
	mu          sync.RWMutex
	byComponent map[string][]Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byComponent: make(map[string][]Definition)}
}

// Register adds a definition. It panics on an empty name or component and on
// a duplicate (component, name) pair; both indicate a programming error in
// the registering package, not a runtime condition.
func (r *Registry) Register(d Definition) {
	if d.Name == "" || d.Component == "" {
		panic(fmt.Sprintf("entity definition must carry a name and component, got %+v", d))
	}
	comp := component.Normalize(d.Component)
	d.Component = comp

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byComponent[comp] {
		if existing.Name == d.Name {
			panic(fmt.Sprintf("entity definition %q already registered for component %q", d.Name, comp))
		}
	}
	r.byComponent[comp] = append(r.byComponent[comp], d)
	logging.Debug("EntityRegistry", "Registered definition %s/%s", comp, d.Name)
}

// Discover constructs the entities of every component that depends on
// baseComponent, including baseComponent itself, in the graph's
// dependencies-before-dependents order.
//
// A component known to the graph but providing no definitions is skipped
// silently (installed but not loadable as a definition source). Definitions
// replaced by another collected definition are dropped, as are incomplete
// ones. A constructor failure logs and skips that entity: a broken dependent
// component must not block reconciliation of everything else.
func (r *Registry) Discover(graph *component.Graph, baseComponent string, env Env) ([]Entity, error) {
	components, err := graph.AllDependingOn(baseComponent, true)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	var definitions []Definition
	for _, c := range components {
		provided := r.byComponent[c.Name]
		if len(provided) == 0 {
			logging.Debug("EntityRegistry", "Component %s provides no entity definitions", c.Name)
			continue
		}
		definitions = append(definitions, provided...)
	}
	r.mu.RUnlock()

	replaced := make(map[string]bool)
	for _, d := range definitions {
		if d.Replaces != "" {
			replaced[d.Replaces] = true
		}
	}

	var entities []Entity
	for _, d := range definitions {
		if replaced[d.Name] {
			logging.Debug("EntityRegistry", "Definition %s/%s overridden by a dependent component", d.Component, d.Name)
			continue
		}
		if d.New == nil {
			logging.Debug("EntityRegistry", "Definition %s/%s is incomplete, skipping", d.Component, d.Name)
			continue
		}

		e, err := d.New(env)
		if err != nil {
			logging.Warn("EntityRegistry", "Failed to construct entity %s/%s, skipping: %v", d.Component, d.Name, err)
			continue
		}
		entities = append(entities, e)
	}

	logging.Info("EntityRegistry", "Discovered %d entities for base component %s", len(entities), baseComponent)
	return entities, nil
}

var defaultRegistry = NewRegistry()

// Register adds a definition to the process-wide registry. Definition
// packages call this from init.
func Register(d Definition) {
	defaultRegistry.Register(d)
}

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}
