package component

import (
	"fmt"
	"sort"
	"sync"

	"driftwood/pkg/logging"
)

// NotFoundError is returned when a graph query names a component that is not
// a node. The base framework component must always exist, so hitting this is
// a programming error by the caller rather than a recoverable condition.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("component %q not found in dependency graph", e.Name)
}

// Graph is a directed acyclic graph over installed components, with an edge
// from each dependent to each of its dependencies. It is read-only after
// Build and safe for concurrent use.
type Graph struct {
	nodes      map[string]Component
	dependents map[string][]string // dependency name -> direct dependent names
}

// Build constructs the graph from a snapshot of installed-component
// metadata. The build is best-effort: a distribution whose name cannot be
// determined is skipped, and unparseable requirement entries are dropped,
// so one malformed installation never breaks the whole graph.
func Build(provider Provider) *Graph {
	g := &Graph{
		nodes:      make(map[string]Component),
		dependents: make(map[string][]string),
	}

	for _, md := range provider.Installed() {
		name := Normalize(md.Name)
		if name == "" {
			logging.Debug("ComponentGraph", "skipping distribution with undeterminable name")
			continue
		}

		var requires []string
		for _, raw := range md.Requires {
			dep := ParseRequirementName(raw)
			if dep == "" {
				logging.Debug("ComponentGraph", "skipping unparseable requirement %q of %s", raw, name)
				continue
			}
			requires = append(requires, dep)
		}

		g.nodes[name] = Component{Name: name, Requires: requires}
	}

	for name, node := range g.nodes {
		for _, dep := range node.Requires {
			g.dependents[dep] = append(g.dependents[dep], name)
		}
	}

	logging.Debug("ComponentGraph", "built graph with %d components", len(g.nodes))
	return g
}

// Get returns the component stored under name, normalized first.
func (g *Graph) Get(name string) (Component, bool) {
	c, ok := g.nodes[Normalize(name)]
	return c, ok
}

// Len returns the number of components in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Components returns every component in the graph in lexical name order.
func (g *Graph) Components() []Component {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Component, 0, len(names))
	for _, name := range names {
		out = append(out, g.nodes[name])
	}
	return out
}

// AllDependingOn returns every component that requires target, directly or
// transitively, optionally including target itself. The result is in
// topological order with dependencies before dependents, so downstream
// consumers can process upstream components before the components that
// build on them.
func (g *Graph) AllDependingOn(target string, includeSelf bool) ([]Component, error) {
	target = Normalize(target)
	if _, ok := g.nodes[target]; !ok {
		return nil, &NotFoundError{Name: target}
	}

	// Reverse reachability: everything with a directed path to target.
	wanted := map[string]bool{target: true}
	queue := []string{target}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, dependent := range g.dependents[current] {
			if !wanted[dependent] {
				wanted[dependent] = true
				queue = append(queue, dependent)
			}
		}
	}
	if !includeSelf {
		delete(wanted, target)
	}

	names := make([]string, 0, len(wanted))
	for name := range wanted {
		names = append(names, name)
	}
	sort.Strings(names)

	// Depth-first post-order over the induced subgraph emits each
	// component after its own dependencies.
	var order []Component
	visited := make(map[string]bool)
	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true
		for _, dep := range g.nodes[name].Requires {
			if wanted[dep] {
				visit(dep)
			}
		}
		order = append(order, g.nodes[name])
	}
	for _, name := range names {
		visit(name)
	}

	return order, nil
}

var (
	sharedMu sync.Mutex
	shared   *Graph
)

// Shared returns the process-wide graph, building it from provider on first
// use. The graph is immutable once built, so concurrent readers need no
// further synchronization.
func Shared(provider Provider) *Graph {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared == nil {
		shared = Build(provider)
	}
	return shared
}

// InvalidateShared drops the cached graph so the next Shared call rebuilds
// it. Only tests should need this.
func InvalidateShared() {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	shared = nil
}
