package app

import (
	"fmt"

	"driftwood/internal/component"
	"driftwood/internal/config"
	"driftwood/internal/entity"
	"driftwood/internal/scheduler"
	"driftwood/pkg/logging"
)

// Options controls how an Instance is assembled.
type Options struct {
	// ConfigPath points at a driftwood.yaml file or at a directory
	// containing one. When empty, defaults are used.
	ConfigPath string

	// LogLevel selects the application log level. Empty means info.
	LogLevel string
}

// Instance holds the fully wired application: loaded configuration, the
// component graph, the entity registry, the discovered entities and the
// scheduler that validates them.
//
// Bootstrap follows a two-phase pattern:
//  1. Load configuration and initialize logging
//  2. Build the component graph, register entity definitions and
//     discover the concrete entities for the configured base component
type Instance struct {
	Config    config.Config
	Graph     *component.Graph
	Registry  *entity.Registry
	Entities  []entity.Entity
	Scheduler *scheduler.Scheduler
}

// Bootstrap assembles a ready-to-run Instance from the given options.
// It returns an error if configuration loading or validation fails, or
// if the configured base component is unknown to the component graph.
func Bootstrap(opts Options) (*Instance, error) {
	level := logging.LevelInfo
	if opts.LogLevel != "" {
		parsed, err := logging.ParseLevel(opts.LogLevel)
		if err != nil {
			return nil, err
		}
		level = parsed
	}
	logging.InitForCLI(level, nil)

	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	graph := component.Build(cfg.Provider())

	registry := entity.NewRegistry()
	config.RegisterEntities(registry, cfg)

	env := entity.Env{Root: cfg.Root, Vars: cfg.Vars}
	entities, err := registry.Discover(graph, cfg.BaseComponent, env)
	if err != nil {
		return nil, fmt.Errorf("failed to discover entities: %w", err)
	}

	logging.Info("App", "Bootstrapped with %d components and %d entities",
		graph.Len(), len(entities))

	return &Instance{
		Config:    cfg,
		Graph:     graph,
		Registry:  registry,
		Entities:  entities,
		Scheduler: scheduler.New(),
	}, nil
}
