package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"driftwood/internal/artifact"
	"driftwood/internal/entity"
	"driftwood/internal/template"
)

// RegisterEntities registers every entity declared in the config into the
// registry, under its owning component. This is the explicit registration
// path for config-driven hosts; compiled-in definition packages register
// through entity.Register from their init functions instead.
func RegisterEntities(registry *entity.Registry, cfg Config) {
	for _, ec := range cfg.Entities {
		registry.Register(definitionFor(cfg, ec))
	}
}

func definitionFor(cfg Config, ec EntityConfig) entity.Definition {
	owner := ec.Component
	if owner == "" {
		owner = cfg.BaseComponent
	}

	return entity.Definition{
		Name:      ec.Name,
		Component: owner,
		Replaces:  ec.Replaces,
		New: func(env entity.Env) (entity.Entity, error) {
			codec, err := artifact.CodecFor(formatFor(ec))
			if err != nil {
				return nil, fmt.Errorf("entity %s: %w", ec.Name, err)
			}

			dir, name, ext := splitArtifactPath(env.Root, ec.Path)
			expected := ec.Expected

			return &entity.Base{
				File: artifact.File{Dir: dir, Name: name, Ext: ext, Codec: codec},
				Pri:  ec.Priority,
				ExpectedFunc: func() (interface{}, error) {
					return template.New().Replace(expected, env.Vars)
				},
			}, nil
		},
	}
}

// formatFor derives the codec name from the explicit format or, failing
// that, the artifact's extension. Files without a recognized extension are
// treated as plain line-oriented text.
func formatFor(ec EntityConfig) string {
	if ec.Format != "" {
		return ec.Format
	}
	switch strings.ToLower(filepath.Ext(ec.Path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	default:
		return "lines"
	}
}

// splitArtifactPath splits a root-relative artifact path into the directory,
// name and extension an artifact.File wants. Dotfiles like ".gitignore" are
// a name with no extension, not an extension with no name.
func splitArtifactPath(root, relPath string) (dir, name, ext string) {
	dir = filepath.Join(root, filepath.Dir(relPath))
	base := filepath.Base(relPath)

	ext = filepath.Ext(base)
	if ext == base {
		return dir, base, ""
	}
	return dir, strings.TrimSuffix(base, ext), ext
}
