// Package config loads driftwood's own configuration file.
//
// driftwood.yaml declares the project root, the installed components with
// their requirement strings, the template variables, and optionally a list
// of entities defined directly in configuration. Config-declared entities
// are registered into the entity registry at startup, which makes a plain
// YAML file a complete host for the reconciliation core: no Go code is
// needed to manage a project's artifacts.
//
// Loading is forgiving about absence (no config file means defaults and an
// empty entity set) and strict about content: a config that parses but is
// structurally wrong fails with every problem listed.
package config
