package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "driftwood.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBootstrap_MissingConfigUsesDefaults(t *testing.T) {
	inst, err := Bootstrap(Options{ConfigPath: filepath.Join(t.TempDir(), "driftwood.yaml")})
	require.NoError(t, err)
	assert.NotNil(t, inst.Config)
	assert.NotNil(t, inst.Graph)
	assert.NotNil(t, inst.Scheduler)
	assert.Empty(t, inst.Entities)
}

func TestBootstrap_DiscoversConfiguredEntities(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, `
root: `+root+`
baseComponent: core
components:
  - name: core
  - name: web
    requires: [core]
entities:
  - name: settings
    component: web
    path: conf/settings.yaml
    expected:
      server:
        port: 8080
`)

	inst, err := Bootstrap(Options{ConfigPath: path})
	require.NoError(t, err)
	require.Len(t, inst.Entities, 1)
	assert.Equal(t, "settings.yaml", inst.Entities[0].Location().Name+inst.Entities[0].Location().Ext)
}

func TestBootstrap_UndeclaredComponentYieldsNoEntities(t *testing.T) {
	path := writeConfig(t, `
root: `+t.TempDir()+`
baseComponent: core
components:
  - name: core
entities:
  - name: settings
    component: web
    path: settings.yaml
`)

	inst, err := Bootstrap(Options{ConfigPath: path})
	require.NoError(t, err)
	assert.Empty(t, inst.Entities)
}

func TestBootstrap_InvalidLogLevel(t *testing.T) {
	_, err := Bootstrap(Options{LogLevel: "chatty"})
	assert.Error(t, err)
}

func TestBootstrap_InvalidConfig(t *testing.T) {
	path := writeConfig(t, `
components:
  - name: core
entities:
  - name: bad
    component: core
    path: ../escape.yaml
`)

	_, err := Bootstrap(Options{ConfigPath: path})
	assert.Error(t, err)
}
