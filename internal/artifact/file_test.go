package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_Path(t *testing.T) {
	f := &File{Dir: "/tmp/project", Name: "ci", Ext: ".yaml", Codec: YAML{}}
	assert.Equal(t, filepath.Join("/tmp/project", "ci.yaml"), f.Path())

	dotfile := &File{Dir: "/tmp/project", Name: ".gitignore", Codec: Lines{}}
	assert.Equal(t, filepath.Join("/tmp/project", ".gitignore"), dotfile.Path())
}

func TestFile_PathSanitized(t *testing.T) {
	f := &File{Dir: "/tmp/project", Name: "../../etc/passwd", Ext: ""}
	assert.Equal(t, filepath.Join("/tmp/project", "-etc-passwd"), f.Path())
}

func TestFile_EnsureCreated(t *testing.T) {
	dir := t.TempDir()
	f := &File{Dir: filepath.Join(dir, "nested", "deep"), Name: "config", Ext: ".yaml", Codec: YAML{}}

	exists, err := f.Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	created, err := f.EnsureCreated()
	require.NoError(t, err)
	assert.True(t, created)

	info, err := os.Stat(f.Path())
	require.NoError(t, err)
	assert.Zero(t, info.Size(), "created artifact must be empty")

	// Second call is a no-op.
	created, err = f.EnsureCreated()
	require.NoError(t, err)
	assert.False(t, created)
}

func TestFile_LoadSaveRoundTrip(t *testing.T) {
	f := &File{Dir: t.TempDir(), Name: "manifest", Ext: ".yaml", Codec: YAML{}}

	value := map[string]interface{}{"name": "demo", "tags": []interface{}{"a", "b"}}
	require.NoError(t, f.Save(value))

	loaded, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, value, loaded)
}

func TestFile_LoadEmptyArtifact(t *testing.T) {
	f := &File{Dir: t.TempDir(), Name: "optout", Ext: ".yaml", Codec: YAML{}}
	_, err := f.EnsureCreated()
	require.NoError(t, err)

	loaded, err := f.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestFile_LoadMissingArtifact(t *testing.T) {
	f := &File{Dir: t.TempDir(), Name: "absent", Ext: ".yaml", Codec: YAML{}}

	_, err := f.Load()
	assert.Error(t, err)
}
