package exifedit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingConfigIsNotAnError(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Config{}, c)
	assert.Equal(t, KeepTag, c.Policy())
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("verbose: true\nunknown_tag_policy: remove\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.True(t, c.Verbose)
	assert.Equal(t, RemoveTag, c.Policy())
}

func TestPolicyDefaultsToKeep(t *testing.T) {
	c := Config{UnknownTagPolicy: "nonsense"}
	assert.Equal(t, KeepTag, c.Policy())
	c.UnknownTagPolicy = "stop"
	assert.Equal(t, StopOnUnknown, c.Policy())
}
