package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cup-project/cup/internal/config"
)

func TestLoadDefaultsWithNoTomlFile(t *testing.T) {
	rt, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 999, rt.Defaults.MaxDepth)
	assert.Equal(t, 8, rt.Defaults.WorkerPoolCap)
	assert.Equal(t, "127.0.0.1", rt.CDPHost)
	assert.Equal(t, 9222, rt.CDPPort)
}

func TestLoadEnvOverridesToml(t *testing.T) {
	dir := t.TempDir()
	tomlPath := dir + "/cup.toml"
	require.NoError(t, os.WriteFile(tomlPath, []byte("max_depth = 50\nworker_pool_cap = 3\n"), 0o644))

	t.Setenv("CUP_MAX_DEPTH", "12")
	rt, err := config.Load(tomlPath)
	require.NoError(t, err)

	assert.Equal(t, 12, rt.Defaults.MaxDepth, "env var must win over toml file")
	assert.Equal(t, 3, rt.Defaults.WorkerPoolCap, "toml value used when no env override present")
}

func TestLoadMissingTomlFileIsNotAnError(t *testing.T) {
	rt, err := config.Load("/nonexistent/path/cup.toml")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultDefaults(), rt.Defaults)
}
