package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.ForegroundBudget = 30 * time.Second
	cfg.Planner.DefaultProfile = "broad"

	require.NoError(t, Save(root, cfg))

	loaded, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestYamlOverlayAppliesOnTopOfJSON(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Save(root, Default()))

	yamlPath := filepath.Join(root, ".navshell", "config.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("planner:\n  default_limit: 50\n"), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, 50, cfg.Planner.DefaultLimit)
	require.Equal(t, defaultForegroundBudget, cfg.ForegroundBudget)
}
