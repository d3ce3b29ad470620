package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitializeCreatesPerCategoryFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Initialize(root))
	defer CloseAll()

	require.True(t, Initialized())

	Get(CategoryShell).Info("process started", map[string]any{"id": "abc"})
	Get(CategoryPatch).Error("parse failed", nil)

	shellLog := filepath.Join(root, ".navshell", "logs", "shell.log")
	data, err := os.ReadFile(shellLog)
	require.NoError(t, err)
	require.Contains(t, string(data), "process started")
	require.Contains(t, string(data), "id=abc")
}

func TestGetBeforeInitializeIsNoOp(t *testing.T) {
	CloseAll()
	l := Get(CategoryNavigator)
	require.NotNil(t, l)
	l.Debug("should not panic", nil)
}

func TestJSONFormat(t *testing.T) {
	root := t.TempDir()
	t.Setenv("NAVSHELL_LOG_FORMAT", "json")
	require.NoError(t, Initialize(root))
	defer CloseAll()

	Get(CategoryPlanner).Warn("unknown profile", map[string]any{"profile": "xyz"})

	data, err := os.ReadFile(filepath.Join(root, ".navshell", "logs", "planner.log"))
	require.NoError(t, err)
	require.Contains(t, string(data), `"message":"unknown profile"`)
	require.Contains(t, string(data), `"profile":"xyz"`)
}
