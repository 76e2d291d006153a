package executor

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecute(t *testing.T) {
	requireShell(t)
	out, err := New().Execute(context.Background(), "sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", strings.TrimSpace(out))
}

func TestExecuteIncludesStderr(t *testing.T) {
	requireShell(t)
	_, err := New().Execute(context.Background(), "sh", "-c", "echo broken >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestExecuteInDir(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	out, err := New().ExecuteInDir(context.Background(), dir, "sh", "-c", "pwd")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), strings.TrimPrefix(dir, "/private")))
}

func TestExecuteWithEnv(t *testing.T) {
	requireShell(t)
	out, err := New().ExecuteWithEnv(context.Background(), []string{"SPEECHNOTE_TEST=42"}, "sh", "-c", "echo $SPEECHNOTE_TEST")
	require.NoError(t, err)
	assert.Equal(t, "42", strings.TrimSpace(out))
}
