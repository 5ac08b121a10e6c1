package cli_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modekit/modekit/pkg/cli"
	"github.com/modekit/modekit/pkg/internal"
	"github.com/modekit/modekit/pkg/log"
)

// runCommand executes the CLI against a sandboxed prompts and config dir,
// capturing stdout and stderr.
func runCommand(t *testing.T, promptsDir string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(internal.PromptsDirEnvKey, promptsDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(t.TempDir(), "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(t.TempDir(), "cache"))

	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	logger, _ := log.NewTestLogger(t, slog.LevelWarn)
	cmd.SetContext(log.ContextWithLogger(context.Background(), logger))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestListCommandEmptyDirectory(t *testing.T) {
	promptsDir := t.TempDir()
	stdout, _, err := runCommand(t, promptsDir, "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "no chatmode files")
}

func TestListCommandShowsDocuments(t *testing.T) {
	promptsDir := t.TempDir()
	raw := "---\ndescription: Break work into steps\n---\n# Planner\n\nPlan first.\n"
	require.NoError(t, os.WriteFile(
		filepath.Join(promptsDir, "planner.chatmode.md"), []byte(raw), 0o644))

	stdout, _, err := runCommand(t, promptsDir, "list", "chatmode")
	require.NoError(t, err)
	assert.Contains(t, stdout, "planner")
	assert.Contains(t, stdout, "Break work into steps")
}

func TestListCommandInstructions(t *testing.T) {
	promptsDir := t.TempDir()
	raw := "---\ndescription: Go conventions\n---\nUse gofmt.\n"
	require.NoError(t, os.WriteFile(
		filepath.Join(promptsDir, "go-style.instruction.md"), []byte(raw), 0o644))

	stdout, _, err := runCommand(t, promptsDir, "list", "instruction")
	require.NoError(t, err)
	assert.Contains(t, stdout, "go-style")
}

func TestListCommandRejectsUnknownKind(t *testing.T) {
	_, _, err := runCommand(t, t.TempDir(), "list", "prompt")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown document kind") ||
		strings.Contains(err.Error(), "invalid argument"))
}

func TestRootHelp(t *testing.T) {
	stdout, _, err := runCommand(t, t.TempDir(), "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "serve")
	assert.Contains(t, stdout, "install")
	assert.Contains(t, stdout, "library")
}
