package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskledger/internal/errors"
)

// executeCommand runs the root command with args against a hermetic home
// directory and returns captured stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, BuildInfo{})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootDisplaysHelp(t *testing.T) {
	out, err := executeCommand(t)

	require.NoError(t, err)
	assert.Contains(t, out, "taskledger")
	assert.Contains(t, out, "task")
	assert.Contains(t, out, "document")
}

func TestRootRejectsInvalidOutputFormat(t *testing.T) {
	_, err := executeCommand(t, "task", "list", "--role", "admin", "--output", "xml")

	require.ErrorIs(t, err, errors.ErrInvalidOutputFormat)
}

func TestTaskCreateJSONEnvelope(t *testing.T) {
	out, err := executeCommand(t,
		"task", "create", "T1", "Contract review", "Review the draft", "alice", "bob",
		"--role", "admin", "--output", "json")

	require.NoError(t, err)
	assert.Contains(t, out, `"success": true`)
	assert.Contains(t, out, `"task_id": "T1"`)
	assert.Contains(t, out, `"status": "CREATED"`)
}

func TestTaskCreateTextEnvelope(t *testing.T) {
	out, err := executeCommand(t,
		"task", "create", "T1", "Contract review", "Review the draft", "alice", "bob",
		"--role", "admin")

	require.NoError(t, err)
	assert.Contains(t, out, "OK")
	assert.Contains(t, out, "task_id: T1")
}

func TestTaskCreateDeniedForJurist(t *testing.T) {
	out, err := executeCommand(t,
		"task", "create", "T1", "Contract review", "Review the draft", "alice", "bob",
		"--role", "jurist")

	require.ErrorIs(t, err, errors.ErrInvocationFailed)
	assert.Contains(t, out, "permission denied")
}

func TestUnknownRoleLabelFailsClosed(t *testing.T) {
	out, err := executeCommand(t, "task", "list", "--role", "auditor")

	require.ErrorIs(t, err, errors.ErrInvocationFailed)
	assert.Contains(t, out, "unknown role")
}

func TestCyrillicRoleLabel(t *testing.T) {
	out, err := executeCommand(t, "task", "list", "--role", "Администратор", "--output", "json")

	require.NoError(t, err)
	assert.Contains(t, out, `"success": true`)
	assert.Contains(t, out, `"total_tasks": 0`)
}

func TestTaskGetMissingFails(t *testing.T) {
	out, err := executeCommand(t, "task", "get", "T404", "--role", "admin")

	require.ErrorIs(t, err, errors.ErrInvocationFailed)
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "task not found")
}

func TestVerboseAndQuietMutuallyExclusive(t *testing.T) {
	_, err := executeCommand(t, "task", "list", "--role", "admin", "--verbose", "--quiet")

	require.Error(t, err)
}

func TestWhoami(t *testing.T) {
	out, err := executeCommand(t, "whoami", "--role", "jurist")

	require.NoError(t, err)
	assert.Contains(t, out, "role: jurist")
	assert.Contains(t, out, "add_document_version")
	assert.NotContains(t, out, "create_task")
}

func TestWhoamiAdminJSON(t *testing.T) {
	out, err := executeCommand(t, "whoami", "--role", "admin", "--output", "json")

	require.NoError(t, err)
	assert.Contains(t, out, `"role": "admin"`)
	assert.Contains(t, out, "create_task")
	assert.Contains(t, out, "confirm_task")
}

func TestWhoamiUnknownRole(t *testing.T) {
	_, err := executeCommand(t, "whoami", "--role", "auditor")

	require.ErrorIs(t, err, errors.ErrUnknownRole)
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "dev (commit: none, built: unknown)", formatVersion(BuildInfo{}))
	assert.Equal(t, "1.2.0 (commit: abc123, built: 2026-08-30)",
		formatVersion(BuildInfo{Version: "1.2.0", Commit: "abc123", Date: "2026-08-30"}))
}
