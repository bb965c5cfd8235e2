package engine

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskledger/internal/domain"
	apperrors "github.com/mrz1836/taskledger/internal/errors"
	"github.com/mrz1836/taskledger/internal/ledger"
	"github.com/mrz1836/taskledger/internal/store"
)

// stepClock advances by a fixed step on every Now call, giving each
// operation in a test a distinct, strictly increasing timestamp.
type stepClock struct {
	current time.Time
	step    time.Duration
}

func (c *stepClock) Now() time.Time {
	now := c.current
	c.current = c.current.Add(c.step)
	return now
}

// newTestEngine builds an Engine on a fresh in-memory ledger with a stepping
// clock starting at a fixed instant.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	l := ledger.NewMemoryLedger(nil)
	t.Cleanup(func() { _ = l.Close() })

	clk := &stepClock{
		current: time.Date(2026, 3, 1, 9, 15, 0, 0, time.UTC),
		step:    time.Second,
	}
	return New(store.New(l, zerolog.Nop()), clk, zerolog.Nop())
}

func mustCreateTask(t *testing.T, e *Engine, taskID string) *domain.Task {
	t.Helper()

	task, err := e.CreateTask(context.Background(), taskID, "Review draft", "Initial review", "jurist1", "admin")
	require.NoError(t, err)
	return task
}

func TestCreateTask(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with CREATED status and empty documents", func(t *testing.T) {
		e := newTestEngine(t)

		task := mustCreateTask(t, e, "T1")
		assert.Equal(t, "T1", task.TaskID)
		assert.Equal(t, domain.TaskStatusCreated, task.Status)
		assert.Equal(t, task.CreatedAt, task.UpdatedAt)
		assert.Empty(t, task.UpdatedBy)
		assert.NotNil(t, task.Documents)
		assert.Empty(t, task.Documents)
	})

	t.Run("duplicate task id rejected, first record unchanged", func(t *testing.T) {
		e := newTestEngine(t)
		first := mustCreateTask(t, e, "T1")

		_, err := e.CreateTask(ctx, "T1", "Other title", "Other description", "expert1", "admin")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrTaskExists)

		unchanged, err := e.GetTask(ctx, "T1")
		require.NoError(t, err)
		assert.Equal(t, first.Title, unchanged.Title)
		assert.Equal(t, first.CreatedAt, unchanged.CreatedAt)
	})

	t.Run("empty fields rejected before any write", func(t *testing.T) {
		e := newTestEngine(t)

		tests := []struct {
			name string
			args [5]string
		}{
			{"empty task_id", [5]string{"", "t", "d", "a", "c"}},
			{"empty title", [5]string{"T1", "", "d", "a", "c"}},
			{"empty description", [5]string{"T1", "t", "", "a", "c"}},
			{"empty assignee", [5]string{"T1", "t", "d", "", "c"}},
			{"empty creator", [5]string{"T1", "t", "d", "a", ""}},
			{"whitespace title", [5]string{"T1", "   ", "d", "a", "c"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := e.CreateTask(ctx, tt.args[0], tt.args[1], tt.args[2], tt.args[3], tt.args[4])
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrEmptyValue)
			})
		}

		// No partial state was written.
		_, err := e.GetTask(ctx, "T1")
		assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
	})
}

func TestUpdateTaskStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("status round-trip", func(t *testing.T) {
		e := newTestEngine(t)
		mustCreateTask(t, e, "T1")

		change, err := e.UpdateTaskStatus(ctx, "T1", "IN_PROGRESS", "u1")
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCreated, change.OldStatus)
		assert.Equal(t, domain.TaskStatusInProgress, change.NewStatus)

		task, err := e.GetTask(ctx, "T1")
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusInProgress, task.Status)
		assert.Equal(t, "u1", task.UpdatedBy)
		assert.False(t, task.UpdatedAt.Before(task.CreatedAt))
	})

	t.Run("status normalized case-insensitively", func(t *testing.T) {
		e := newTestEngine(t)
		mustCreateTask(t, e, "T1")

		change, err := e.UpdateTaskStatus(ctx, "T1", "completed", "u1")
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, change.NewStatus)
	})

	t.Run("no transition restriction, including backwards and self-loops", func(t *testing.T) {
		e := newTestEngine(t)
		mustCreateTask(t, e, "T1")

		// COMPLETED -> CREATED and CREATED -> CREATED are both legal.
		for _, status := range []string{"COMPLETED", "CREATED", "CREATED", "CANCELLED", "CONFIRMED", "IN_PROGRESS"} {
			_, err := e.UpdateTaskStatus(ctx, "T1", status, "u1")
			require.NoError(t, err, "transition to %s should be allowed", status)
		}
	})

	t.Run("invalid status rejected, record unchanged", func(t *testing.T) {
		e := newTestEngine(t)
		mustCreateTask(t, e, "T1")
		before, err := e.GetTask(ctx, "T1")
		require.NoError(t, err)

		_, err = e.UpdateTaskStatus(ctx, "T1", "BOGUS", "u1")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)

		after, err := e.GetTask(ctx, "T1")
		require.NoError(t, err)
		assert.Equal(t, before.Status, after.Status)
		assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
		assert.Empty(t, after.UpdatedBy)
	})

	t.Run("missing task", func(t *testing.T) {
		e := newTestEngine(t)

		_, err := e.UpdateTaskStatus(ctx, "nope", "CREATED", "u1")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
	})
}

func TestAddDocumentVersion(t *testing.T) {
	ctx := context.Background()

	t.Run("implicit document creation on first version", func(t *testing.T) {
		e := newTestEngine(t)
		mustCreateTask(t, e, "T1")

		attachment, err := e.AddDocumentVersion(ctx, "T1", "D1", "1.0", "h1", "u1", nil)
		require.NoError(t, err)
		assert.Equal(t, "D1", attachment.DocumentVersion.DocumentID)
		assert.Equal(t, "1.0", attachment.DocumentVersion.Version)
		assert.NotNil(t, attachment.DocumentVersion.Metadata)
		assert.Empty(t, attachment.DocumentVersion.Metadata)

		task := attachment.Task
		require.Len(t, task.Documents, 1)
		assert.Equal(t, "D1", task.Documents[0].DocumentID)
		require.Len(t, task.Documents[0].Versions, 1)
	})

	t.Run("version accumulation in insertion order", func(t *testing.T) {
		e := newTestEngine(t)
		mustCreateTask(t, e, "T1")

		_, err := e.AddDocumentVersion(ctx, "T1", "D1", "1.0", "h1", "u1", nil)
		require.NoError(t, err)
		_, err = e.AddDocumentVersion(ctx, "T1", "D1", "2.0", "h2", "u2", nil)
		require.NoError(t, err)

		versions, err := e.GetDocumentVersions(ctx, "T1", "D1")
		require.NoError(t, err)
		assert.Equal(t, 2, versions.TotalVersions)
		require.Len(t, versions.Versions, 2)
		assert.Equal(t, "1.0", versions.Versions[0].Version)
		assert.Equal(t, "2.0", versions.Versions[1].Version)
	})

	t.Run("duplicate version labels accumulate", func(t *testing.T) {
		e := newTestEngine(t)
		mustCreateTask(t, e, "T1")

		_, err := e.AddDocumentVersion(ctx, "T1", "D1", "1.0", "h1", "u1", nil)
		require.NoError(t, err)
		_, err = e.AddDocumentVersion(ctx, "T1", "D1", "1.0", "h2", "u2", nil)
		require.NoError(t, err)

		versions, err := e.GetDocumentVersions(ctx, "T1", "D1")
		require.NoError(t, err)
		assert.Equal(t, 2, versions.TotalVersions)
	})

	t.Run("separate documents kept in first-attachment order", func(t *testing.T) {
		e := newTestEngine(t)
		mustCreateTask(t, e, "T1")

		_, err := e.AddDocumentVersion(ctx, "T1", "D2", "1.0", "h1", "u1", nil)
		require.NoError(t, err)
		_, err = e.AddDocumentVersion(ctx, "T1", "D1", "1.0", "h2", "u1", nil)
		require.NoError(t, err)
		_, err = e.AddDocumentVersion(ctx, "T1", "D2", "2.0", "h3", "u1", nil)
		require.NoError(t, err)

		task, err := e.GetTask(ctx, "T1")
		require.NoError(t, err)
		require.Len(t, task.Documents, 2)
		assert.Equal(t, "D2", task.Documents[0].DocumentID)
		assert.Equal(t, "D1", task.Documents[1].DocumentID)
	})

	t.Run("bumps updated_at but not updated_by", func(t *testing.T) {
		e := newTestEngine(t)
		created := mustCreateTask(t, e, "T1")

		_, err := e.AddDocumentVersion(ctx, "T1", "D1", "1.0", "h1", "u1", nil)
		require.NoError(t, err)

		task, err := e.GetTask(ctx, "T1")
		require.NoError(t, err)
		assert.True(t, task.UpdatedAt.After(created.UpdatedAt))
		assert.Empty(t, task.UpdatedBy)
	})

	t.Run("metadata carried through", func(t *testing.T) {
		e := newTestEngine(t)
		mustCreateTask(t, e, "T1")

		meta := map[string]any{"pages": float64(12), "lang": "ru"}
		attachment, err := e.AddDocumentVersion(ctx, "T1", "D1", "1.0", "h1", "u1", meta)
		require.NoError(t, err)
		assert.Equal(t, meta, attachment.DocumentVersion.Metadata)
	})

	t.Run("missing task", func(t *testing.T) {
		e := newTestEngine(t)

		_, err := e.AddDocumentVersion(ctx, "nope", "D1", "1.0", "h1", "u1", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
	})

	t.Run("required fields", func(t *testing.T) {
		e := newTestEngine(t)
		mustCreateTask(t, e, "T1")

		tests := []struct {
			name                           string
			version, contentHash, uploaded string
		}{
			{"empty version", "", "h1", "u1"},
			{"empty content_hash", "1.0", "", "u1"},
			{"empty uploaded_by", "1.0", "h1", ""},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := e.AddDocumentVersion(ctx, "T1", "D1", tt.version, tt.contentHash, tt.uploaded, nil)
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrEmptyValue)
			})
		}
	})
}

func TestGetDocumentVersions_NotFound(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	mustCreateTask(t, e, "T1")

	t.Run("missing task", func(t *testing.T) {
		_, err := e.GetDocumentVersions(ctx, "nope", "D1")
		assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := e.GetDocumentVersions(ctx, "T1", "nope")
		assert.ErrorIs(t, err, apperrors.ErrDocumentNotFound)
	})
}

func TestGetTask(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	mustCreateTask(t, e, "T1")

	t.Run("idempotent read", func(t *testing.T) {
		first, err := e.GetTask(ctx, "T1")
		require.NoError(t, err)
		second, err := e.GetTask(ctx, "T1")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("missing task", func(t *testing.T) {
		_, err := e.GetTask(ctx, "nope")
		assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
	})
}

func TestListTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("empty ledger", func(t *testing.T) {
		e := newTestEngine(t)

		list, err := e.ListTasks(ctx)
		require.NoError(t, err)
		assert.Zero(t, list.TotalTasks)
		assert.Empty(t, list.Tasks)
	})

	t.Run("tasks in key order", func(t *testing.T) {
		e := newTestEngine(t)
		mustCreateTask(t, e, "T2")
		mustCreateTask(t, e, "T1")

		list, err := e.ListTasks(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, list.TotalTasks)
		assert.Equal(t, "T1", list.Tasks[0].TaskID)
		assert.Equal(t, "T2", list.Tasks[1].TaskID)
	})
}

func TestGetTaskHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("revisions oldest first", func(t *testing.T) {
		e := newTestEngine(t)
		mustCreateTask(t, e, "T1")
		_, err := e.UpdateTaskStatus(ctx, "T1", "IN_PROGRESS", "u1")
		require.NoError(t, err)
		_, err = e.AddDocumentVersion(ctx, "T1", "D1", "1.0", "h1", "u1", nil)
		require.NoError(t, err)

		history, err := e.GetTaskHistory(ctx, "T1")
		require.NoError(t, err)
		require.Equal(t, 3, history.TotalRevisions)

		assert.Equal(t, domain.TaskStatusCreated, history.Revisions[0].Task.Status)
		assert.Equal(t, domain.TaskStatusInProgress, history.Revisions[1].Task.Status)
		assert.Len(t, history.Revisions[2].Task.Documents, 1)

		for i := 1; i < len(history.Revisions); i++ {
			assert.False(t, history.Revisions[i].Timestamp.Before(history.Revisions[i-1].Timestamp))
		}
	})

	t.Run("unknown task", func(t *testing.T) {
		e := newTestEngine(t)

		_, err := e.GetTaskHistory(ctx, "nope")
		assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
	})
}

func TestUpdatedAtClampedToCreatedAt(t *testing.T) {
	ctx := context.Background()

	l := ledger.NewMemoryLedger(nil)
	t.Cleanup(func() { _ = l.Close() })

	// A clock that moves backwards must not violate updated_at >= created_at.
	clk := &stepClock{
		current: time.Date(2026, 3, 1, 9, 15, 0, 0, time.UTC),
		step:    -time.Hour,
	}
	e := New(store.New(l, zerolog.Nop()), clk, zerolog.Nop())

	_, err := e.CreateTask(ctx, "T1", "t", "d", "a", "c")
	require.NoError(t, err)

	change, err := e.UpdateTaskStatus(ctx, "T1", "IN_PROGRESS", "u1")
	require.NoError(t, err)
	assert.Equal(t, change.Task.CreatedAt, change.Task.UpdatedAt)
}
