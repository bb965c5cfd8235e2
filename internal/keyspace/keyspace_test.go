package keyspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskKey(t *testing.T) {
	tests := []struct {
		name   string
		taskID string
		want   string
	}{
		{"simple id", "T1", "TASK_T1"},
		{"id with delimiter accepted as-is", "T_1_a", "TASK_T_1_a"},
		{"empty id", "", "TASK_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TaskKey(tt.taskID))
		})
	}
}

func TestDocumentKey(t *testing.T) {
	assert.Equal(t, "DOC_T1_D1", DocumentKey("T1", "D1"))
}

func TestTaskIDFromKey(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		id, ok := TaskIDFromKey(TaskKey("T-2026-0142"))
		require.True(t, ok)
		assert.Equal(t, "T-2026-0142", id)
	})

	t.Run("document key rejected", func(t *testing.T) {
		_, ok := TaskIDFromKey("DOC_T1_D1")
		assert.False(t, ok)
	})

	t.Run("bare key rejected", func(t *testing.T) {
		_, ok := TaskIDFromKey("T1")
		assert.False(t, ok)
	})
}

func TestTaskRange(t *testing.T) {
	start, end := TaskRange()
	assert.Equal(t, "TASK_", start)
	assert.Equal(t, "TASK`", end)

	// Every task key sorts inside [start, end); document keys sort outside.
	assert.GreaterOrEqual(t, TaskKey("T1"), start)
	assert.Less(t, TaskKey("T1"), end)
	assert.Less(t, DocumentKey("T1", "D1"), start)
}
