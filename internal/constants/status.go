package constants

import "strings"

// TaskStatus represents the state of a task in the workflow lifecycle.
// Status values are stored uppercase in the ledger, matching the wire format
// consumed by downstream auditors.
type TaskStatus string

// Task status constants define the valid states a task can be in.
//
// The engine deliberately enforces no transition graph: any status may follow
// any other status, including itself. Creation always starts at CREATED and
// no status is terminal. Callers wanting stricter lifecycle semantics must
// layer them above the engine.
const (
	// TaskStatusCreated is the initial status of every task.
	TaskStatusCreated TaskStatus = "CREATED"

	// TaskStatusInProgress indicates work on the task has started.
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"

	// TaskStatusCompleted indicates the assignee finished the work.
	TaskStatusCompleted TaskStatus = "COMPLETED"

	// TaskStatusCancelled indicates the task was called off.
	TaskStatusCancelled TaskStatus = "CANCELLED"

	// TaskStatusConfirmed indicates an expert signed off on the task.
	// Set via the confirmTask caller-boundary alias.
	TaskStatusConfirmed TaskStatus = "CONFIRMED"
)

// ValidTaskStatuses returns the closed set of task statuses in declaration
// order. The returned slice is a copy and safe to modify.
func ValidTaskStatuses() []TaskStatus {
	return []TaskStatus{
		TaskStatusCreated,
		TaskStatusInProgress,
		TaskStatusCompleted,
		TaskStatusCancelled,
		TaskStatusConfirmed,
	}
}

// ParseTaskStatus normalizes a caller-supplied status label to its canonical
// uppercase form. Matching is case-insensitive. Returns false for anything
// outside the closed status set.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	normalized := TaskStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch normalized {
	case TaskStatusCreated, TaskStatusInProgress, TaskStatusCompleted,
		TaskStatusCancelled, TaskStatusConfirmed:
		return normalized, true
	}
	return "", false
}

// String returns the status as its wire representation.
func (s TaskStatus) String() string {
	return string(s)
}
