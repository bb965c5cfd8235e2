// Package domain provides shared domain types for the taskledger workflow engine.
package domain

import "github.com/mrz1836/taskledger/internal/constants"

// TaskStatus re-exports the status type from the constants package so that
// consumers can import domain types and status values together.
//
// Example usage:
//
//	task := domain.Task{
//	    Status: domain.TaskStatusCreated,
//	}
type TaskStatus = constants.TaskStatus

// Re-export TaskStatus constants for convenience.
// These mirror the values in internal/constants/status.go.
const (
	// TaskStatusCreated is the initial status of every task.
	TaskStatusCreated = constants.TaskStatusCreated

	// TaskStatusInProgress indicates work on the task has started.
	TaskStatusInProgress = constants.TaskStatusInProgress

	// TaskStatusCompleted indicates the assignee finished the work.
	TaskStatusCompleted = constants.TaskStatusCompleted

	// TaskStatusCancelled indicates the task was called off.
	TaskStatusCancelled = constants.TaskStatusCancelled

	// TaskStatusConfirmed indicates an expert signed off on the task.
	TaskStatusConfirmed = constants.TaskStatusConfirmed
)
