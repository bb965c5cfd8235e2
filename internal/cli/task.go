package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/taskledger/internal/dispatch"
)

// AddTaskCommand adds the task command group to the root command.
func AddTaskCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create, inspect and move task records",
	}

	cmd.AddCommand(newTaskCreateCmd(flags))
	cmd.AddCommand(newTaskStatusCmd(flags))
	cmd.AddCommand(newTaskConfirmCmd(flags))
	cmd.AddCommand(newTaskGetCmd(flags))
	cmd.AddCommand(newTaskListCmd(flags))
	cmd.AddCommand(newTaskHistoryCmd(flags))

	root.AddCommand(cmd)
}

func newTaskCreateCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "create <task-id> <title> <description> <assignee> <creator>",
		Short: "Create a new task record",
		Long: `Create a new task record with status CREATED and no documents.

All five fields are required, and the task ID must not already exist.

Examples:
  taskledger task create T-100 "Contract review" "Review the draft" alice bob --role admin`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvocation(cmd, flags, dispatch.FuncCreateTask, args)
		},
	}
}

func newTaskStatusCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status <task-id> <new-status> <updated-by>",
		Short: "Move a task to a new status",
		Long: `Move a task to a new status and record who moved it.

Status labels are case-insensitive: CREATED, IN_PROGRESS, COMPLETED,
CANCELLED, CONFIRMED. Any status may follow any other; process discipline
lives with the callers, not the ledger.

Examples:
  taskledger task status T-100 in_progress alice --role moderator`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvocation(cmd, flags, dispatch.FuncUpdateTaskStatus, args)
		},
	}
}

func newTaskConfirmCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <task-id> <confirmed-by>",
		Short: "Confirm a task (move it to CONFIRMED)",
		Long: `Confirm a task, moving it to CONFIRMED and recording who signed off.

This is the expert's sign-off operation: it carries its own permission, so
experts can confirm without holding the general status-update permission.

Examples:
  taskledger task confirm T-100 erin --role expert`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvocation(cmd, flags, dispatch.FuncConfirmTask, args)
		},
	}
}

func newTaskGetCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <task-id>",
		Short: "Fetch a full task record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvocation(cmd, flags, dispatch.FuncGetTask, args)
		},
	}
}

func newTaskListCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every task record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInvocation(cmd, flags, dispatch.FuncListTasks, nil)
		},
	}
}

func newTaskHistoryCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "history <task-id>",
		Short: "Show every ledger revision of a task, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvocation(cmd, flags, dispatch.FuncGetTaskHistory, args)
		},
	}
}
