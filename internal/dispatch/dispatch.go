// Package dispatch routes named invocations to workflow engine operations
// and wraps every outcome in a uniform response envelope.
//
// The dispatcher is the single point guaranteeing the caller never observes
// an unhandled fault: arity and function-name checks run before the engine
// is touched, the authorization gate runs before any engine call, and any
// panic escaping the engine is converted into a failure envelope.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/taskledger/internal/authz"
	"github.com/mrz1836/taskledger/internal/clock"
	"github.com/mrz1836/taskledger/internal/domain"
	"github.com/mrz1836/taskledger/internal/engine"
	apperrors "github.com/mrz1836/taskledger/internal/errors"
)

// Function names accepted by Invoke.
const (
	FuncCreateTask          = "createTask"
	FuncUpdateTaskStatus    = "updateTaskStatus"
	FuncConfirmTask         = "confirmTask"
	FuncAddDocumentVersion  = "addDocumentVersion"
	FuncGetDocumentVersions = "getDocumentVersions"
	FuncGetTask             = "getTask"
	FuncListTasks           = "listTasks"
	FuncGetTaskHistory      = "getTaskHistory"
)

// Envelope is the uniform response wrapper returned by every invocation.
type Envelope struct {
	// Success reports whether the operation completed.
	Success bool `json:"success"`

	// Data holds the operation payload on success.
	Data any `json:"data,omitempty"`

	// Error holds the user-visible failure message on failure.
	Error string `json:"error,omitempty"`

	// Timestamp is the envelope creation time, RFC 3339 UTC.
	Timestamp string `json:"timestamp"`
}

// taskPayload wraps a bare task aggregate for envelope data.
type taskPayload struct {
	Task *domain.Task `json:"task"`
}

// route binds a function name to its permission, arity and handler.
type route struct {
	permission authz.Permission
	minArgs    int
	maxArgs    int
	usage      string
	invoke     func(ctx context.Context, args []string) (any, error)
}

// Dispatcher routes (function, args) invocations to engine operations.
type Dispatcher struct {
	routes map[string]route
	clk    clock.Clock
	logger zerolog.Logger
}

// New creates a Dispatcher over the given engine.
// A nil clk defaults to the system clock.
func New(eng *engine.Engine, clk clock.Clock, logger zerolog.Logger) *Dispatcher {
	if clk == nil {
		clk = clock.RealClock{}
	}
	d := &Dispatcher{
		clk:    clk,
		logger: logger.With().Str("component", "dispatch").Logger(),
	}

	d.routes = map[string]route{
		FuncCreateTask: {
			permission: authz.PermCreateTask,
			minArgs:    5,
			maxArgs:    5,
			usage:      "task_id, title, description, assignee, creator",
			invoke: func(ctx context.Context, args []string) (any, error) {
				task, err := eng.CreateTask(ctx, args[0], args[1], args[2], args[3], args[4])
				if err != nil {
					return nil, err
				}
				return taskPayload{Task: task}, nil
			},
		},
		FuncUpdateTaskStatus: {
			permission: authz.PermUpdateTaskStatus,
			minArgs:    3,
			maxArgs:    3,
			usage:      "task_id, new_status, updated_by",
			invoke: func(ctx context.Context, args []string) (any, error) {
				return orNil(eng.UpdateTaskStatus(ctx, args[0], args[1], args[2]))
			},
		},
		FuncConfirmTask: {
			// Confirm is a caller-boundary alias for updateTaskStatus with
			// CONFIRMED, gated by its own permission so experts can confirm
			// without holding the general status-update permission.
			permission: authz.PermConfirmTask,
			minArgs:    2,
			maxArgs:    2,
			usage:      "task_id, confirmed_by",
			invoke: func(ctx context.Context, args []string) (any, error) {
				return orNil(eng.UpdateTaskStatus(ctx, args[0], domain.TaskStatusConfirmed.String(), args[1]))
			},
		},
		FuncAddDocumentVersion: {
			permission: authz.PermAddDocumentVersion,
			minArgs:    5,
			maxArgs:    6,
			usage:      "task_id, document_id, version, content_hash, uploaded_by, [metadata_json]",
			invoke: func(ctx context.Context, args []string) (any, error) {
				var metadata map[string]any
				if len(args) == 6 {
					metadata = d.parseMetadata(args[5])
				}
				return orNil(eng.AddDocumentVersion(ctx, args[0], args[1], args[2], args[3], args[4], metadata))
			},
		},
		FuncGetDocumentVersions: {
			permission: authz.PermViewDocuments,
			minArgs:    2,
			maxArgs:    2,
			usage:      "task_id, document_id",
			invoke: func(ctx context.Context, args []string) (any, error) {
				return orNil(eng.GetDocumentVersions(ctx, args[0], args[1]))
			},
		},
		FuncGetTask: {
			permission: authz.PermViewTask,
			minArgs:    1,
			maxArgs:    1,
			usage:      "task_id",
			invoke: func(ctx context.Context, args []string) (any, error) {
				task, err := eng.GetTask(ctx, args[0])
				if err != nil {
					return nil, err
				}
				return taskPayload{Task: task}, nil
			},
		},
		FuncListTasks: {
			permission: authz.PermViewTask,
			minArgs:    0,
			maxArgs:    0,
			usage:      "",
			invoke: func(ctx context.Context, _ []string) (any, error) {
				return orNil(eng.ListTasks(ctx))
			},
		},
		FuncGetTaskHistory: {
			permission: authz.PermViewTask,
			minArgs:    1,
			maxArgs:    1,
			usage:      "task_id",
			invoke: func(ctx context.Context, args []string) (any, error) {
				return orNil(eng.GetTaskHistory(ctx, args[0]))
			},
		},
	}
	return d
}

// Functions returns the sorted dispatchable function names.
func (d *Dispatcher) Functions() []string {
	names := make([]string, 0, len(d.routes))
	for name := range d.routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke routes one invocation for an already-resolved role.
// It never panics and never returns without an envelope.
func (d *Dispatcher) Invoke(ctx context.Context, role authz.Role, function string, args []string) (env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().Str("function", function).Any("panic", r).
				Msg("recovered panic during dispatch")
			env = d.failure(fmt.Sprintf("internal error executing %s", function))
		}
	}()

	r, ok := d.routes[function]
	if !ok {
		return d.failure(apperrors.Wrapf(apperrors.ErrUnknownFunction, "%q", function).Error())
	}

	if len(args) < r.minArgs || len(args) > r.maxArgs {
		return d.failure(apperrors.Wrapf(apperrors.ErrArityMismatch,
			"%s expects %s arguments (%s), got %d", function, arityLabel(r), r.usage, len(args)).Error())
	}

	if !authz.HasPermission(role, r.permission) {
		d.logger.Warn().Str("function", function).Str("role", role.String()).
			Msg("permission denied")
		return d.failure(apperrors.Wrapf(apperrors.ErrPermissionDenied,
			"role %s may not call %s", role, function).Error())
	}

	data, err := r.invoke(ctx, args)
	if err != nil {
		return d.failure(err.Error())
	}
	return Envelope{Success: true, Data: data, Timestamp: d.timestamp()}
}

// ResolveAndInvoke resolves a caller-supplied role label and dispatches.
// An empty or unrecognized label fails before any routing happens.
func (d *Dispatcher) ResolveAndInvoke(ctx context.Context, roleLabel, function string, args []string) Envelope {
	role, ok := authz.Resolve(roleLabel)
	if !ok {
		return d.failure(apperrors.Wrapf(apperrors.ErrUnknownRole, "%q", roleLabel).Error())
	}
	return d.Invoke(ctx, role, function, args)
}

// parseMetadata decodes the optional metadata argument. Malformed JSON is
// downgraded to an empty map with a logged warning rather than rejected;
// the attachment itself must not be lost over optional annotations.
func (d *Dispatcher) parseMetadata(raw string) map[string]any {
	if raw == "" {
		return map[string]any{}
	}
	var metadata map[string]any
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		d.logger.Warn().Err(err).Msg("malformed metadata downgraded to empty map")
		return map[string]any{}
	}
	if metadata == nil {
		return map[string]any{}
	}
	return metadata
}

// failure builds a failure envelope with the given message.
func (d *Dispatcher) failure(message string) Envelope {
	return Envelope{Success: false, Error: message, Timestamp: d.timestamp()}
}

// timestamp renders the envelope timestamp, RFC 3339 UTC.
func (d *Dispatcher) timestamp() string {
	return d.clk.Now().UTC().Format(time.RFC3339)
}

// arityLabel renders the expected argument count for arity errors.
func arityLabel(r route) string {
	if r.minArgs == r.maxArgs {
		return fmt.Sprintf("%d", r.minArgs)
	}
	return fmt.Sprintf("%d-%d", r.minArgs, r.maxArgs)
}

// orNil narrows a typed (result, error) pair to (any, error) so handlers do
// not return typed nils inside a non-nil interface on failure.
func orNil[T any](result *T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return result, nil
}
