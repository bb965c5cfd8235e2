// Package engine implements the workflow core: task creation, status
// updates, the versioned document attachment protocol, and the read
// operations over task aggregates.
//
// Every operation is a single state-store read-modify-write cycle. The
// aggregate is self-contained, so no multi-key transactions are needed;
// concurrent writers to the same task are serialized by the ledger platform,
// not here. A rejected put surfaces as a store error and is never retried;
// retry policy belongs to the caller.
package engine

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/taskledger/internal/clock"
	"github.com/mrz1836/taskledger/internal/constants"
	"github.com/mrz1836/taskledger/internal/domain"
	apperrors "github.com/mrz1836/taskledger/internal/errors"
	"github.com/mrz1836/taskledger/internal/keyspace"
	"github.com/mrz1836/taskledger/internal/store"
)

// Engine orchestrates state-store reads and writes for the workflow
// operations. It performs no authorization checks: the dispatcher gates every
// call before it reaches the engine.
type Engine struct {
	store  *store.Store
	clk    clock.Clock
	logger zerolog.Logger
}

// New creates an Engine. A nil clk defaults to the system clock.
func New(s *store.Store, clk clock.Clock, logger zerolog.Logger) *Engine {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Engine{
		store:  s,
		clk:    clk,
		logger: logger.With().Str("component", "engine").Logger(),
	}
}

// StatusChange is the result of UpdateTaskStatus, carrying both the old and
// new status for audit purposes.
type StatusChange struct {
	Task      *domain.Task      `json:"task"`
	OldStatus domain.TaskStatus `json:"old_status"`
	NewStatus domain.TaskStatus `json:"new_status"`
}

// VersionAttachment is the result of AddDocumentVersion.
type VersionAttachment struct {
	Task            *domain.Task           `json:"task"`
	DocumentVersion domain.DocumentVersion `json:"document_version"`
}

// DocumentVersions is the result of GetDocumentVersions: the full ordered
// version sequence of one document, never paginated.
type DocumentVersions struct {
	TaskID        string                   `json:"task_id"`
	DocumentID    string                   `json:"document_id"`
	Versions      []domain.DocumentVersion `json:"versions"`
	TotalVersions int                      `json:"total_versions"`
}

// TaskList is the result of ListTasks.
type TaskList struct {
	Tasks      []*domain.Task `json:"tasks"`
	TotalTasks int            `json:"total_tasks"`
}

// TaskHistory is the result of GetTaskHistory: every ledger revision of the
// task aggregate, oldest first.
type TaskHistory struct {
	TaskID         string           `json:"task_id"`
	Revisions      []store.Revision `json:"revisions"`
	TotalRevisions int              `json:"total_revisions"`
}

// CreateTask creates a new task with status CREATED and an empty document
// list. All five fields are required. Creation fails if a record already
// exists at the task's key.
func (e *Engine) CreateTask(ctx context.Context, taskID, title, description, assignee, creator string) (*domain.Task, error) {
	if err := requireAll(map[string]string{
		"task_id":     taskID,
		"title":       title,
		"description": description,
		"assignee":    assignee,
		"creator":     creator,
	}); err != nil {
		return nil, err
	}

	key := keyspace.TaskKey(taskID)
	_, found, err := e.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, apperrors.Wrapf(apperrors.ErrTaskExists, "task %s", taskID)
	}

	now := e.clk.Now().UTC()
	task := &domain.Task{
		TaskID:      taskID,
		Title:       title,
		Description: description,
		Assignee:    assignee,
		Creator:     creator,
		Status:      constants.TaskStatusCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
		Documents:   []domain.Document{},
	}

	if err := e.store.Put(ctx, key, task); err != nil {
		return nil, err
	}

	e.logger.Info().Str("task_id", taskID).Str("creator", creator).Msg("task created")
	return task, nil
}

// UpdateTaskStatus overwrites the task's status, bumps updated_at and records
// the mutator. newStatus is normalized case-insensitively to uppercase and
// must be one of the defined statuses.
//
// No transition graph is enforced: any status may follow any other status,
// including itself. This is a deliberate design choice of the workflow;
// callers wanting ordering must layer it above the engine.
func (e *Engine) UpdateTaskStatus(ctx context.Context, taskID, newStatus, updatedBy string) (*StatusChange, error) {
	if err := requireAll(map[string]string{
		"task_id":    taskID,
		"new_status": newStatus,
		"updated_by": updatedBy,
	}); err != nil {
		return nil, err
	}

	status, ok := constants.ParseTaskStatus(newStatus)
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidStatus,
			"%q is not one of %s", newStatus, joinStatuses())
	}

	key := keyspace.TaskKey(taskID)
	task, found, err := e.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.Wrapf(apperrors.ErrTaskNotFound, "task %s", taskID)
	}

	oldStatus := task.Status
	task.Status = status
	e.touch(task)
	task.UpdatedBy = updatedBy

	if err := e.store.Put(ctx, key, task); err != nil {
		return nil, err
	}

	e.logger.Info().
		Str("task_id", taskID).
		Str("old_status", oldStatus.String()).
		Str("new_status", status.String()).
		Str("updated_by", updatedBy).
		Msg("task status updated")

	return &StatusChange{Task: task, OldStatus: oldStatus, NewStatus: status}, nil
}

// AddDocumentVersion appends a version to the identified document, creating
// the document implicitly if this is the first version under its ID. The
// version sequence is append-only and duplicate version labels are legal.
//
// Document lookup is a linear scan over the task's documents, O(n) in the
// number of attached documents.
func (e *Engine) AddDocumentVersion(ctx context.Context, taskID, documentID, version, contentHash, uploadedBy string, metadata map[string]any) (*VersionAttachment, error) {
	if err := requireAll(map[string]string{
		"version":      version,
		"content_hash": contentHash,
		"uploaded_by":  uploadedBy,
	}); err != nil {
		return nil, err
	}
	if metadata == nil {
		metadata = map[string]any{}
	}

	key := keyspace.TaskKey(taskID)
	task, found, err := e.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.Wrapf(apperrors.ErrTaskNotFound, "task %s", taskID)
	}

	now := e.clk.Now().UTC()
	docVersion := domain.DocumentVersion{
		DocumentID:  documentID,
		Version:     version,
		ContentHash: contentHash,
		UploadedBy:  uploadedBy,
		UploadedAt:  now,
		Metadata:    metadata,
	}

	if doc := task.FindDocument(documentID); doc != nil {
		doc.Versions = append(doc.Versions, docVersion)
	} else {
		task.Documents = append(task.Documents, domain.Document{
			DocumentID: documentID,
			CreatedAt:  now,
			Versions:   []domain.DocumentVersion{docVersion},
		})
	}
	e.touch(task)

	if err := e.store.Put(ctx, key, task); err != nil {
		return nil, err
	}

	e.logger.Info().
		Str("task_id", taskID).
		Str("document_id", documentID).
		Str("version", version).
		Str("uploaded_by", uploadedBy).
		Msg("document version added")

	return &VersionAttachment{Task: task, DocumentVersion: docVersion}, nil
}

// GetDocumentVersions returns the full ordered version sequence of one
// document plus its count. Read-only.
func (e *Engine) GetDocumentVersions(ctx context.Context, taskID, documentID string) (*DocumentVersions, error) {
	task, err := e.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	doc := task.FindDocument(documentID)
	if doc == nil {
		return nil, apperrors.Wrapf(apperrors.ErrDocumentNotFound,
			"document %s in task %s", documentID, taskID)
	}

	return &DocumentVersions{
		TaskID:        taskID,
		DocumentID:    documentID,
		Versions:      doc.Versions,
		TotalVersions: len(doc.Versions),
	}, nil
}

// GetTask returns the full task aggregate including nested documents.
// Read-only.
func (e *Engine) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	task, found, err := e.store.Get(ctx, keyspace.TaskKey(taskID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.Wrapf(apperrors.ErrTaskNotFound, "task %s", taskID)
	}
	return task, nil
}

// ListTasks returns every task aggregate in the ledger, in key order.
// Read-only; malformed records are skipped by the store.
func (e *Engine) ListTasks(ctx context.Context) (*TaskList, error) {
	start, end := keyspace.TaskRange()
	tasks, err := e.store.Range(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &TaskList{Tasks: tasks, TotalTasks: len(tasks)}, nil
}

// GetTaskHistory returns every ledger revision of the task aggregate, oldest
// first, including tombstones. A task with no history does not exist.
func (e *Engine) GetTaskHistory(ctx context.Context, taskID string) (*TaskHistory, error) {
	if taskID == "" {
		return nil, apperrors.Wrap(apperrors.ErrEmptyValue, "task_id")
	}

	revisions, err := e.store.History(ctx, keyspace.TaskKey(taskID))
	if err != nil {
		return nil, err
	}
	if len(revisions) == 0 {
		return nil, apperrors.Wrapf(apperrors.ErrTaskNotFound, "task %s", taskID)
	}

	return &TaskHistory{
		TaskID:         taskID,
		Revisions:      revisions,
		TotalRevisions: len(revisions),
	}, nil
}

// touch bumps updated_at, clamping to created_at so the
// updated_at >= created_at invariant holds even under a clock that moved
// backwards.
func (e *Engine) touch(task *domain.Task) {
	now := e.clk.Now().UTC()
	if now.Before(task.CreatedAt) {
		now = task.CreatedAt
	}
	task.UpdatedAt = now
}

// requireAll returns a validation error naming the first empty field.
// Map iteration order is not deterministic, so fields are checked in sorted
// name order for stable error messages.
func requireAll(fields map[string]string) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if strings.TrimSpace(fields[name]) == "" {
			return apperrors.Wrap(apperrors.ErrEmptyValue, name)
		}
	}
	return nil
}

// joinStatuses renders the valid status set for error messages.
func joinStatuses() string {
	statuses := constants.ValidTaskStatuses()
	labels := make([]string, len(statuses))
	for i, s := range statuses {
		labels[i] = s.String()
	}
	return strings.Join(labels, ", ")
}
