// Package domain provides shared domain types for the taskledger workflow engine.
// These types are used across all internal packages to ensure consistent data
// structures.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, standard library
//   - MUST NOT import: any other internal packages
//
// All JSON field names use snake_case, matching the aggregate record format
// persisted in the ledger.
package domain

import (
	"time"

	"github.com/mrz1836/taskledger/internal/constants"
)

// Task is the aggregate record persisted as a single ledger value.
// Documents and their versions are nested inside the task rather than keyed
// separately; every operation reads and writes the whole aggregate as one
// unit. This trades per-document addressability for atomicity (document
// counts are bounded by the ledger's value-size limits).
//
// Example JSON representation:
//
//	{
//	    "task_id": "T-2026-0142",
//	    "title": "Review draft regulation",
//	    "description": "Initial legal review of the draft text",
//	    "assignee": "jurist1",
//	    "creator": "admin",
//	    "status": "CREATED",
//	    "created_at": "2026-03-01T09:15:00Z",
//	    "updated_at": "2026-03-01T09:15:00Z",
//	    "documents": []
//	}
type Task struct {
	// TaskID is the caller-supplied unique identifier. Immutable.
	TaskID string `json:"task_id"`

	// Title is a short human-readable name for the task.
	Title string `json:"title"`

	// Description explains what the task is about.
	Description string `json:"description"`

	// Assignee identifies who the task is assigned to.
	Assignee string `json:"assignee"`

	// Creator identifies who created the task.
	Creator string `json:"creator"`

	// Status is the current workflow status (always uppercase).
	Status constants.TaskStatus `json:"status"`

	// CreatedAt is when the task was created (UTC).
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the task was last modified (UTC).
	// Invariant: UpdatedAt >= CreatedAt.
	UpdatedAt time.Time `json:"updated_at"`

	// UpdatedBy identifies the last mutator. Absent until the first update.
	UpdatedBy string `json:"updated_by,omitempty"`

	// Documents holds the attached documents in first-attachment order.
	Documents []Document `json:"documents"`
}

// Document groups the versions uploaded under one document ID within a task.
// A document is created implicitly by the first version attachment for a
// previously-unseen document ID; it is never created standalone.
type Document struct {
	// DocumentID is unique within the owning task.
	DocumentID string `json:"document_id"`

	// CreatedAt is the timestamp of the first version attachment (UTC).
	CreatedAt time.Time `json:"created_at"`

	// Versions holds the uploaded versions in upload order. Append-only.
	Versions []DocumentVersion `json:"versions"`
}

// DocumentVersion records a single upload of document content.
// The content itself lives in an external content store; only the hash is
// kept here and it is never re-validated against actual bytes.
type DocumentVersion struct {
	// DocumentID mirrors the owning document's ID for self-contained
	// version records in responses.
	DocumentID string `json:"document_id"`

	// Version is a caller-supplied label ("1.0", "2.0", ...). No uniqueness
	// is enforced; duplicate labels accumulate.
	Version string `json:"version"`

	// ContentHash is the opaque identifier of the externally stored content.
	ContentHash string `json:"content_hash"`

	// UploadedBy identifies who uploaded this version.
	UploadedBy string `json:"uploaded_by"`

	// UploadedAt is when this version was attached (UTC).
	UploadedAt time.Time `json:"uploaded_at"`

	// Metadata is an open key-value map. Defaults to empty.
	Metadata map[string]any `json:"metadata"`
}

// FindDocument returns the document with the given ID, or nil if the task has
// no such document. The scan is O(n) in the number of attached documents,
// which is acceptable at the expected tens-of-documents scale; callers
// attaching thousands of documents per task should key documents separately.
func (t *Task) FindDocument(documentID string) *Document {
	for i := range t.Documents {
		if t.Documents[i].DocumentID == documentID {
			return &t.Documents[i]
		}
	}
	return nil
}
