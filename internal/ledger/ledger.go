// Package ledger defines the key-value ledger primitives the workflow engine
// is built on, plus the backends that implement them.
//
// The ledger is an append/overwrite key-value store with per-key history.
// Consistency is the platform's concern: every primitive is atomic and a
// rejected write (including a concurrent-write rejection) surfaces as an
// error from PutState. Nothing in this package retries.
package ledger

import (
	"context"
	"time"
)

// KV is a single key-value pair returned by range queries.
type KV struct {
	// Key is the full ledger key.
	Key string

	// Value is the raw stored bytes.
	Value []byte
}

// Modification is one revision in a key's history, oldest first.
type Modification struct {
	// TxID is the transaction identifier that produced this revision.
	TxID string `json:"tx_id"`

	// Timestamp is when the revision was committed (UTC).
	Timestamp time.Time `json:"timestamp"`

	// IsDelete marks a tombstone revision.
	IsDelete bool `json:"is_delete"`

	// Value is the raw bytes written by the revision (nil for tombstones).
	Value []byte `json:"value,omitempty"`
}

// Ledger is the narrow interface the state store consumes.
//
// GetState returns nil bytes with a nil error when the key has never been
// written or was deleted; absence is not an error at this layer.
//
// CreateCompositeKey builds a namespaced key from a type tag and attribute
// parts. Backends without native composite-key support return
// errors.ErrCompositeKeyUnsupported, and the store falls back to its own
// deterministic construction.
type Ledger interface {
	// GetState returns the stored bytes for key, or nil if absent.
	GetState(ctx context.Context, key string) ([]byte, error)

	// PutState writes value under key, recording a history revision.
	PutState(ctx context.Context, key string, value []byte) error

	// DelState removes key, recording a tombstone revision.
	DelState(ctx context.Context, key string) error

	// GetStateByRange returns all pairs with startKey <= key < endKey in
	// ascending key order. An empty startKey means the lowest key, an empty
	// endKey means unbounded.
	GetStateByRange(ctx context.Context, startKey, endKey string) ([]KV, error)

	// GetHistoryForKey returns every revision of key, oldest first,
	// including tombstones. An unknown key yields an empty history.
	GetHistoryForKey(ctx context.Context, key string) ([]Modification, error)

	// CreateCompositeKey builds a composite key from objectType and
	// attributes, or returns errors.ErrCompositeKeyUnsupported.
	CreateCompositeKey(objectType string, attributes []string) (string, error)

	// Close releases backend resources. The ledger is unusable afterwards.
	Close() error
}
