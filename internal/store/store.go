// Package store provides the state store: a thin transactional façade over
// the ledger primitives that owns (de)serialization of the task aggregate.
//
// Absence is an explicit value here, not an error: Get reports found=false
// for keys that were never written or were deleted. Malformed stored bytes
// are fail-soft: the record reads as absent and the anomaly is logged,
// because losing visibility of one corrupt record must not crash the caller.
package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/taskledger/internal/domain"
	apperrors "github.com/mrz1836/taskledger/internal/errors"
	"github.com/mrz1836/taskledger/internal/ledger"
)

// compositeKeySeparator joins the type tag and parts in the fallback
// composite-key form used when the ledger has no native construction.
// Simple keys produced by the keyspace package never contain a type tag
// followed by ':' in first position, so fallback keys cannot collide with
// them as long as prefix discipline holds.
const compositeKeySeparator = ":"

// Revision is one decoded entry of a key's history.
// Tombstone revisions carry a nil Task.
type Revision struct {
	// TxID identifies the transaction that produced the revision.
	TxID string `json:"tx_id"`

	// Timestamp is when the revision was committed (UTC).
	Timestamp time.Time `json:"timestamp"`

	// IsDelete marks a tombstone revision.
	IsDelete bool `json:"is_delete"`

	// Task is the decoded aggregate at this revision, nil for tombstones.
	Task *domain.Task `json:"task,omitempty"`
}

// Store wraps a ledger backend with aggregate (de)serialization.
type Store struct {
	ledger ledger.Ledger
	logger zerolog.Logger
}

// New creates a Store on top of the given ledger backend.
func New(l ledger.Ledger, logger zerolog.Logger) *Store {
	return &Store{
		ledger: l,
		logger: logger.With().Str("component", "store").Logger(),
	}
}

// Get reads and decodes the task aggregate stored at key.
// found is false when the key is absent or the stored bytes are malformed;
// the latter is logged as an anomaly rather than returned as an error.
func (s *Store) Get(ctx context.Context, key string) (task *domain.Task, found bool, err error) {
	value, err := s.ledger.GetState(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to read key %s: %w", apperrors.ErrStore, key, err)
	}
	if len(value) == 0 {
		return nil, false, nil
	}

	var decoded domain.Task
	if err := json.Unmarshal(value, &decoded); err != nil {
		s.logger.Warn().Str("key", key).Err(err).
			Msg("stored record is malformed, treating as absent")
		return nil, false, nil
	}
	return &decoded, true, nil
}

// Put serializes and writes the task aggregate at key.
// Serialization and transport failures (including concurrent-write
// rejections at the platform level) surface as ErrStore; nothing is
// partially written and nothing is retried here.
func (s *Store) Put(ctx context.Context, key string, task *domain.Task) error {
	if task == nil {
		return apperrors.Wrap(apperrors.ErrEmptyValue, "task record")
	}

	value, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("%w: failed to encode record for key %s: %w", apperrors.ErrStore, key, err)
	}
	if err := s.ledger.PutState(ctx, key, value); err != nil {
		return fmt.Errorf("%w: failed to write key %s: %w", apperrors.ErrStore, key, err)
	}
	return nil
}

// Delete removes the record at key. The workflow engine never calls this;
// it exists for operational tooling above the engine.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.ledger.DelState(ctx, key); err != nil {
		return fmt.Errorf("%w: failed to delete key %s: %w", apperrors.ErrStore, key, err)
	}
	return nil
}

// Range reads and decodes every aggregate in [startKey, endKey).
// Entries whose bytes fail to decode are skipped with a logged warning
// instead of aborting the whole query.
func (s *Store) Range(ctx context.Context, startKey, endKey string) ([]*domain.Task, error) {
	pairs, err := s.ledger.GetStateByRange(ctx, startKey, endKey)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to scan range [%s, %s): %w", apperrors.ErrStore, startKey, endKey, err)
	}

	tasks := make([]*domain.Task, 0, len(pairs))
	for _, pair := range pairs {
		var decoded domain.Task
		if err := json.Unmarshal(pair.Value, &decoded); err != nil {
			s.logger.Warn().Str("key", pair.Key).Err(err).
				Msg("skipping malformed record in range query")
			continue
		}
		tasks = append(tasks, &decoded)
	}
	return tasks, nil
}

// History returns every revision of key, oldest first. Revisions whose
// stored bytes fail to decode are skipped with a logged warning.
func (s *Store) History(ctx context.Context, key string) ([]Revision, error) {
	mods, err := s.ledger.GetHistoryForKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read history for key %s: %w", apperrors.ErrStore, key, err)
	}

	revisions := make([]Revision, 0, len(mods))
	for _, mod := range mods {
		rev := Revision{
			TxID:      mod.TxID,
			Timestamp: mod.Timestamp,
			IsDelete:  mod.IsDelete,
		}
		if !mod.IsDelete {
			var decoded domain.Task
			if err := json.Unmarshal(mod.Value, &decoded); err != nil {
				s.logger.Warn().Str("key", key).Str("tx_id", mod.TxID).Err(err).
					Msg("skipping malformed record in history")
				continue
			}
			rev.Task = &decoded
		}
		revisions = append(revisions, rev)
	}
	return revisions, nil
}

// CompositeKey builds a namespaced key from a type tag and parts.
// It delegates to the ledger's native construction when available and falls
// back to the deterministic colon-joined form (type:part1:part2) when the
// backend reports composite keys unsupported.
func (s *Store) CompositeKey(objectType string, parts []string) (string, error) {
	key, err := s.ledger.CreateCompositeKey(objectType, parts)
	if err == nil {
		return key, nil
	}
	if !stderrors.Is(err, apperrors.ErrCompositeKeyUnsupported) {
		return "", fmt.Errorf("%w: failed to build composite key: %w", apperrors.ErrStore, err)
	}

	if objectType == "" {
		return "", apperrors.Wrap(apperrors.ErrEmptyValue, "composite key object type")
	}
	return objectType + compositeKeySeparator + strings.Join(parts, compositeKeySeparator), nil
}
