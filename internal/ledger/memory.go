package ledger

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mrz1836/taskledger/internal/clock"
	"github.com/mrz1836/taskledger/internal/errors"
)

// compositeKeyNamespace is the minimum unicode rune, used both as the leading
// namespace marker and the attribute delimiter for native composite keys.
// Keys built this way sort below every plain-string key, so they can never
// collide with the simple prefixed keys produced by the keyspace package.
const compositeKeyNamespace = "\x00"

// MemoryLedger is an in-process Ledger backed by maps. It serializes all
// access through a single mutex, giving the same one-writer-at-a-time
// guarantee per key the platform ledger provides.
//
// MemoryLedger is the default backend for local use and the test double for
// everything above the ledger layer.
type MemoryLedger struct {
	mu      sync.RWMutex
	state   map[string][]byte
	history map[string][]Modification
	clk     clock.Clock
	closed  bool
}

// NewMemoryLedger creates an empty in-process ledger.
// A nil clk defaults to the system clock.
func NewMemoryLedger(clk clock.Clock) *MemoryLedger {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &MemoryLedger{
		state:   make(map[string][]byte),
		history: make(map[string][]Modification),
		clk:     clk,
	}
}

// GetState returns the stored bytes for key, or nil if absent.
func (l *MemoryLedger) GetState(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return nil, errors.ErrServiceClosed
	}

	value, ok := l.state[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// PutState writes value under key and appends a history revision.
func (l *MemoryLedger) PutState(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return errors.ErrServiceClosed
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	l.state[key] = stored
	l.history[key] = append(l.history[key], Modification{
		TxID:      uuid.NewString(),
		Timestamp: l.clk.Now().UTC(),
		Value:     stored,
	})
	return nil
}

// DelState removes key and appends a tombstone revision.
func (l *MemoryLedger) DelState(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return errors.ErrServiceClosed
	}

	delete(l.state, key)
	l.history[key] = append(l.history[key], Modification{
		TxID:      uuid.NewString(),
		Timestamp: l.clk.Now().UTC(),
		IsDelete:  true,
	})
	return nil
}

// GetStateByRange returns all pairs with startKey <= key < endKey in
// ascending key order.
func (l *MemoryLedger) GetStateByRange(ctx context.Context, startKey, endKey string) ([]KV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return nil, errors.ErrServiceClosed
	}

	keys := make([]string, 0, len(l.state))
	for key := range l.state {
		if key < startKey {
			continue
		}
		if endKey != "" && key >= endKey {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]KV, 0, len(keys))
	for _, key := range keys {
		value := l.state[key]
		out := make([]byte, len(value))
		copy(out, value)
		pairs = append(pairs, KV{Key: key, Value: out})
	}
	return pairs, nil
}

// GetHistoryForKey returns every revision of key, oldest first.
func (l *MemoryLedger) GetHistoryForKey(ctx context.Context, key string) ([]Modification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return nil, errors.ErrServiceClosed
	}

	revisions := l.history[key]
	out := make([]Modification, len(revisions))
	copy(out, revisions)
	return out, nil
}

// CreateCompositeKey builds a null-delimited composite key from objectType
// and attributes, in the style of platform ledgers.
func (l *MemoryLedger) CreateCompositeKey(objectType string, attributes []string) (string, error) {
	if objectType == "" {
		return "", errors.Wrap(errors.ErrEmptyValue, "composite key object type")
	}

	var b strings.Builder
	b.WriteString(compositeKeyNamespace)
	b.WriteString(objectType)
	b.WriteString(compositeKeyNamespace)
	for _, attr := range attributes {
		b.WriteString(attr)
		b.WriteString(compositeKeyNamespace)
	}
	return b.String(), nil
}

// Close marks the ledger closed. Subsequent operations fail.
func (l *MemoryLedger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// Ensure MemoryLedger implements Ledger.
var _ Ledger = (*MemoryLedger)(nil)
