// Package keyspace provides the pure mapping between logical entity
// identifiers and ledger keys. No I/O happens here.
//
// Collisions within a prefix are impossible because IDs are unique per
// entity kind; collisions across prefixes are prevented by prefix discipline
// (TASK_ vs DOC_), never by escaping delimiters. Caller-supplied IDs that
// contain the delimiter character are accepted as-is.
package keyspace

import (
	"strings"

	"github.com/mrz1836/taskledger/internal/constants"
)

// TaskKey returns the ledger key addressing a task aggregate record.
func TaskKey(taskID string) string {
	return constants.TaskKeyPrefix + taskID
}

// DocumentKey returns the ledger key reserved for per-document addressing.
// No current read/write path consults it; all document state lives nested
// inside the task aggregate.
func DocumentKey(taskID, documentID string) string {
	return constants.DocumentKeyPrefix + taskID + "_" + documentID
}

// TaskIDFromKey extracts the task ID from a task ledger key.
// Returns false if the key does not carry the task prefix.
func TaskIDFromKey(key string) (string, bool) {
	if !strings.HasPrefix(key, constants.TaskKeyPrefix) {
		return "", false
	}
	return strings.TrimPrefix(key, constants.TaskKeyPrefix), true
}

// TaskRange returns the [start, end) key range covering every task record.
// The end key exploits byte ordering: '_'+1 == '`', so "TASK`" sorts
// immediately after all "TASK_"-prefixed keys.
func TaskRange() (startKey, endKey string) {
	prefix := constants.TaskKeyPrefix
	end := prefix[:len(prefix)-1] + string(prefix[len(prefix)-1]+1)
	return prefix, end
}
