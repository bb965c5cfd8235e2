// Package errors provides centralized error handling for taskledger.
//
// This package defines sentinel errors used for programmatic error
// categorization throughout the application. All error types can be checked
// using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrInvalidStatus indicates a status label outside the defined set.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrTaskExists indicates an attempt to create a task whose ID is
	// already present in the ledger.
	ErrTaskExists = errors.New("task already exists")

	// ErrTaskNotFound indicates the requested task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrDocumentNotFound indicates the requested document is not attached
	// to the task.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrStore indicates an underlying ledger read/write failure
	// (serialization fault, transport fault, concurrent-write rejection).
	// The engine never retries; retry policy belongs to the caller.
	ErrStore = errors.New("state store failure")

	// ErrMalformedRecord indicates stored bytes could not be decoded as the
	// expected aggregate record. Read paths treat this as absence.
	ErrMalformedRecord = errors.New("malformed ledger record")

	// ErrCompositeKeyUnsupported indicates a ledger backend has no native
	// composite-key construction and the store must fall back to the
	// deterministic colon-joined form.
	ErrCompositeKeyUnsupported = errors.New("composite keys not supported by ledger")

	// ErrUnknownFunction indicates a dispatcher invocation named a function
	// outside the routing table.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrArityMismatch indicates a dispatcher invocation carried the wrong
	// number of arguments for the named function.
	ErrArityMismatch = errors.New("wrong number of arguments")

	// ErrPermissionDenied indicates the caller's role does not grant the
	// permission the operation requires.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnknownRole indicates the caller's role label did not resolve to
	// any known role (authentication failure, not a default role).
	ErrUnknownRole = errors.New("unknown role")

	// ErrInvalidOutputFormat indicates a CLI output format outside text|json.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrInvocationFailed indicates a dispatched invocation answered with a
	// failure envelope. The envelope itself carries the details; this
	// sentinel only drives the process exit code.
	ErrInvocationFailed = errors.New("invocation failed")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidLedger indicates an invalid ledger configuration value.
	ErrConfigInvalidLedger = errors.New("invalid ledger configuration")

	// ErrConfigInvalidLogging indicates an invalid logging configuration value.
	ErrConfigInvalidLogging = errors.New("invalid logging configuration")

	// ErrServiceClosed indicates an operation was attempted on a service
	// whose Close was already called.
	ErrServiceClosed = errors.New("service is closed")
)
