// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific RuleError.
const (
	// ErrMalformedRecord indicates a mempool record could not be parsed
	// into a transaction descriptor.
	ErrMalformedRecord ErrorCode = iota

	// ErrDuplicateTx indicates a transaction with the same id was already
	// added to the pool.
	ErrDuplicateTx

	// ErrNegativeValue indicates a transaction carries a negative fee or
	// weight.
	ErrNegativeValue

	// ErrUnknownHandle indicates a handle that does not refer to any
	// transaction in the pool.
	ErrUnknownHandle

	// ErrSelectionInProgress indicates an attempt to start a selection
	// pass while another one still owns the inclusion flags.
	ErrSelectionInProgress

	// ErrNotResolved indicates derived data was written to a pool whose
	// ancestor chains were not resolved yet.
	ErrNotResolved

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrMalformedRecord:     "ErrMalformedRecord",
	ErrDuplicateTx:         "ErrDuplicateTx",
	ErrNegativeValue:       "ErrNegativeValue",
	ErrUnknownHandle:       "ErrUnknownHandle",
	ErrSelectionInProgress: "ErrSelectionInProgress",
	ErrNotResolved:         "ErrNotResolved",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RuleError identifies a rule violation.  The caller can use type assertions
// or errors.As to determine if a failure was specifically due to a rule
// violation and access the ErrorCode field to ascertain the specific reason.
type RuleError struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// ruleError creates an RuleError given a set of arguments.
func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether or not the provided error is a rule error with
// the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var rerr RuleError
	if !errors.As(err, &rerr) {
		return false
	}
	return rerr.ErrorCode == c
}
