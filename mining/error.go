// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific RuleError.
const (
	// ErrNotAggregated indicates a selection was requested on a pool
	// whose chain fees and weights were not computed.
	ErrNotAggregated ErrorCode = iota

	// ErrInvalidCapacity indicates a negative block weight limit.
	ErrInvalidCapacity

	// ErrInvalidScale indicates the knapsack quantization scale could
	// not be determined.
	ErrInvalidScale

	// ErrTableTooLarge indicates the knapsack table would exceed the
	// configured number of cells.
	ErrTableTooLarge

	// ErrValueOverflow indicates the sum of the bundle fees does not fit
	// in the knapsack table.
	ErrValueOverflow

	// ErrCapacityOverflow indicates a selection exceeded the block weight
	// limit.  It can only be caused by a bug in a selector.
	ErrCapacityOverflow

	// ErrUnknownStrategy indicates a selection strategy name that is not
	// recognized.
	ErrUnknownStrategy

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrNotAggregated:    "ErrNotAggregated",
	ErrInvalidCapacity:  "ErrInvalidCapacity",
	ErrInvalidScale:     "ErrInvalidScale",
	ErrTableTooLarge:    "ErrTableTooLarge",
	ErrValueOverflow:    "ErrValueOverflow",
	ErrCapacityOverflow: "ErrCapacityOverflow",
	ErrUnknownStrategy:  "ErrUnknownStrategy",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RuleError identifies a selection failure.  The caller can use errors.As to
// access the ErrorCode field and ascertain the specific reason.
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
	return errors.As(err, &rerr) && rerr.ErrorCode == c
}
