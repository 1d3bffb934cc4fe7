// Copyright (c) 2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"fmt"
	"testing"
)

// TestErrorCodeStringer tests the stringized output for the ErrorCode type.
func TestErrorCodeStringer(t *testing.T) {
	tests := []struct {
		in   ErrorCode
		want string
	}{
		{ErrNotAggregated, "ErrNotAggregated"},
		{ErrInvalidCapacity, "ErrInvalidCapacity"},
		{ErrInvalidScale, "ErrInvalidScale"},
		{ErrTableTooLarge, "ErrTableTooLarge"},
		{ErrValueOverflow, "ErrValueOverflow"},
		{ErrCapacityOverflow, "ErrCapacityOverflow"},
		{ErrUnknownStrategy, "ErrUnknownStrategy"},
		{0xffff, "Unknown ErrorCode (65535)"},
	}

	// Detect additional error codes that don't have the stringer added.
	if len(tests)-1 != int(numErrorCodes) {
		t.Errorf("It appears an error code was added without adding an " +
			"associated stringer test")
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		result := test.in.String()
		if result != test.want {
			t.Errorf("String #%d\n got: %s want: %s", i, result,
				test.want)
			continue
		}
	}
}

// TestRuleError tests the error output and code matching for the RuleError
// type.
func TestRuleError(t *testing.T) {
	err := ruleError(ErrTableTooLarge, "too large")
	if err.Error() != "too large" {
		t.Errorf("Error: got %q want %q", err.Error(), "too large")
	}

	wrapped := fmt.Errorf("knapsack: %w", err)
	if !IsErrorCode(wrapped, ErrTableTooLarge) {
		t.Errorf("IsErrorCode did not match a wrapped rule error")
	}
	if IsErrorCode(wrapped, ErrInvalidScale) {
		t.Errorf("IsErrorCode matched the wrong code")
	}
}
