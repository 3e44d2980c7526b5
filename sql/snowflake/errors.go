// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package snowflake

import "fmt"

type (
	// UnsupportedError is returned when a change, or one of its options,
	// cannot be represented in Snowflake.
	UnsupportedError struct {
		Op     string // Change kind, e.g. AddCheckConstraint.
		Reason string
	}

	// ConflictError is returned when two changes of the same program
	// conflict with each other. For example, a foreign key between two
	// hybrid tables that are created by the program.
	ConflictError struct {
		Table    string
		RefTable string
		Symbol   string
	}

	// MissingFieldError is returned when a change lacks a required field.
	MissingFieldError struct {
		Op    string
		Field string
	}
)

func (e *UnsupportedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s is not supported", e.Op)
	}
	return fmt.Sprintf("%s is not supported: %s", e.Op, e.Reason)
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("foreign key %q from hybrid table %q to hybrid table %q cannot be created by the same migration", e.Symbol, e.Table, e.RefTable)
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s requires the %s to be set", e.Op, e.Field)
}

func unsupported(op, format string, args ...any) error {
	return &UnsupportedError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
