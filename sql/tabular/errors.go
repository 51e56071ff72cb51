// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package tabular

import (
	"errors"
	"fmt"
)

// A RetrievalError is returned when the relational source failed to
// describe or fetch a table.
type RetrievalError struct {
	Table string // Table name, empty when listing tables.
	Op    string // One of "list", "describe" or "fetch".
	Err   error
}

func (e *RetrievalError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("tabular: %s tables: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("tabular: %s table %q: %v", e.Op, e.Table, e.Err)
}

// Unwrap returns the underlying source error.
func (e *RetrievalError) Unwrap() error { return e.Err }

// IsRetrievalError reports if err is a RetrievalError.
func IsRetrievalError(err error) bool {
	var e *RetrievalError
	return errors.As(err, &e)
}

// A FormatError describes a malformed line of an exchange file.
// It is returned from Decode for unparsable table headers, and collected
// (see Decoder.Skipped) for column and data lines that were dropped.
type FormatError struct {
	Line int    // 1-based line number.
	Text string // Line content.
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("tabular: line %d: %s: %q", e.Line, e.Msg, e.Text)
}

// IsFormatError reports if err is a FormatError.
func IsFormatError(err error) bool {
	var e *FormatError
	return errors.As(err, &e)
}

type valueError struct {
	typ, raw string
}

func (e *valueError) Error() string {
	return fmt.Sprintf("invalid %s value %q", e.typ, e.raw)
}
