/*
 * errors.go, part of govasp.
 *
 * Copyright 2024 The govasp Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package vasp

import (
	"errors"
	"fmt"
	"strings"
)

// The kinds of error returned by the package. Every *Error unwraps to
// exactly one of them, and to the error that caused it, if any, so both
// can be checked with errors.Is.
// ErrMalformedRecord is for file contents that can't be parsed.
// ErrInvalidParameter is for run parameters (ISPIN, LORBIT, atom and band
// numbers) that were given or found but that VASP can't produce or that
// don't fit the run.
var (
	ErrMissingMetadata         = errors.New("missing metadata")
	ErrInconsistentKPointCount = errors.New("inconsistent k-point count")
	ErrMalformedRecord         = errors.New("malformed record")
	ErrUnderdeterminedFit      = errors.New("underdetermined fit")
	ErrSingularFit             = errors.New("singular fit")
	ErrUnknownFormat           = errors.New("unknown file format")
	ErrInvalidParameter        = errors.New("invalid run parameter")
	ErrOutput                  = errors.New("cannot write output")
)

// Decorator is implemented by all the errors in govasp. The Decorate method
// allows to add and retrieve info from the error, without changing its type
// or wrapping it around something else. Passing an empty string just returns
// the current decoration.
type Decorator interface {
	Error() string
	Decorate(string) []string
}

// Error is the error type for all the failures of the extraction pipeline.
type Error struct {
	kind     error
	message  string
	filename string   //the input file that has problems, or empty string if none.
	Field    string   //metadata field, for ErrMissingMetadata
	Tried    []string //sources attempted, for ErrMissingMetadata
	Record   string   //offending row or element, for ErrMalformedRecord
	cause    error
	deco     []string
}

func newError(kind error, filename, message string, caller string) *Error {
	return &Error{kind: kind, filename: filename, message: message, deco: []string{caller}}
}

func (err *Error) Error() string {
	var b strings.Builder
	b.WriteString("govasp: ")
	b.WriteString(err.kind.Error())
	if err.Field != "" {
		fmt.Fprintf(&b, " %s", err.Field)
	}
	if err.filename != "" {
		fmt.Fprintf(&b, " in %s", err.filename)
	}
	if err.Record != "" {
		fmt.Fprintf(&b, " (%s)", err.Record)
	}
	if err.message != "" {
		b.WriteString(": ")
		b.WriteString(err.message)
	}
	if len(err.Tried) > 0 {
		fmt.Fprintf(&b, " [tried: %s]", strings.Join(err.Tried, ", "))
	}
	return b.String()
}

// Unwrap returns the kind of the error, followed by its cause, if any.
func (err *Error) Unwrap() []error {
	if err.cause == nil {
		return []error{err.kind}
	}
	return []error{err.kind, err.cause}
}

// Decorate adds deco to the trail of callers the error went through.
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the file the error refers to, if any.
func (err *Error) FileName() string { return err.filename }

// errDecorate decorates err with the caller's name if err is a Decorator,
// and returns it unchanged otherwise.
func errDecorate(err error, caller string) error {
	var d Decorator
	if errors.As(err, &d) {
		d.Decorate(caller)
	}
	return err
}

// causedBy returns an error of the given kind that wraps cause.
func causedBy(kind error, filename string, cause error, caller string) *Error {
	e := newError(kind, filename, cause.Error(), caller)
	e.cause = cause
	return e
}

func malformed(filename, record, message, caller string) *Error {
	e := newError(ErrMalformedRecord, filename, message, caller)
	e.Record = record
	return e
}
