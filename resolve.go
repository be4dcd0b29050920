/*
 * resolve.go, part of govasp.
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
	"go.uber.org/zap"
)

// Source is one place where the value of a run parameter may be found.
// Lookup returns ok=false when the source does not hold the value (the
// file is absent, or the field is not in it). A non-nil error means that
// the value is there but could not be read, which is fatal.
type Source[T any] struct {
	Name   string
	Lookup func() (T, bool, error)
}

// Explicit is the source for a value given by the caller. If set is false
// the source is always skipped.
func Explicit[T any](v T, set bool) Source[T] {
	return Source[T]{
		Name: "user",
		Lookup: func() (T, bool, error) {
			return v, set, nil
		},
	}
}

// Resolve tries the sources in order and returns the first value found.
// If no source has the value, it returns an ErrMissingMetadata error
// listing field and the sources tried.
func Resolve[T any](log *zap.Logger, field string, sources ...Source[T]) (T, error) {
	var zero T
	log = orNop(log)
	tried := make([]string, 0, len(sources))
	for _, s := range sources {
		v, ok, err := s.Lookup()
		if err != nil {
			return zero, errDecorate(err, "Resolve: "+field)
		}
		if !ok {
			log.Debug("source skipped", zap.String("field", field), zap.String("source", s.Name))
			tried = append(tried, s.Name)
			continue
		}
		log.Info("using "+field+" from "+s.Name, zap.String("field", field), zap.String("source", s.Name), zap.Any("value", v))
		return v, nil
	}
	e := newError(ErrMissingMetadata, "", "either give it explicitly or provide one of the sources", "Resolve")
	e.Field = field
	e.Tried = tried
	return zero, e
}

// ResolveLabels is like Resolve, but the path labels are optional: if no
// source has them, a warning is logged and an empty slice returned.
// Only errors from sources holding unreadable labels are returned.
func ResolveLabels(log *zap.Logger, sources ...Source[[]string]) ([]string, error) {
	labels, err := Resolve(log, "labels", sources...)
	if err == nil {
		return labels, nil
	}
	if e, ok := err.(*Error); ok && e.kind == ErrMissingMetadata {
		orNop(log).Warn("can't determine the reciprocal point labels, they will be omitted",
			zap.Strings("tried", e.Tried))
		return []string{}, nil
	}
	return nil, err
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
