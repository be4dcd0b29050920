/*
 * export.go, part of govasp.
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
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/rmera/govasp/histo"
)

// WriteCSV writes t as comma-separated values to the file name, with the
// column names as header. Names ending in ".gz" or ".zst" are compressed.
func WriteCSV(name string, t Table) error {
	r, c := t.Data.Dims()
	if len(t.Columns) != c {
		return newError(ErrInvalidParameter, name, fmt.Sprintf("%d column names for %d columns", len(t.Columns), c), "WriteCSV")
	}
	out, err := createOutput(name)
	if err != nil {
		return causedBy(ErrOutput, name, err, "WriteCSV")
	}
	w := csv.NewWriter(out)
	fail := func(err error) error {
		out.Close()
		return causedBy(ErrOutput, name, err, "WriteCSV")
	}
	if err := w.Write(t.Columns); err != nil {
		return fail(err)
	}
	rec := make([]string, c)
	for i := 0; i < r; i++ {
		for j := range rec {
			rec[j] = strconv.FormatFloat(t.Data.At(i, j), 'g', -1, 64)
		}
		if err := w.Write(rec); err != nil {
			return fail(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fail(err)
	}
	if err := out.Close(); err != nil {
		return causedBy(ErrOutput, name, err, "WriteCSV")
	}
	return nil
}

// EnergyHistogram counts the energy levels of each spin channel of E
// in the bins given by dividers.
func EnergyHistogram(E Spin, dividers []float64) []*histo.Data {
	ret := make([]*histo.Data, E.Spins())
	for s := range ret {
		t := E.Table(s)
		r, c := t.Dims()
		raw := make([]float64, 0, r*c)
		for i := 0; i < r; i++ {
			raw = append(raw, t.RawRowView(i)...)
		}
		label := "levels"
		if E.Spins() == 2 {
			label += spinSuffix(s, 2)
		}
		ret[s] = histo.NewData(label, dividers, raw)
	}
	return ret
}
