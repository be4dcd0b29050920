/*
 * export_test.go, part of govasp.
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
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestWriteCSV(Te *testing.T) {
	t := Table{
		Columns: []string{"k_points", "1", "2"},
		Data:    mat.NewDense(2, 3, []float64{0, -1.5, 2.25, 0.1, -1.25, 1e-7}),
	}
	for _, name := range []string{"bands.csv", "bands.csv.gz", "bands.csv.zst"} {
		p := filepath.Join(Te.TempDir(), name)
		require.NoError(Te, WriteCSV(p, t), name)
		r, err := openInput(p)
		require.NoError(Te, err)
		recs, err := csv.NewReader(r).ReadAll()
		require.NoError(Te, r.Close())
		require.NoError(Te, err)
		assert.Equal(Te, [][]string{
			{"k_points", "1", "2"},
			{"0", "-1.5", "2.25"},
			{"0.1", "-1.25", "1e-07"},
		}, recs, name)
	}
}

func TestWriteCSVErrors(Te *testing.T) {
	dir := Te.TempDir()
	bad := Table{Columns: []string{"x"}, Data: mat.NewDense(1, 2, nil)}
	err := WriteCSV(filepath.Join(dir, "x.csv"), bad)
	assert.True(Te, errors.Is(err, ErrInvalidParameter), err)

	good := Table{Columns: []string{"x", "y"}, Data: mat.NewDense(1, 2, nil)}
	p := filepath.Join(dir, "no", "such", "dir.csv")
	err = WriteCSV(p, good)
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, ErrOutput), err)
	assert.True(Te, errors.Is(err, fs.ErrNotExist), "the cause is kept")
	var e *Error
	require.True(Te, errors.As(err, &e))
	assert.Equal(Te, p, e.FileName())
	assert.Equal(Te, []string{"WriteCSV", "caller"}, e.Decorate("caller"))
}

func TestEnergyHistogram(Te *testing.T) {
	E := DualSpin{
		Up:   mat.NewDense(2, 2, []float64{-1.5, -0.5, 0.5, 3}),
		Down: mat.NewDense(2, 2, []float64{-0.25, -0.75, 0.25, 0.75}),
	}
	h := EnergyHistogram(E, []float64{-2, -1, 0, 1, 2})
	require.Len(Te, h, 2)
	assert.Equal(Te, "levels_up", h[0].Label())
	assert.Equal(Te, []float64{1, 1, 1, 0}, h[0].View())
	assert.Equal(Te, 4, h[0].Total())
	assert.Equal(Te, []float64{0, 2, 2, 0}, h[1].View())

	h = EnergyHistogram(SingleSpin{E: E.Up}, []float64{-2, 0, 2})
	require.Len(Te, h, 1)
	assert.Equal(Te, "levels", h[0].Label())
	assert.Equal(Te, []float64{2, 1}, h[0].View())
}
