/*
 * v3_test.go, part of govasp.
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

package v3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrix(t *testing.T) {
	A, err := NewMatrix([]float64{0, 0, 0, 0.5, 0, 0, 0.5, 0.5, 0})
	require.NoError(t, err)
	assert.Equal(t, 3, A.NVecs())

	_, err = NewMatrix([]float64{1, 2, 3, 4})
	var e Error
	require.ErrorAs(t, err, &e)
	assert.Contains(t, e.Error(), "not divisible by 3")
	assert.Equal(t, []string{"NewMatrix", "caller"}, e.Decorate("caller"))
	_, err = NewMatrix(nil)
	assert.Error(t, err)
}

func TestViews(t *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})
	require.NoError(t, err)
	v := A.VecView(1)
	v.Set(0, 0, 100)
	assert.Equal(t, 100.0, A.At(1, 0), "a view must share storage with its matrix")

	seg := A.View(2, 4)
	assert.Equal(t, 2, seg.NVecs())
	assert.Equal(t, 7.0, seg.At(0, 0))
	assert.Panics(t, func() { A.View(3, 2) })
	assert.Panics(t, func() { A.VecView(4) })
}

func TestDist(t *testing.T) {
	A := Zeros(2)
	A.SetVec(1, []float64{3, 4, 0})
	assert.InDelta(t, 5.0, A.Dist(0, 1), 1e-12)
	assert.InDelta(t, 5.0, A.Dist(1, 0), 1e-12)
	assert.Panics(t, func() { A.SetVec(0, []float64{1, 2}) })
}

func TestString(t *testing.T) {
	A := Zeros(1)
	A.SetVec(0, []float64{0.5, 0.25, 0})
	assert.Contains(t, A.String(), "0.50000")
}
