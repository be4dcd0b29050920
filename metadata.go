/*
 * metadata.go, part of govasp.
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
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// RunMetadata contains the parameters of a band-structure run that
// determine the shape of the data.
type RunMetadata struct {
	Spins             int //ISPIN, 1 or 2
	Bands             int //NBANDS
	KPoints           int //total number of k-points
	KPointsPerSegment int
	Segments          int
	Fermi             float64  //eV
	Labels            []string //may be empty
}

// Validate checks that the metadata is internally consistent.
func (M RunMetadata) Validate() error {
	if M.Spins != 1 && M.Spins != 2 {
		return newError(ErrInvalidParameter, "", fmt.Sprintf("ISPIN must be 1 or 2, not %d", M.Spins), "RunMetadata.Validate")
	}
	if M.Bands <= 0 {
		return newError(ErrInvalidParameter, "", fmt.Sprintf("number of bands must be positive, not %d", M.Bands), "RunMetadata.Validate")
	}
	return checkKPointCount(M.KPointsPerSegment, M.Segments, M.KPoints, "RunMetadata.Validate")
}

func checkKPointCount(perSegment, segments, total int, caller string) error {
	if perSegment <= 0 || segments < 0 || perSegment*segments != total {
		return newError(ErrInconsistentKPointCount, "",
			fmt.Sprintf("%d k-points per segment times %d segments is not %d k-points", perSegment, segments, total), caller)
	}
	return nil
}

// Spin holds one table per spin channel. It is either a SingleSpin or a
// DualSpin.
type Spin interface {
	// Spins returns the number of channels, 1 or 2.
	Spins() int
	// Table returns the table for the channel i (0 or 1).
	// It panics if i is out of range.
	Table(i int) *mat.Dense
	isSpin()
}

// SingleSpin holds the table of a non spin-polarized calculation.
type SingleSpin struct {
	E *mat.Dense
}

func (S SingleSpin) Spins() int { return 1 }

func (S SingleSpin) Table(i int) *mat.Dense {
	if i != 0 {
		panic(fmt.Sprintf("govasp: spin channel %d requested from a single-spin table", i))
	}
	return S.E
}

func (SingleSpin) isSpin() {}

// DualSpin holds the spin-up and spin-down tables of a spin-polarized
// calculation. Both have the same shape.
type DualSpin struct {
	Up   *mat.Dense
	Down *mat.Dense
}

func (D DualSpin) Spins() int { return 2 }

func (D DualSpin) Table(i int) *mat.Dense {
	switch i {
	case 0:
		return D.Up
	case 1:
		return D.Down
	}
	panic(fmt.Sprintf("govasp: spin channel %d requested from a dual-spin table", i))
}

func (DualSpin) isSpin() {}

// spinSuffix returns the suffix used in column names for channel i out of n.
func spinSuffix(i, n int) string {
	if n == 1 {
		return ""
	}
	if i == 0 {
		return "_up"
	}
	return "_down"
}
