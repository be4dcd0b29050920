/*
 * kaxis.go, part of govasp.
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
	"gonum.org/v1/gonum/floats"

	v3 "github.com/rmera/govasp/v3"
)

// Axis is the linearized k-point axis of a band structure.
type Axis struct {
	K          []float64 //one value per k-point, non-decreasing, K[0]==0
	Boundaries []float64 //segment limits, len == segments+1
}

// Linearize turns the k-points in kpts, grouped in segments of perSegment
// consecutive points, into a 1D axis. Each segment is as long as the
// straight line between its first and last points, and its k-points are
// evenly spaced along it, regardless of where the intermediate points
// actually are.
func Linearize(kpts *v3.Matrix, perSegment, segments int) (Axis, error) {
	n := kpts.NVecs()
	if err := checkKPointCount(perSegment, segments, n, "Linearize"); err != nil {
		return Axis{}, err
	}
	ax := Axis{
		K:          make([]float64, n),
		Boundaries: make([]float64, segments+1),
	}
	for s := 0; s < segments; s++ {
		first := s * perSegment
		last := first + perSegment - 1
		ax.Boundaries[s+1] = ax.Boundaries[s] + kpts.Dist(first, last)
		seg := ax.K[first : last+1]
		if perSegment == 1 {
			seg[0] = ax.Boundaries[s]
			continue
		}
		floats.Span(seg, ax.Boundaries[s], ax.Boundaries[s+1])
	}
	return ax, nil
}

// SegmentLengths returns the length of each segment of the axis.
func (A Axis) SegmentLengths() []float64 {
	if len(A.Boundaries) < 2 {
		return nil
	}
	l := make([]float64, len(A.Boundaries)-1)
	for i := range l {
		l[i] = A.Boundaries[i+1] - A.Boundaries[i]
	}
	return l
}
