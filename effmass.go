/*
 * effmass.go, part of govasp.
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
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// FitResult is a quadratic E(k) = A*k^2 + B*k + C fitted to a band
// around an extremum.
type FitResult struct {
	A, B, C float64
	// Position of the extremum of the parabola, on the k axis.
	FittedExtremumK float64
	// Position of the lowest (A>0) or highest (A<0) sampled energy.
	ActualExtremumK float64
	// Effective mass in units of the electron mass. Negative for hole-like
	// bands.
	ReducedMass float64
	RSquared    float64
	Band        int
	KStart      int
	KEnd        int
}

// curvatureTolerance is the smallest relative contribution of the
// quadratic term, over the fitted range, for the fit to count as a parabola.
const curvatureTolerance = 1e-12

// FitEffectiveMass fits a parabola to band (0-based column of E) between
// the k-points kStart and kEnd, both included, and derives the effective
// mass from its curvature. k is the linearized axis, E a (k-points x bands)
// energy table in eV.
func FitEffectiveMass(k []float64, E mat.Matrix, band, kStart, kEnd int) (FitResult, error) {
	r, c := E.Dims()
	if len(k) != r {
		return FitResult{}, newError(ErrInconsistentKPointCount, "",
			fmt.Sprintf("axis has %d points, energy table has %d rows", len(k), r), "FitEffectiveMass")
	}
	if band < 0 || band >= c || kStart < 0 || kEnd >= r || kStart >= kEnd {
		return FitResult{}, newError(ErrUnderdeterminedFit, "",
			fmt.Sprintf("band %d, k-points %d to %d out of range for a %dx%d table", band, kStart, kEnd, r, c), "FitEffectiveMass")
	}
	ks := k[kStart : kEnd+1]
	es := make([]float64, len(ks))
	for i := range es {
		es[i] = E.At(kStart+i, band)
	}
	if d := distinct(ks); d < 3 {
		return FitResult{}, newError(ErrUnderdeterminedFit, "",
			fmt.Sprintf("%d distinct k values, at least 3 are needed", d), "FitEffectiveMass")
	}
	design := mat.NewDense(len(ks), 3, nil)
	for i, x := range ks {
		design.Set(i, 0, x*x)
		design.Set(i, 1, x)
		design.Set(i, 2, 1)
	}
	var coef mat.VecDense
	if err := coef.SolveVec(design, mat.NewVecDense(len(es), es)); err != nil {
		return FitResult{}, newError(ErrSingularFit, "", err.Error(), "FitEffectiveMass")
	}
	ret := FitResult{A: coef.AtVec(0), B: coef.AtVec(1), C: coef.AtVec(2), Band: band, KStart: kStart, KEnd: kEnd}
	span := ks[len(ks)-1] - ks[0]
	scale := math.Max(math.Abs(floats.Max(es)), math.Abs(floats.Min(es))) + 1
	if math.IsNaN(ret.A) || math.Abs(ret.A)*span*span <= curvatureTolerance*scale {
		return FitResult{}, newError(ErrSingularFit, "", "the data has no curvature", "FitEffectiveMass")
	}
	ret.FittedExtremumK = -ret.B / (2 * ret.A)
	if ret.A > 0 {
		ret.ActualExtremumK = ks[floats.MinIdx(es)]
	} else {
		ret.ActualExtremumK = ks[floats.MaxIdx(es)]
	}
	ret.ReducedMass = ReducedMass(ret.A)
	est := make([]float64, len(ks))
	for i, x := range ks {
		est[i] = ret.Eval(x)
	}
	ret.RSquared = stat.RSquaredFrom(est, es, nil)
	return ret, nil
}

// ReducedMass returns the effective mass, in electron masses, of a band
// with curvature a (eV per squared k-axis unit), from E = hbar^2 k^2 / 2m*.
func ReducedMass(a float64) float64 {
	perUnit := 2 * math.Pi / KAxisScale //1/m per k-axis unit
	return HBar * HBar / (2 * a * ElementaryCharge / (perUnit * perUnit)) / ElectronMass
}

// Eval returns the fitted energy at x.
func (F FitResult) Eval(x float64) float64 {
	return F.A*x*x + F.B*x + F.C
}

// FitCurve samples the parabola of fit at n evenly spaced points between
// from and to, for plotting. If n < 2, 200 points are used.
func FitCurve(fit FitResult, from, to float64, n int) (x, y []float64) {
	if n < 2 {
		n = 200
	}
	x = make([]float64, n)
	y = make([]float64, n)
	floats.Span(x, from, to)
	for i, v := range x {
		y[i] = fit.Eval(v)
	}
	return x, y
}

func distinct(x []float64) int {
	s := append([]float64(nil), x...)
	sort.Float64s(s)
	n := 0
	for i, v := range s {
		if i == 0 || v != s[i-1] {
			n++
		}
	}
	return n
}

// BandsInWindow returns, in increasing order, the bands whose energy at
// k-point kp is strictly between lo and hi. It returns an empty slice if
// lo >= hi.
func BandsInWindow(E mat.Matrix, kp int, lo, hi float64) []int {
	ret := []int{}
	if lo >= hi {
		return ret
	}
	_, c := E.Dims()
	for b := 0; b < c; b++ {
		if v := E.At(kp, b); v > lo && v < hi {
			ret = append(ret, b)
		}
	}
	return ret
}

// FindBandEdges returns the bands within width below (valence) and above
// (conduction) the Fermi energy, at k-point kp. E must be relative to
// the Fermi energy.
func FindBandEdges(E mat.Matrix, kp int, width float64) (valence, conduction []int) {
	return BandsInWindow(E, kp, -width, 0), BandsInWindow(E, kp, 0, width)
}
