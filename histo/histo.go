/*
 * histo.go, part of govasp.
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

//Package histo implements simple histograms, used to look at how
//energy levels or densities are distributed.
package histo

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Data is a histogram with fixed bin dividers. A histogram with n+1
// dividers has n bins, bin i covering [dividers[i], dividers[i+1]).
type Data struct {
	label      string
	normalized bool
	total      int
	dividers   []float64
	histo      []float64
}

// NewData returns a new histogram with the given dividers, filled with
// rawdata, which can be nil. rawdata is not modified. It panics if
// there are fewer than 2 dividers or they are not sorted.
func NewData(label string, dividers []float64, rawdata []float64) *Data {
	if len(dividers) < 2 || !sort.Float64sAreSorted(dividers) {
		panic("govasp/histo.NewData: at least 2 sorted dividers are needed")
	}
	d := &Data{label: label, dividers: append([]float64(nil), dividers...)}
	d.histo = make([]float64, len(dividers)-1)
	if rawdata != nil {
		d.ReHisto(rawdata)
	}
	return d
}

// Dividers returns n+1 evenly spaced dividers from lo to hi, that is, n bins.
func Dividers(lo, hi float64, n int) []float64 {
	if n < 1 {
		n = 1
	}
	d := make([]float64, n+1)
	return floats.Span(d, lo, hi)
}

func (D *Data) Label() string { return D.label }

// Total returns the number of data points in the histogram.
func (D *Data) Total() int { return D.total }

func (D *Data) Normalized() bool { return D.normalized }

// AddData adds the given data point(s). Points outside the dividers are
// counted in the total, but in no bin.
func (D *Data) AddData(point ...float64) {
	norma := D.normalized
	if norma {
		D.UnNormalize()
	}
	for _, v := range point {
		//first divider larger than v
		i := sort.Search(len(D.dividers), func(j int) bool { return D.dividers[j] > v })
		if i > 0 && i < len(D.dividers) {
			D.histo[i-1]++
		}
	}
	D.total += len(point)
	if norma {
		D.Normalize()
	}
}

// Normalize divides each bin by the total number of points.
func (D *Data) Normalize() { D.scale(true) }

// UnNormalize reverts Normalize.
func (D *Data) UnNormalize() { D.scale(false) }

func (D *Data) scale(normalize bool) {
	if D.total <= 0 || D.normalized == normalize {
		return
	}
	n := float64(D.total)
	if normalize {
		n = 1 / n
	}
	D.normalized = normalize
	floats.Scale(n, D.histo)
}

// CopyDividers copies the dividers into dest, if given and large enough,
// or into a new slice.
func (D *Data) CopyDividers(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.dividers), dest...)
	copy(d, D.dividers)
	return d
}

// Copy copies the bins into dest, if given and large enough, or into a
// new slice.
func (D *Data) Copy(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.histo), dest...)
	copy(d, D.histo)
	return d
}

// View returns the bins of the histogram, not a copy.
func (D *Data) View() []float64 { return D.histo }

// Centers returns the middle point of each bin.
func (D *Data) Centers() []float64 {
	c := make([]float64, len(D.histo))
	for i := range c {
		c[i] = (D.dividers[i] + D.dividers[i+1]) / 2
	}
	return c
}

// Sum returns the sum of all the bins.
func (D *Data) Sum() float64 { return floats.Sum(D.histo) }

// ReHisto replaces the contents of the histogram with rawdata.
func (D *Data) ReHisto(rawdata []float64) {
	data := append([]float64(nil), rawdata...)
	sort.Float64s(data)
	//stat.Histogram panics on values out of the dividers' range, so they
	//are taken out first.
	maxi := sort.SearchFloat64s(data, D.dividers[len(D.dividers)-1])
	mini := sort.SearchFloat64s(data, D.dividers[0])
	D.total = len(data)
	D.normalized = false
	D.histo = stat.Histogram(nil, D.dividers, data[mini:maxi], nil)
}

func (D *Data) String() string {
	ret := fmt.Sprintf("%s, Normalized: %v, TotalData: %d\n", D.label, D.normalized, D.total)
	d := make([]string, 0, len(D.histo))
	h := make([]string, 0, len(D.histo))
	for i, v := range D.histo {
		d = append(d, fmt.Sprintf("%4.2f:%4.2f", D.dividers[i], D.dividers[i+1]))
		h = append(h, fmt.Sprintf("%9.3f", v))
	}
	return ret + strings.Join(d, " ") + "\n" + strings.Join(h, " ")
}

type jsonData struct {
	Label      string    `json:"label"`
	Normalized bool      `json:"normalized"`
	Total      int       `json:"total"`
	Dividers   []float64 `json:"dividers"`
	Histo      []float64 `json:"histo"`
}

func (D *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonData{
		Label:      D.label,
		Normalized: D.normalized,
		Total:      D.total,
		Dividers:   D.dividers,
		Histo:      D.histo,
	})
}

func (D *Data) UnmarshalJSON(b []byte) error {
	var a jsonData
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if len(a.Histo) != len(a.Dividers)-1 {
		return fmt.Errorf("govasp/histo: %d bins but %d dividers", len(a.Histo), len(a.Dividers))
	}
	D.label = a.Label
	D.normalized = a.Normalized
	D.total = a.Total
	D.dividers = a.Dividers
	D.histo = a.Histo
	return nil
}

func getCopySlice(N int, dest ...[]float64) []float64 {
	if len(dest) > 0 && len(dest[0]) >= N {
		return dest[0][:N]
	}
	return make([]float64, N)
}
