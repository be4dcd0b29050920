/*
 * bandplot.go, part of govasp.
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

//Package bandplot draws band structures and densities of states read by
//govasp, using gonum/plot. All the functions return the plots, which
//the caller can modify further, and save with Save.
package bandplot

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	vasp "github.com/rmera/govasp"
)

// Options control the appearance of the plots.
type Options struct {
	Title string
	// Energy range, [min, max]: the y axis of band structures and the
	// x axis of densities of states. Nil means automatic.
	Range []float64
	// Upper limit of the DOS axis. Two-channel separated plots go from
	// -DOSMax/2 to DOSMax/2. Zero means automatic.
	DOSMax float64
	// Bands to draw, 0-based. Nil means all.
	Bands []int
	// Fits are drawn over the bands, on their k-point ranges.
	Fits []vasp.FitResult
}

var (
	spinUpColor   = color.Black
	spinDownColor = color.RGBA{B: 255, A: 255}
	guideColor    = color.Gray{Y: 128}
)

func guideStyle(l *plotter.Line) {
	l.LineStyle.Color = guideColor
	l.LineStyle.Width = vg.Points(0.5)
	l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
}

func xyLine(x, y []float64) (*plotter.Line, error) {
	pts := make(plotter.XYs, len(x))
	for i := range pts {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return plotter.NewLine(pts)
}

// Bands plots the band structure B: one line per band, spin up in black
// and spin down in blue, a dashed line at the Fermi energy (0) and one at
// each segment boundary, labeled with the path labels if known.
func Bands(B *vasp.BandStructure, o Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = o.Title
	p.Y.Label.Text = "Energy (eV)"
	ax := B.Axis
	ticks := make([]plot.Tick, len(ax.Boundaries))
	for i, b := range ax.Boundaries {
		ticks[i].Value = b
		if i < len(B.Meta.Labels) {
			ticks[i].Label = B.Meta.Labels[i]
		}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	spins := B.Energies.Spins()
	for s := 0; s < spins; s++ {
		E := B.Energies.Table(s)
		_, nb := E.Dims()
		col := make([]float64, len(ax.K))
		var first *plotter.Line
		for b := 0; b < nb; b++ {
			if o.Bands != nil && !isInInt(o.Bands, b) {
				continue
			}
			l, err := xyLine(ax.K, Col(E, b, col))
			if err != nil {
				return nil, fmt.Errorf("govasp/bandplot: band %d: %w", b+1, err)
			}
			l.LineStyle.Color = spinUpColor
			if s == 1 {
				l.LineStyle.Color = spinDownColor
			}
			p.Add(l)
			if first == nil {
				first = l
			}
		}
		if spins == 2 && first != nil {
			p.Legend.Add([]string{"spin up", "spin down"}[s], first)
		}
	}
	ylo, yhi := p.Y.Min, p.Y.Max
	if len(o.Range) == 2 {
		ylo, yhi = o.Range[0], o.Range[1]
	}
	if err := addGuides(p, ax.Boundaries, ylo, yhi); err != nil {
		return nil, err
	}
	for i, f := range o.Fits {
		x, y := vasp.FitCurve(f, ax.K[f.KStart], ax.K[f.KEnd], 0)
		l, err := xyLine(x, y)
		if err != nil {
			return nil, err
		}
		l.LineStyle.Width = vg.Points(2)
		l.LineStyle.Color = hsvColor(i, len(o.Fits))
		p.Add(l)
		p.Legend.Add(fmt.Sprintf("fit band %d, m*=%.3f", f.Band+1, f.ReducedMass), l)
	}
	//Add widens the axes to fit the data, so the limits go last.
	p.X.Min = ax.Boundaries[0]
	p.X.Max = ax.Boundaries[len(ax.Boundaries)-1]
	if len(o.Range) == 2 {
		p.Y.Min, p.Y.Max = o.Range[0], o.Range[1]
	}
	return p, nil
}

// addGuides adds the dashed zero line and vertical lines, from ylo to
// yhi, at x.
func addGuides(p *plot.Plot, x []float64, ylo, yhi float64) error {
	zero, err := xyLine([]float64{x[0], x[len(x)-1]}, []float64{0, 0})
	if err != nil {
		return err
	}
	guideStyle(zero)
	p.Add(zero)
	for _, v := range x {
		l, err := xyLine([]float64{v, v}, []float64{ylo, yhi})
		if err != nil {
			return err
		}
		guideStyle(l)
		p.Add(l)
	}
	return nil
}

// DOS plots a total or local density of states. For a single spin
// channel there is one plot. For two, the first plot has the sum of
// both channels and the second the channels separately, spin down
// mirrored below zero.
func DOS(D *vasp.DOS, o Options) ([]*plot.Plot, error) {
	cols := []int{1}
	if D.Atom != 0 {
		cols = make([]int, len(D.Columns))
		for i := range cols {
			cols[i] = i + 1
		}
	}
	if D.Data.Spins() == 1 {
		p, err := dosPlot(o, 0, D.Table(0), cols, 1)
		if err != nil {
			return nil, err
		}
		return []*plot.Plot{p}, nil
	}
	comb, err := dosPlot(o, 0, D.Combined(), cols, 1)
	if err != nil {
		return nil, err
	}
	comb.Title.Text = strings.TrimSpace(o.Title + " (spin up + down)")
	sep, err := dosPlot(o, 0, D.Table(0), cols, 1)
	if err != nil {
		return nil, err
	}
	if err := addDOSLines(sep, D.Table(1), cols, -1, len(cols)); err != nil {
		return nil, err
	}
	sep.Title.Text = strings.TrimSpace(o.Title + " (spin up, spin down)")
	//the spin-down lines widened the axes again
	if len(o.Range) == 2 {
		sep.X.Min, sep.X.Max = o.Range[0], o.Range[1]
	}
	if o.DOSMax > 0 {
		sep.Y.Min, sep.Y.Max = -o.DOSMax/2, o.DOSMax/2
	}
	return []*plot.Plot{comb, sep}, nil
}

func dosPlot(o Options, first int, t vasp.Table, cols []int, sign float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = "Energy (eV)"
	p.Y.Label.Text = "DOS"
	p.Add(plotter.NewGrid())
	if err := addDOSLines(p, t, cols, sign, first); err != nil {
		return nil, err
	}
	if len(o.Range) == 2 {
		p.X.Min, p.X.Max = o.Range[0], o.Range[1]
	}
	if o.DOSMax > 0 {
		p.Y.Min, p.Y.Max = 0, o.DOSMax
	}
	return p, nil
}

// addDOSLines plots the columns cols of t against its energy column,
// multiplied by sign. Colors are taken starting from the offset-th.
func addDOSLines(p *plot.Plot, t vasp.Table, cols []int, sign float64, offset int) error {
	r, _ := t.Data.Dims()
	e := Col(t.Data, 0, make([]float64, r))
	for i, c := range cols {
		y := Col(t.Data, c, make([]float64, r))
		for j := range y {
			y[j] *= sign
		}
		l, err := xyLine(e, y)
		if err != nil {
			return fmt.Errorf("govasp/bandplot: column %s: %w", t.Columns[c], err)
		}
		l.LineStyle.Color = hsvColor(offset+i, 2*len(cols))
		p.Add(l)
		p.Legend.Add(t.Columns[c], l)
	}
	return nil
}

// Save writes p to name, in the format given by its extension (png if
// there is none). Sizes are in centimeters.
func Save(p *plot.Plot, name string, width, height float64) error {
	if filepath.Ext(name) == "" {
		name += ".png"
	}
	return p.Save(vg.Length(width)*vg.Centimeter, vg.Length(height)*vg.Centimeter, name)
}
