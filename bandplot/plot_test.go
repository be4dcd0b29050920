/*
 * plot_test.go, part of govasp.
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

package bandplot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	vasp "github.com/rmera/govasp"
)

func testBands() *vasp.BandStructure {
	k := []float64{0, 0.25, 0.5, 0.5, 0.75, 1}
	up := mat.NewDense(6, 2, nil)
	down := mat.NewDense(6, 2, nil)
	for i, x := range k {
		up.Set(i, 0, -1-x*x)
		up.Set(i, 1, 1+3*(x-0.5)*(x-0.5))
		down.Set(i, 0, -1.2-x*x)
		down.Set(i, 1, 0.8+3*(x-0.5)*(x-0.5))
	}
	return &vasp.BandStructure{
		Meta:     vasp.RunMetadata{Spins: 2, Bands: 2, KPoints: 6, KPointsPerSegment: 3, Segments: 2, Labels: []string{"G", "X", "M"}},
		Axis:     vasp.Axis{K: k, Boundaries: []float64{0, 0.5, 1}},
		Energies: vasp.DualSpin{Up: up, Down: down},
	}
}

func TestBandsPlot(Te *testing.T) {
	B := testBands()
	fit, err := vasp.FitEffectiveMass(B.Axis.K, B.Energies.Table(0), 1, 1, 4)
	require.NoError(Te, err)
	p, err := Bands(B, Options{Title: "G-X-M", Range: []float64{-3, 3}, Fits: []vasp.FitResult{fit}})
	require.NoError(Te, err)
	assert.Equal(Te, 0.0, p.X.Min)
	assert.Equal(Te, 1.0, p.X.Max)
	assert.Equal(Te, -3.0, p.Y.Min)
	assert.Equal(Te, 3.0, p.Y.Max)
	ticks := p.X.Tick.Marker.Ticks(p.X.Min, p.X.Max)
	require.Len(Te, ticks, 3)
	assert.Equal(Te, "X", ticks[1].Label)
	assert.Equal(Te, 0.5, ticks[1].Value)

	name := filepath.Join(Te.TempDir(), "bands")
	require.NoError(Te, Save(p, name, 10, 8))
	st, err := os.Stat(name + ".png")
	require.NoError(Te, err)
	assert.Greater(Te, st.Size(), int64(0))

	p, err = Bands(B, Options{Bands: []int{1}})
	require.NoError(Te, err)
	require.NoError(Te, Save(p, filepath.Join(Te.TempDir(), "band2.svg"), 10, 8))
}

func testDOS(spins, atom int) *vasp.DOS {
	cols := []string{"tot", "tot_integrated"}
	if atom != 0 {
		cols = []string{"s", "p", "d"}
	}
	tables := make([]*mat.Dense, spins)
	for s := range tables {
		t := mat.NewDense(5, len(cols)+1, nil)
		for i := 0; i < 5; i++ {
			t.Set(i, 0, float64(i)-2)
			for j := range cols {
				t.Set(i, j+1, float64(i*(j+1)+s))
			}
		}
		tables[s] = t
	}
	D := &vasp.DOS{Atom: atom, Spins: spins, NEDOS: 5, Columns: cols, Data: vasp.SingleSpin{E: tables[0]}}
	if spins == 2 {
		D.Data = vasp.DualSpin{Up: tables[0], Down: tables[1]}
	}
	return D
}

func TestDOSPlot(Te *testing.T) {
	plots, err := DOS(testDOS(1, 0), Options{Title: "Total DOS"})
	require.NoError(Te, err)
	require.Len(Te, plots, 1)

	assert.Equal(Te, -2.0, plots[0].X.Min, "without a range the energy axis spans the data")
	assert.Equal(Te, 2.0, plots[0].X.Max)

	plots, err = DOS(testDOS(1, 0), Options{Range: []float64{-1, 1.5}})
	require.NoError(Te, err)
	assert.Equal(Te, -1.0, plots[0].X.Min, "the energy range limits the x axis")
	assert.Equal(Te, 1.5, plots[0].X.Max)
	assert.Equal(Te, 0.0, plots[0].Y.Min)
	assert.Equal(Te, 4.0, plots[0].Y.Max, "the DOS axis stays automatic")

	plots, err = DOS(testDOS(2, 1), Options{Title: "DOS of atom 1", Range: []float64{-1, 1}, DOSMax: 10})
	require.NoError(Te, err)
	require.Len(Te, plots, 2)
	assert.Equal(Te, "DOS of atom 1 (spin up + down)", plots[0].Title.Text)
	for _, p := range plots {
		assert.Equal(Te, -1.0, p.X.Min)
		assert.Equal(Te, 1.0, p.X.Max)
	}
	assert.Equal(Te, 0.0, plots[0].Y.Min)
	assert.Equal(Te, 10.0, plots[0].Y.Max)
	assert.Equal(Te, -5.0, plots[1].Y.Min, "spin down is drawn below zero")
	assert.Equal(Te, 5.0, plots[1].Y.Max)
	for i, p := range plots {
		require.NoError(Te, Save(p, filepath.Join(Te.TempDir(), "dos.png"), 10, 8), "plot %d", i)
	}
}

func TestColors(Te *testing.T) {
	r, g, b := iHVS2RGB(0, 1, 1)
	assert.Equal(Te, [3]uint8{255, 0, 0}, [3]uint8{r, g, b})
	r, g, b = iHVS2RGB(240, 1, 1)
	assert.Equal(Te, [3]uint8{0, 0, 255}, [3]uint8{r, g, b})
	r, g, b = iHVS2RGB(100, 0.5, 0)
	assert.Equal(Te, [3]uint8{127, 127, 127}, [3]uint8{r, g, b})
	seen := map[[3]uint8]bool{}
	for i := 0; i < 6; i++ {
		r, g, b, _ := hsvColor(i, 6).RGBA()
		seen[[3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}] = true
	}
	assert.Len(Te, seen, 6, "colors must be distinct")
	assert.True(Te, isInInt([]int{1, 4}, 4))
	assert.False(Te, isInInt(nil, 4))
}
