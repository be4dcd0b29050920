/*
 * dos.go, part of govasp.
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
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

//DOSCAR layout: 5 header rows, then a row "Emax Emin NEDOS Ef weight",
//NEDOS rows of total DOS and, for each atom, a copy of that row followed
//by NEDOS rows of projected DOS.

const doscarInfoRow = 5

const (
	energyColumn  = "E"
	totalDOSAtom  = 0
	noLORBIT      = -1
	lorbitTagName = "LORBIT"
)

var (
	totalColumns = []string{"tot", "tot_integrated"}
	shellColumns = []string{"s", "p", "d"}
	orbitColumns = []string{"s", "p_y", "p_z", "p_x", "d_xy", "d_yz", "d_z2", "d_xz", "d_x2y2"}
)

// DOSOptions are the explicit values for the metadata of a DOS run.
// Zero values (nil for the pointers) mean "find it out".
type DOSOptions struct {
	Spins  int
	LORBIT *int
	Fermi  *float64
	// Directory with OUTCAR and INCAR. Defaults to the directory of the
	// input file.
	Dir string
	Log *zap.Logger
}

// DOS is a total (Atom==0) or local density of states. Each table in
// Data has an energy column, relative to the Fermi energy, followed by
// the densities named in Columns.
type DOS struct {
	Atom    int
	Spins   int
	NEDOS   int
	LORBIT  int //-1 for the total DOS
	Fermi   float64
	Columns []string //without the energy column or spin suffixes
	Data    Spin
}

// lorbitColumns returns the projections written for a given LORBIT.
func lorbitColumns(lorbit int) ([]string, error) {
	switch lorbit {
	case 0, 10:
		return shellColumns, nil
	case 1, 11:
		return orbitColumns, nil
	}
	return nil, fmt.Errorf("unsupported LORBIT %d", lorbit)
}

// dosColumns gives, for each spin channel, the indexes of the columns
// of a DOSCAR block with n density columns per channel, channels
// interleaved.
func dosColumns(n, spins int) [][]int {
	ret := make([][]int, spins)
	for s := range ret {
		ret[s] = append(ret[s], 0)
		for i := 0; i < n; i++ {
			ret[s] = append(ret[s], 1+i*spins+s)
		}
	}
	return ret
}

// ReadTDOS reads the total density of states from a DOSCAR or a
// vasprun.xml file.
func ReadTDOS(path string, o DOSOptions) (*DOS, error) {
	return readDOS(path, totalDOSAtom, o)
}

// ReadLDOS reads the density of states projected on atom (1-based) from
// a DOSCAR or a vasprun.xml file.
func ReadLDOS(path string, atom int, o DOSOptions) (*DOS, error) {
	if atom < 1 {
		return nil, newError(ErrInvalidParameter, path, fmt.Sprintf("atom numbers start at 1, got %d", atom), "ReadLDOS")
	}
	return readDOS(path, atom, o)
}

func readDOS(path string, atom int, o DOSOptions) (*DOS, error) {
	format, err := DetectFormat(path, DOSCAR)
	if err != nil {
		return nil, err
	}
	log := orNop(o.Log).With(zap.String("input", path), zap.Stringer("format", format))
	dir := o.Dir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	var src dosSource
	if format == Tree {
		src, err = readVasprun(path)
	} else {
		src, err = readDoscar(path)
	}
	if err != nil {
		return nil, errDecorate(err, "readDOS")
	}
	D := &DOS{Atom: atom, LORBIT: noLORBIT, Columns: totalColumns}
	spins := append([]Source[int]{Explicit(o.Spins, o.Spins != 0)}, src.primarySpins()...)
	spins = append(spins, OutcarTag(dir, "ISPIN"), IncarTag(dir, "ISPIN", 1, true))
	spins = append(spins, src.fallbackSpins()...)
	if D.Spins, err = Resolve(log, "ISPIN", spins...); err != nil {
		return nil, errDecorate(err, "readDOS")
	}
	if D.Spins != 1 && D.Spins != 2 {
		return nil, newError(ErrInvalidParameter, path, fmt.Sprintf("ISPIN must be 1 or 2, not %d", D.Spins), "readDOS")
	}
	fermi := append([]Source[float64]{Explicit(deref(o.Fermi), o.Fermi != nil)}, src.primaryFermi()...)
	fermi = append(fermi, OutcarFermi(dir))
	if D.Fermi, err = Resolve(log, "Fermi energy", fermi...); err != nil {
		return nil, errDecorate(err, "readDOS")
	}
	if D.NEDOS, err = src.nedos(); err != nil {
		return nil, errDecorate(err, "readDOS")
	}
	if atom != totalDOSAtom {
		//vasprun.xml doesn't always report the LORBIT that was actually
		//used, so it is never taken from there.
		explicit := 0
		if o.LORBIT != nil {
			explicit = *o.LORBIT
		}
		D.LORBIT, err = Resolve(log, lorbitTagName, Explicit(explicit, o.LORBIT != nil),
			OutcarTag(dir, lorbitTagName), IncarTag(dir, lorbitTagName, 0, false))
		if err != nil {
			return nil, errDecorate(err, "readDOS")
		}
		if D.Columns, err = lorbitColumns(D.LORBIT); err != nil {
			return nil, newError(ErrInvalidParameter, path, err.Error(), "readDOS")
		}
	}
	tables, err := src.dos(D)
	if err != nil {
		return nil, errDecorate(err, "readDOS")
	}
	for _, t := range tables {
		e := t.ColView(0).(*mat.VecDense)
		for i := 0; i < e.Len(); i++ {
			e.SetVec(i, e.AtVec(i)-D.Fermi)
		}
	}
	if len(tables) == 2 {
		D.Data = DualSpin{Up: tables[0], Down: tables[1]}
	} else {
		D.Data = SingleSpin{E: tables[0]}
	}
	log.Info("density of states read", zap.Int("atom", atom), zap.Int("spins", D.Spins), zap.Int("NEDOS", D.NEDOS))
	return D, nil
}

// ColumnNames returns the names of the columns of the table for channel spin.
func (D *DOS) ColumnNames(spin int) []string {
	suffix := spinSuffix(spin, D.Data.Spins())
	ret := []string{energyColumn}
	for _, c := range D.Columns {
		ret = append(ret, c+suffix)
	}
	return ret
}

// Table returns the named table for the channel spin.
func (D *DOS) Table(spin int) Table {
	return Table{Columns: D.ColumnNames(spin), Data: D.Data.Table(spin)}
}

// Combined returns a new table with the energy column and, for each
// density column, the sum over spin channels.
func (D *DOS) Combined() Table {
	ret := mat.DenseCopyOf(D.Data.Table(0))
	if D.Data.Spins() == 2 {
		r, c := ret.Dims()
		dens := ret.Slice(0, r, 1, c).(*mat.Dense)
		dens.Add(dens, D.Data.Table(1).Slice(0, r, 1, c))
	}
	names := append([]string{energyColumn}, D.Columns...)
	return Table{Columns: names, Data: ret}
}

// dosSource is implemented by the readers of each DOS format.
type dosSource interface {
	primarySpins() []Source[int]
	primaryFermi() []Source[float64]
	// sources to try after the auxiliary files
	fallbackSpins() []Source[int]
	nedos() (int, error)
	// dos returns one table per spin channel, energies not yet shifted.
	dos(D *DOS) ([]*mat.Dense, error)
}

type doscarFile struct {
	name  string
	lines []string
}

func readDoscar(name string) (*doscarFile, error) {
	lines, err := readLines(name)
	if err != nil {
		return nil, err
	}
	if len(lines) <= doscarInfoRow {
		return nil, malformed(name, "header", fmt.Sprintf("only %d lines in file", len(lines)), "readDoscar")
	}
	return &doscarFile{name: name, lines: lines}, nil
}

func (F *doscarFile) info() []string { return strings.Fields(F.lines[doscarInfoRow]) }

func (F *doscarFile) primarySpins() []Source[int] { return nil }

// fallbackSpins infers ISPIN from the width of the total DOS rows,
// which have 3 columns for one channel and 5 for two.
func (F *doscarFile) fallbackSpins() []Source[int] {
	return []Source[int]{{Name: "DOSCAR columns", Lookup: func() (int, bool, error) {
		if len(F.lines) <= doscarInfoRow+1 {
			return 0, false, nil
		}
		switch len(strings.Fields(F.lines[doscarInfoRow+1])) {
		case 3:
			return 1, true, nil
		case 5:
			return 2, true, nil
		}
		return 0, false, nil
	}}}
}

func (F *doscarFile) primaryFermi() []Source[float64] {
	return []Source[float64]{{Name: "DOSCAR header", Lookup: func() (float64, bool, error) {
		f := F.info()
		if len(f) < 4 {
			return 0, false, nil
		}
		v, err := strconv.ParseFloat(f[3], 64)
		if err != nil {
			return 0, false, malformed(F.name, "line 6", err.Error(), "doscarFile.primaryFermi")
		}
		return v, true, nil
	}}}
}

func (F *doscarFile) nedos() (int, error) {
	f := F.info()
	if len(f) < 3 {
		return 0, malformed(F.name, "line 6", "expected Emax Emin NEDOS", "doscarFile.nedos")
	}
	n, err := strconv.Atoi(f[2])
	if err != nil {
		return 0, malformed(F.name, "line 6", err.Error(), "doscarFile.nedos")
	}
	if n <= 0 {
		return 0, malformed(F.name, "line 6", "NEDOS must be positive", "doscarFile.nedos")
	}
	return n, nil
}

func (F *doscarFile) dos(D *DOS) ([]*mat.Dense, error) {
	start := doscarInfoRow + 1 + (D.NEDOS+1)*D.Atom
	if start+D.NEDOS > len(F.lines) {
		what := "total DOS"
		if D.Atom != totalDOSAtom {
			what = fmt.Sprintf("projected DOS for atom %d", D.Atom)
		}
		return nil, malformed(F.name, what, "file is truncated", "doscarFile.dos")
	}
	cols := dosColumns(len(D.Columns), D.Spins)
	width := 1 + len(D.Columns)*D.Spins
	tables := make([]*mat.Dense, D.Spins)
	for s := range tables {
		tables[s] = mat.NewDense(D.NEDOS, len(cols[s]), nil)
	}
	for i := 0; i < D.NEDOS; i++ {
		ln := start + i
		f := strings.Fields(F.lines[ln])
		if len(f) != width {
			return nil, malformed(F.name, fmt.Sprintf("line %d", ln+1),
				fmt.Sprintf("expected %d columns, found %d", width, len(f)), "doscarFile.dos")
		}
		for s, t := range tables {
			for j, c := range cols[s] {
				v, err := strconv.ParseFloat(f[c], 64)
				if err != nil {
					return nil, malformed(F.name, fmt.Sprintf("line %d", ln+1), err.Error(), "doscarFile.dos")
				}
				t.Set(i, j, v)
			}
		}
	}
	return tables, nil
}

func (V *vasprunFile) fallbackSpins() []Source[int] { return nil }

func (V *vasprunFile) nedos() (int, error) {
	n, ok, err := V.intSource(xpNEDOS).Lookup()
	if err != nil {
		return 0, err
	}
	if !ok {
		e := newError(ErrMissingMetadata, V.name, "", "vasprunFile.nedos")
		e.Field = "NEDOS"
		e.Tried = []string{"vasprun.xml"}
		return 0, e
	}
	return n, nil
}

func (V *vasprunFile) dos(D *DOS) ([]*mat.Dense, error) {
	tables := make([]*mat.Dense, D.Spins)
	width := 1 + len(D.Columns)
	for s := range tables {
		expr := fmt.Sprintf(xpTotalDOS, s+1)
		if D.Atom != totalDOSAtom {
			expr = fmt.Sprintf(xpPartialDOS, D.Atom, s+1)
		}
		rows, err := V.all(V.root, expr)
		if err != nil {
			return nil, err
		}
		if len(rows) != D.NEDOS {
			return nil, malformed(V.name, expr, fmt.Sprintf("%d rows, NEDOS is %d", len(rows), D.NEDOS), "vasprunFile.dos")
		}
		t := mat.NewDense(D.NEDOS, width, nil)
		for i, r := range rows {
			v, err := V.floatFields(r, -1, fmt.Sprintf("%s row %d", expr, i+1))
			if err != nil {
				return nil, err
			}
			if len(v) != width {
				return nil, malformed(V.name, fmt.Sprintf("%s row %d", expr, i+1),
					fmt.Sprintf("expected %d columns, found %d", width, len(v)), "vasprunFile.dos")
			}
			t.SetRow(i, v)
		}
		tables[s] = t
	}
	return tables, nil
}
