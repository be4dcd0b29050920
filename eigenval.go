/*
 * eigenval.go, part of govasp.
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
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	v3 "github.com/rmera/govasp/v3"
)

//EIGENVAL layout: 7 header rows (the 6th one holds "NELECT NKPTS NBANDS"),
//then, per k-point, a blank row, a row with the k-point coordinates and
//weight, and one row per band: "index E_up [E_down] [occupations]".

const (
	eigenvalHeaderRows = 7
	eigenvalShapeRow   = 5
)

// eigenvalFile is an EIGENVAL file, kept in memory as lines.
type eigenvalFile struct {
	name  string
	lines []string
}

func readEigenval(name string) (*eigenvalFile, error) {
	lines, err := readLines(name)
	if err != nil {
		return nil, err
	}
	if len(lines) < eigenvalHeaderRows {
		return nil, malformed(name, "header", fmt.Sprintf("only %d lines in file", len(lines)), "readEigenval")
	}
	return &eigenvalFile{name: name, lines: lines}, nil
}

func (E *eigenvalFile) row(i int) ([]string, error) {
	if i >= len(E.lines) {
		return nil, malformed(E.name, fmt.Sprintf("line %d", i+1), "file is truncated", "eigenvalFile.row")
	}
	return strings.Fields(E.lines[i]), nil
}

func (E *eigenvalFile) primarySpins() []Source[int] {
	return []Source[int]{{Name: "EIGENVAL header", Lookup: func() (int, bool, error) {
		f, _ := E.row(0)
		if len(f) < 4 {
			return 0, false, nil
		}
		s, err := strconv.Atoi(f[3])
		if err != nil || (s != 1 && s != 2) {
			return 0, false, nil
		}
		return s, true, nil
	}}}
}

func (E *eigenvalFile) primaryFermi() []Source[float64] { return nil }

func (E *eigenvalFile) primaryPerSegment() []Source[int] { return nil }

func (E *eigenvalFile) shape() (kpoints, bands int, err error) {
	f, _ := E.row(eigenvalShapeRow)
	if len(f) < 3 {
		return 0, 0, malformed(E.name, "line 6", "expected NELECT NKPTS NBANDS", "eigenvalFile.shape")
	}
	kpoints, err = strconv.Atoi(f[1])
	if err != nil {
		return 0, 0, malformed(E.name, "line 6", err.Error(), "eigenvalFile.shape")
	}
	bands, err = strconv.Atoi(f[2])
	if err != nil {
		return 0, 0, malformed(E.name, "line 6", err.Error(), "eigenvalFile.shape")
	}
	if kpoints <= 0 || bands <= 0 {
		return 0, 0, malformed(E.name, "line 6", "non-positive number of k-points or bands", "eigenvalFile.shape")
	}
	return kpoints, bands, nil
}

func (E *eigenvalFile) segments(perSegment, kpoints int) (int, error) {
	if perSegment <= 0 || kpoints%perSegment != 0 {
		return 0, newError(ErrInconsistentKPointCount, E.name,
			fmt.Sprintf("%d k-points can't be split in segments of %d", kpoints, perSegment), "eigenvalFile.segments")
	}
	return kpoints / perSegment, nil
}

func (E *eigenvalFile) stride(bands int) int { return bands + 2 }

// kpoints takes the coordinates from OUTCAR, when present, and from the
// EIGENVAL block headers otherwise.
func (E *eigenvalFile) kpoints(M RunMetadata, dir string, log *zap.Logger) (*v3.Matrix, error) {
	kpts, found, err := OutcarKPoints(dir, M.KPoints).Lookup()
	if err != nil {
		return nil, err
	}
	if found {
		log.Debug("k-point coordinates from OUTCAR")
		return kpts, nil
	}
	log.Info("no OUTCAR k-point list, using the EIGENVAL k-point coordinates", zap.String("file", E.name))
	kpts = v3.Zeros(M.KPoints)
	for k := 0; k < M.KPoints; k++ {
		i := eigenvalHeaderRows + E.stride(M.Bands)*k
		f, err := E.row(i)
		if err != nil {
			return nil, err
		}
		if len(f) < 3 {
			return nil, malformed(E.name, fmt.Sprintf("line %d", i+1), "expected k-point coordinates", "eigenvalFile.kpoints")
		}
		for j := 0; j < 3; j++ {
			c, err := strconv.ParseFloat(f[j], 64)
			if err != nil {
				return nil, malformed(E.name, fmt.Sprintf("line %d", i+1), err.Error(), "eigenvalFile.kpoints")
			}
			kpts.Set(k, j, c)
		}
	}
	return kpts, nil
}

func (E *eigenvalFile) energies(M RunMetadata) (Spin, error) {
	tables := make([]*mat.Dense, M.Spins)
	for s := range tables {
		tables[s] = mat.NewDense(M.KPoints, M.Bands, nil)
	}
	for k := 0; k < M.KPoints; k++ {
		for b := 0; b < M.Bands; b++ {
			i := eigenvalHeaderRows + 1 + b + E.stride(M.Bands)*k
			f, err := E.row(i)
			if err != nil {
				return nil, err
			}
			if len(f) < 1+M.Spins {
				return nil, malformed(E.name, fmt.Sprintf("line %d", i+1),
					fmt.Sprintf("expected at least %d fields, found %d", 1+M.Spins, len(f)), "eigenvalFile.energies")
			}
			for s, t := range tables {
				v, err := strconv.ParseFloat(f[1+s], 64)
				if err != nil {
					return nil, malformed(E.name, fmt.Sprintf("line %d", i+1), err.Error(), "eigenvalFile.energies")
				}
				t.Set(k, b, v)
			}
		}
	}
	return shiftedSpin(tables, M.Fermi), nil
}

// shiftedSpin subtracts fermi from every entry of the tables and
// wraps them in the Spin variant that corresponds to their number.
func shiftedSpin(tables []*mat.Dense, fermi float64) Spin {
	for _, t := range tables {
		shift(t, fermi)
	}
	if len(tables) == 2 {
		return DualSpin{Up: tables[0], Down: tables[1]}
	}
	return SingleSpin{E: tables[0]}
}

// shift subtracts fermi from all the elements of t, in place.
func shift(t *mat.Dense, fermi float64) {
	raw := t.RawMatrix()
	for i := 0; i < raw.Rows; i++ {
		floats.AddConst(-fermi, raw.Data[i*raw.Stride:i*raw.Stride+raw.Cols])
	}
}
