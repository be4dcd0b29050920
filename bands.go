/*
 * bands.go, part of govasp.
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
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	v3 "github.com/rmera/govasp/v3"
)

// Format is the layout of a VASP output file.
type Format int

const (
	// Tabular files are the plain-text EIGENVAL and DOSCAR.
	Tabular Format = iota
	// Tree is vasprun.xml.
	Tree
)

func (F Format) String() string {
	if F == Tree {
		return "vasprun.xml"
	}
	return "tabular"
}

// DetectFormat decides the format of the file at path from its name,
// ignoring any compression suffix. Names ending in ".xml" are Tree
// files, names containing tabularTag (such as "EIGENVAL") are Tabular.
func DetectFormat(path, tabularTag string) (Format, error) {
	base := filepath.Base(trimCompression(path))
	switch {
	case strings.HasSuffix(strings.ToLower(base), ".xml"):
		return Tree, nil
	case strings.Contains(base, tabularTag):
		return Tabular, nil
	}
	return 0, newError(ErrUnknownFormat, path, fmt.Sprintf("expected a %s or a .xml file", tabularTag), "DetectFormat")
}

// bandSource is implemented by the readers of each band-structure format.
type bandSource interface {
	primarySpins() []Source[int]
	primaryFermi() []Source[float64]
	primaryPerSegment() []Source[int]
	shape() (kpoints, bands int, err error)
	segments(perSegment, kpoints int) (int, error)
	kpoints(M RunMetadata, dir string, log *zap.Logger) (*v3.Matrix, error)
	energies(M RunMetadata) (Spin, error)
}

// BandOptions are the explicit values for the metadata of a band-structure
// run. Zero values (nil for Fermi and Labels) mean "find it out".
type BandOptions struct {
	Spins             int
	KPointsPerSegment int
	Fermi             *float64
	Labels            []string
	// Directory with OUTCAR, INCAR and KPOINTS. Defaults to the directory
	// of the input file.
	Dir string
	Log *zap.Logger
}

// BandStructure is the result of reading a band-structure run.
type BandStructure struct {
	Meta     RunMetadata
	Axis     Axis
	Energies Spin //(k-points x bands) tables, relative to the Fermi energy
	Format   Format
}

// ReadBands reads the band structure in path, which can be an EIGENVAL
// or a vasprun.xml file, optionally gzip or zstd compressed.
func ReadBands(path string, o BandOptions) (*BandStructure, error) {
	format, err := DetectFormat(path, "EIGENVAL")
	if err != nil {
		return nil, err
	}
	log := orNop(o.Log).With(zap.String("input", path), zap.Stringer("format", format))
	var src bandSource
	if format == Tree {
		src, err = readVasprun(path)
	} else {
		src, err = readEigenval(path)
	}
	if err != nil {
		return nil, errDecorate(err, "ReadBands")
	}
	dir := o.Dir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	M, err := bandMetadata(src, dir, o, log)
	if err != nil {
		return nil, errDecorate(err, "ReadBands")
	}
	ret := &BandStructure{Meta: M, Format: format}
	var g errgroup.Group
	g.Go(func() error {
		kpts, err := src.kpoints(M, dir, log)
		if err != nil {
			return err
		}
		ret.Axis, err = Linearize(kpts, M.KPointsPerSegment, M.Segments)
		return err
	})
	g.Go(func() error {
		var err error
		ret.Energies, err = src.energies(M)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errDecorate(err, "ReadBands")
	}
	log.Info("band structure read", zap.Int("spins", M.Spins), zap.Int("bands", M.Bands),
		zap.Int("kpoints", M.KPoints), zap.Int("segments", M.Segments))
	return ret, nil
}

func bandMetadata(src bandSource, dir string, o BandOptions, log *zap.Logger) (RunMetadata, error) {
	var M RunMetadata
	var err error
	spins := append([]Source[int]{Explicit(o.Spins, o.Spins != 0)}, src.primarySpins()...)
	spins = append(spins, OutcarTag(dir, "ISPIN"), IncarTag(dir, "ISPIN", 1, true))
	if M.Spins, err = Resolve(log, "ISPIN", spins...); err != nil {
		return M, err
	}
	fermi := append([]Source[float64]{Explicit(deref(o.Fermi), o.Fermi != nil)}, src.primaryFermi()...)
	fermi = append(fermi, OutcarFermi(dir), DoscarFermi(dir))
	if M.Fermi, err = Resolve(log, "Fermi energy", fermi...); err != nil {
		return M, err
	}
	if M.KPoints, M.Bands, err = src.shape(); err != nil {
		return M, err
	}
	per := append([]Source[int]{Explicit(o.KPointsPerSegment, o.KPointsPerSegment != 0)}, src.primaryPerSegment()...)
	per = append(per, KpointsPerSegment(dir))
	if M.KPointsPerSegment, err = Resolve(log, "k-points per segment", per...); err != nil {
		return M, err
	}
	if M.Segments, err = src.segments(M.KPointsPerSegment, M.KPoints); err != nil {
		return M, err
	}
	M.Labels, err = ResolveLabels(log, Explicit(o.Labels, o.Labels != nil), OutcarLabels(dir), KpointsLabels(dir))
	if err != nil {
		return M, err
	}
	return M, M.Validate()
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// Table is a set of named columns, ready to be exported.
type Table struct {
	Columns []string
	Data    *mat.Dense
}

// Table returns the k axis followed by the energies of each band in
// channel spin. Columns are "k_points", "1", "2"... with "_up" or "_down"
// appended to the band numbers of spin-polarized runs.
func (B *BandStructure) Table(spin int) Table {
	E := B.Energies.Table(spin)
	r, c := E.Dims()
	cols := make([]string, c+1)
	cols[0] = "k_points"
	suffix := spinSuffix(spin, B.Energies.Spins())
	for i := 1; i <= c; i++ {
		cols[i] = strconv.Itoa(i) + suffix
	}
	data := mat.NewDense(r, c+1, nil)
	data.SetCol(0, B.Axis.K)
	data.Slice(0, r, 1, c+1).(*mat.Dense).Copy(E)
	return Table{Columns: cols, Data: data}
}
