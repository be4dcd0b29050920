/*
 * vasprun.go, part of govasp.
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

	"github.com/antchfx/xmlquery"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	v3 "github.com/rmera/govasp/v3"
)

//XPath expressions, relative to the root element of vasprun.xml.
const (
	xpSpins      = "./parameters/separator[@name='electronic']/separator[@name='electronic spin']/i[@name='ISPIN']"
	xpBands      = "./parameters/separator[@name='electronic']/i[@name='NBANDS']"
	xpNEDOS      = "./parameters/separator[@name='dos']/i[@name='NEDOS']"
	xpFermi      = "./calculation[last()]/dos/i[@name='efermi']"
	xpDivisions  = "./kpoints/generation[@param='listgenerated']/i[@name='divisions']"
	xpCorners    = "./kpoints/generation[@param='listgenerated']/v"
	xpKPointList = "./kpoints/varray[@name='kpointlist']/v"
	xpEigenSpin  = "./calculation[last()]/eigenvalues/array/set/set[@comment='spin %d']"
	xpKPointSets = "./set"
	xpRows       = "./r"
	xpTotalDOS   = "./calculation[last()]/dos/total/array/set/set[@comment='spin %d']/r"
	xpPartialDOS = "./calculation[last()]/dos/partial/array/set/set[@comment='ion %d']/set[@comment='spin %d']/r"
)

// vasprunFile is a parsed vasprun.xml document.
type vasprunFile struct {
	name string
	root *xmlquery.Node
}

func readVasprun(name string) (*vasprunFile, error) {
	r, err := openInput(name)
	if err != nil {
		return nil, errDecorate(err, "readVasprun")
	}
	defer r.Close()
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, malformed(name, "document", err.Error(), "readVasprun")
	}
	root := xmlquery.FindOne(doc, "/*")
	if root == nil {
		return nil, malformed(name, "document", "no root element", "readVasprun")
	}
	return &vasprunFile{name: name, root: root}, nil
}

// text returns the trimmed text of the first node matching expr under n.
func (V *vasprunFile) text(n *xmlquery.Node, expr string) (string, bool, error) {
	node, err := xmlquery.Query(n, expr)
	if err != nil {
		return "", false, err
	}
	if node == nil {
		return "", false, nil
	}
	return strings.TrimSpace(node.InnerText()), true, nil
}

func (V *vasprunFile) all(n *xmlquery.Node, expr string) ([]*xmlquery.Node, error) {
	nodes, err := xmlquery.QueryAll(n, expr)
	if err != nil {
		return nil, malformed(V.name, expr, err.Error(), "vasprunFile.all")
	}
	return nodes, nil
}

// intSource is a source for the integer in the element selected by expr.
func (V *vasprunFile) intSource(expr string) Source[int] {
	return Source[int]{Name: "vasprun.xml", Lookup: func() (int, bool, error) {
		s, ok, err := V.text(V.root, expr)
		if err != nil || !ok {
			return 0, false, err
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, false, malformed(V.name, expr, err.Error(), "vasprunFile.intSource")
		}
		return i, true, nil
	}}
}

func (V *vasprunFile) primarySpins() []Source[int] { return []Source[int]{V.intSource(xpSpins)} }

func (V *vasprunFile) primaryFermi() []Source[float64] {
	return []Source[float64]{{Name: "vasprun.xml", Lookup: func() (float64, bool, error) {
		s, ok, err := V.text(V.root, xpFermi)
		if err != nil || !ok {
			return 0, false, err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, malformed(V.name, xpFermi, err.Error(), "vasprunFile.primaryFermi")
		}
		return f, true, nil
	}}}
}

func (V *vasprunFile) primaryPerSegment() []Source[int] {
	return []Source[int]{V.intSource(xpDivisions)}
}

func (V *vasprunFile) shape() (kpoints, bands int, err error) {
	bands, ok, err := V.intSource(xpBands).Lookup()
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		e := newError(ErrMissingMetadata, V.name, "", "vasprunFile.shape")
		e.Field = "NBANDS"
		e.Tried = []string{"vasprun.xml"}
		return 0, 0, e
	}
	kl, err := V.all(V.root, xpKPointList)
	if err != nil {
		return 0, 0, err
	}
	if len(kl) == 0 || bands <= 0 {
		return 0, 0, malformed(V.name, "kpointlist", "no k-points or bands in file", "vasprunFile.shape")
	}
	return len(kl), bands, nil
}

// segments counts the corners of the line-mode path: there is one
// segment less than corners.
func (V *vasprunFile) segments(perSegment, kpoints int) (int, error) {
	corners, err := V.all(V.root, xpCorners)
	if err != nil {
		return 0, err
	}
	if len(corners) < 2 {
		return 0, newError(ErrInconsistentKPointCount, V.name,
			fmt.Sprintf("%d path corners, a line-mode path needs at least 2", len(corners)), "vasprunFile.segments")
	}
	return len(corners) - 1, nil
}

// floatFields parses the first n (or all, if n<0) fields of the text of node.
func (V *vasprunFile) floatFields(node *xmlquery.Node, n int, record string) ([]float64, error) {
	f := strings.Fields(node.InnerText())
	if n < 0 {
		n = len(f)
	}
	if len(f) < n {
		return nil, malformed(V.name, record, fmt.Sprintf("expected %d values, found %d", n, len(f)), "vasprunFile.floatFields")
	}
	ret := make([]float64, n)
	for i := range ret {
		v, err := strconv.ParseFloat(f[i], 64)
		if err != nil {
			return nil, malformed(V.name, record, err.Error(), "vasprunFile.floatFields")
		}
		ret[i] = v
	}
	return ret, nil
}

func (V *vasprunFile) kpoints(M RunMetadata, dir string, log *zap.Logger) (*v3.Matrix, error) {
	nodes, err := V.all(V.root, xpKPointList)
	if err != nil {
		return nil, err
	}
	if len(nodes) != M.KPoints {
		return nil, newError(ErrInconsistentKPointCount, V.name,
			fmt.Sprintf("%d k-points in kpointlist, %d expected", len(nodes), M.KPoints), "vasprunFile.kpoints")
	}
	kpts := v3.Zeros(M.KPoints)
	for i, n := range nodes {
		c, err := V.floatFields(n, 3, fmt.Sprintf("kpointlist entry %d", i+1))
		if err != nil {
			return nil, err
		}
		kpts.SetVec(i, c)
	}
	log.Debug("k-point coordinates from vasprun.xml", zap.Int("kpoints", M.KPoints))
	return kpts, nil
}

func (V *vasprunFile) energies(M RunMetadata) (Spin, error) {
	tables := make([]*mat.Dense, M.Spins)
	for s := range tables {
		set, err := xmlquery.Query(V.root, fmt.Sprintf(xpEigenSpin, s+1))
		if err != nil {
			return nil, malformed(V.name, "eigenvalues", err.Error(), "vasprunFile.energies")
		}
		if set == nil {
			return nil, malformed(V.name, fmt.Sprintf("spin %d", s+1), "no eigenvalues for spin channel", "vasprunFile.energies")
		}
		ksets, err := V.all(set, xpKPointSets)
		if err != nil {
			return nil, err
		}
		if len(ksets) != M.KPoints {
			return nil, malformed(V.name, fmt.Sprintf("spin %d", s+1),
				fmt.Sprintf("%d k-points found, %d expected", len(ksets), M.KPoints), "vasprunFile.energies")
		}
		t := mat.NewDense(M.KPoints, M.Bands, nil)
		for k, kset := range ksets {
			record := fmt.Sprintf("spin %d kpoint %d", s+1, k+1)
			//sets are in k-point order, the comment only confirms it
			if c := kset.SelectAttr("comment"); c != fmt.Sprintf("kpoint %d", k+1) {
				return nil, malformed(V.name, record, fmt.Sprintf("found set %q instead", c), "vasprunFile.energies")
			}
			rows, err := V.all(kset, xpRows)
			if err != nil {
				return nil, err
			}
			if len(rows) != M.Bands {
				return nil, malformed(V.name, record,
					fmt.Sprintf("%d bands found, %d expected", len(rows), M.Bands), "vasprunFile.energies")
			}
			for b, r := range rows {
				v, err := V.floatFields(r, 1, fmt.Sprintf("%s band %d", record, b+1))
				if err != nil {
					return nil, err
				}
				t.Set(k, b, v[0])
			}
		}
		tables[s] = t
	}
	return shiftedSpin(tables, M.Fermi), nil
}
