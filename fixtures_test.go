/*
 * fixtures_test.go, part of govasp.
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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

//A 2-segment path, G-X-M, 3 k-points per segment, 3 bands.
var (
	testKPoints = [][3]float64{
		{0, 0, 0}, {0.25, 0, 0}, {0.5, 0, 0},
		{0.5, 0, 0}, {0.5, 0.25, 0}, {0.5, 0.5, 0},
	}
	testAxis       = []float64{0, 0.25, 0.5, 0.5, 0.75, 1}
	testBoundaries = []float64{0, 0.5, 1}
	testFermi      = 1.375
)

const testBands = 3

// testEnergy is the raw energy of band b at k-point k for spin s.
func testEnergy(s, k, b int) float64 {
	return -4.5 + 3.25*float64(b) + 0.125*float64(k) - 0.5*float64(s)
}

func writeFile(Te *testing.T, dir, name, content string) string {
	Te.Helper()
	p := filepath.Join(dir, name)
	require.NoError(Te, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// eigenvalText builds an EIGENVAL file for the test path.
func eigenvalText(spins int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "    2    2    1    %d\n", spins)
	b.WriteString("  0.1000000E+02  0.3800000E-09  0.3800000E-09  0.3800000E-09  0.5000000E-15\n")
	b.WriteString("  1.000000000000000E-004\n")
	b.WriteString("  CAR\n")
	b.WriteString(" Si\n")
	fmt.Fprintf(&b, "      8      %d      %d\n", len(testKPoints), testBands)
	for k, kp := range testKPoints {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %.7E  %.7E  %.7E  %.7E\n", kp[0], kp[1], kp[2], 0.1666667)
		for band := 0; band < testBands; band++ {
			fmt.Fprintf(&b, "%5d", band+1)
			for s := 0; s < spins; s++ {
				fmt.Fprintf(&b, "  %v", testEnergy(s, k, band))
			}
			for s := 0; s < spins; s++ {
				b.WriteString("  1.00000")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// outcarText builds an OUTCAR with the tags, Fermi energies, labels and
// k-point list that the readers look for.
func outcarText(spins int, labels string) string {
	var b strings.Builder
	b.WriteString(" vasp.6.3.0 18Jan22 (build Feb 17 2022) complex\n")
	fmt.Fprintf(&b, "   ISPIN  =      %d    spin polarized calculation?\n", spins)
	b.WriteString("   LORBIT =     11    0 simple, 1 ext, 2 COOP (PROOUT), +10 PAW based schemes\n")
	b.WriteString(" E-fermi :  -9.9999     XC(G=0):  -8.7513     alpha+bet : -4.8447\n")
	fmt.Fprintf(&b, " k-points in units of 2pi/SCALE and weight: %s\n", labels)
	for _, kp := range testKPoints {
		fmt.Fprintf(&b, "   %.8f  %.8f  %.8f       0.167\n", kp[0], kp[1], kp[2])
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, " E-fermi :   %v     XC(G=0):  -8.7513     alpha+bet : -4.8447\n", testFermi)
	return b.String()
}

// vasprunText builds a vasprun.xml with the band structure of the test
// path and a DOS with nedos points.
func vasprunText(spins, nedos int) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\"?>\n<modeling>\n <kpoints>\n")
	b.WriteString("  <generation param=\"listgenerated\">\n")
	fmt.Fprintf(&b, "   <i type=\"int\" name=\"divisions\">     %d </i>\n", len(testKPoints)/2)
	b.WriteString("   <v>       0.0 0.0 0.0 </v>\n   <v>       0.5 0.0 0.0 </v>\n   <v>       0.5 0.5 0.0 </v>\n")
	b.WriteString("  </generation>\n  <varray name=\"kpointlist\" >\n")
	for _, kp := range testKPoints {
		fmt.Fprintf(&b, "   <v>  %v  %v  %v </v>\n", kp[0], kp[1], kp[2])
	}
	b.WriteString("  </varray>\n </kpoints>\n <parameters>\n  <separator name=\"electronic\" >\n")
	fmt.Fprintf(&b, "   <i type=\"int\" name=\"NBANDS\">     %d</i>\n", testBands)
	b.WriteString("   <separator name=\"electronic spin\" >\n")
	fmt.Fprintf(&b, "    <i type=\"int\" name=\"ISPIN\">     %d</i>\n", spins)
	b.WriteString("   </separator>\n  </separator>\n  <separator name=\"dos\" >\n")
	fmt.Fprintf(&b, "   <i type=\"int\" name=\"NEDOS\">    %d</i>\n", nedos)
	b.WriteString("  </separator>\n </parameters>\n")
	//an earlier ionic step, which must be ignored
	b.WriteString(" <calculation>\n  <dos>\n   <i name=\"efermi\">    -99.0 </i>\n  </dos>\n </calculation>\n")
	b.WriteString(" <calculation>\n  <eigenvalues>\n   <array>\n    <set>\n")
	for s := 0; s < spins; s++ {
		fmt.Fprintf(&b, "     <set comment=\"spin %d\">\n", s+1)
		for k := range testKPoints {
			fmt.Fprintf(&b, "      <set comment=\"kpoint %d\">\n", k+1)
			for band := 0; band < testBands; band++ {
				fmt.Fprintf(&b, "       <r>  %v  1.0000 </r>\n", testEnergy(s, k, band))
			}
			b.WriteString("      </set>\n")
		}
		b.WriteString("     </set>\n")
	}
	b.WriteString("    </set>\n   </array>\n  </eigenvalues>\n  <dos>\n")
	fmt.Fprintf(&b, "   <i name=\"efermi\">      %v </i>\n", testFermi)
	b.WriteString("   <total>\n    <array>\n     <set>\n")
	for s := 0; s < spins; s++ {
		fmt.Fprintf(&b, "      <set comment=\"spin %d\">\n", s+1)
		for i := 0; i < nedos; i++ {
			fmt.Fprintf(&b, "       <r> %v %v %v </r>\n", dosEnergy(i), dosValue(s, i, 0), dosValue(s, i, 1))
		}
		b.WriteString("      </set>\n")
	}
	b.WriteString("     </set>\n    </array>\n   </total>\n   <partial>\n    <array>\n     <set>\n")
	b.WriteString("      <set comment=\"ion 1\">\n")
	for s := 0; s < spins; s++ {
		fmt.Fprintf(&b, "       <set comment=\"spin %d\">\n", s+1)
		for i := 0; i < nedos; i++ {
			fmt.Fprintf(&b, "        <r> %v", dosEnergy(i))
			for c := 0; c < len(orbitColumns); c++ {
				fmt.Fprintf(&b, " %v", dosValue(s, i, c))
			}
			b.WriteString(" </r>\n")
		}
		b.WriteString("       </set>\n")
	}
	b.WriteString("      </set>\n     </set>\n    </array>\n   </partial>\n  </dos>\n </calculation>\n</modeling>\n")
	return b.String()
}

func dosEnergy(i int) float64 { return -2 + 0.5*float64(i) }

// dosValue is the density in column c (0-based, energy excluded) of
// row i for spin s.
func dosValue(s, i, c int) float64 {
	return 0.25*float64(i) + float64(c) + 10*float64(s)
}

// doscarText builds a DOSCAR with nedos points, the total DOS and the
// projected DOS of atoms atoms, with density columns per spin.
func doscarText(spins, nedos, atoms, columns int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "    %d    %d    1    0\n", atoms, atoms)
	b.WriteString("  0.1600000E+02  0.3800000E-09  0.3800000E-09  0.3800000E-09  0.5000000E-15\n")
	b.WriteString("  1.000000000000000E-004\n  CAR\n Si\n")
	info := fmt.Sprintf("     10.00000000     -2.00000000   %d     %v      1.00000000\n", nedos, testFermi)
	b.WriteString(info)
	block := func(n int) {
		for i := 0; i < nedos; i++ {
			fmt.Fprintf(&b, "  %v", dosEnergy(i))
			for c := 0; c < n; c++ {
				for s := 0; s < spins; s++ {
					fmt.Fprintf(&b, "  %v", dosValue(s, i, c))
				}
			}
			b.WriteString("\n")
		}
	}
	block(2)
	for a := 0; a < atoms; a++ {
		b.WriteString(info)
		block(columns)
	}
	return b.String()
}
