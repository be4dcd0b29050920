/*
 * doc.go, part of govasp.
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

/*Package vasp reads band structures and densities of states from the
output of VASP runs.

	**Capabilities**

    Reads band energies from EIGENVAL and vasprun.xml files (plain or
	gzip-compressed), for spin-polarized and non spin-polarized runs.

    Finds the run parameters that a file lacks (ISPIN, the Fermi energy,
	the number of k-points per path segment, the path labels) in the
	OUTCAR, INCAR, KPOINTS and DOSCAR files of the same run, or takes them
	from the caller.

    Turns a line-mode k-point path into a 1D axis with the segment
	boundaries, for plotting.

    Fits parabolas to bands and gives effective masses. Lists the bands
	that may hold the band edges at a k-point.

    Reads total and atom-projected densities of states from DOSCAR and
	vasprun.xml.

    Exports the results as CSV tables and energy histograms. The bandplot
	package draws them with gonum/plot.

All energies returned are relative to the Fermi energy of the run.
*/
package vasp
