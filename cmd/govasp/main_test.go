/*
 * main_test.go, part of govasp.
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

package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the command line args with all the flags back at their
// defaults, as they are package variables shared by every run.
func run(args ...string) error {
	verbose, configPath, runDir = false, "", ""
	ispinFlag, efermiFlag, perSegFlag, lorbitFlag, dosMaxFlag = 0, 0, 0, 0, 0
	labelsFlag, rangeFlag = nil, nil
	outputFlag, formatFlag = "", ""
	noPlotFlag, noExportFlag = false, false
	bandFlag, kpointFlag, fromFlag, toFlag, spinFlag = 0, 0, 0, 0, 1
	widthFlag, binsFlag, jsonFlag = 0.5, 40, false
	unchange := func(f *pflag.Flag) { f.Changed = false }
	rootCmd.PersistentFlags().VisitAll(unchange)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(unchange)
	}
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// A run with one spin channel, 2 bands and 2 segments of 3 k-points.
const testEigenval = `    2    2    1    1
  0.1000000E+02  0.3800000E-09  0.3800000E-09  0.3800000E-09  0.5000000E-15
  1.000000000000000E-004
  CAR
 Si
      8      6      2

  0.0000000E+00  0.0000000E+00  0.0000000E+00  0.1666667E+00
    1   -2.0   1.0
    2    1.5   0.0

  0.2500000E+00  0.0000000E+00  0.0000000E+00  0.1666667E+00
    1   -2.5   1.0
    2    2.0   0.0

  0.5000000E+00  0.0000000E+00  0.0000000E+00  0.1666667E+00
    1   -4.0   1.0
    2    3.5   0.0

  0.5000000E+00  0.0000000E+00  0.0000000E+00  0.1666667E+00
    1   -4.0   1.0
    2    3.5   0.0

  0.5000000E+00  0.2500000E+00  0.0000000E+00  0.1666667E+00
    1   -3.0   1.0
    2    2.5   0.0

  0.5000000E+00  0.5000000E+00  0.0000000E+00  0.1666667E+00
    1   -2.0   1.0
    2    1.0   0.0
`

func setupRun(Te *testing.T) (dir, input string) {
	Te.Helper()
	dir = Te.TempDir()
	input = filepath.Join(dir, "EIGENVAL")
	require.NoError(Te, os.WriteFile(input, []byte(testEigenval), 0o644))
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "KPOINTS"), []byte("G-X-M\n3\nline\nrec\n"), 0o644))
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "govasp.yaml"), []byte("efermi: 0.5\n"), 0o644))
	return dir, input
}

func TestBandsCommand(Te *testing.T) {
	dir, input := setupRun(Te)
	prefix := filepath.Join(dir, "out")
	require.NoError(Te, run("bands", input, "--output", prefix, "--no-plot"))
	f, err := os.Open(prefix + "_bands.csv")
	require.NoError(Te, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(Te, err)
	require.Len(Te, recs, 7)
	assert.Equal(Te, []string{"k_points", "1", "2"}, recs[0])
	assert.Equal(Te, []string{"0.25", "-3", "1.5"}, recs[2], "energies are relative to the Fermi energy of govasp.yaml")
}

func TestEffmassCommand(Te *testing.T) {
	dir, input := setupRun(Te)
	require.NoError(Te, run("effmass", input, "--band", "1", "--from", "1", "--to", "3",
		"--efermi", "0", "--output", filepath.Join(dir, "fit"), "--no-export"))
	_, err := os.Stat(filepath.Join(dir, "fit_effmass.png"))
	assert.NoError(Te, err)

	assert.Error(Te, run("effmass", input, "--band", "1", "--from", "3", "--to", "4", "--no-plot", "--no-export"),
		"only one distinct k value")
}

func TestSettings(Te *testing.T) {
	dir, input := setupRun(Te)
	require.NoError(Te, run("edges", input, "--kpoint", "1", "--width", "3", "--ispin", "1"))
	cfg, d, err := settings(edgesCmd, input)
	require.NoError(Te, err)
	assert.Equal(Te, dir, d)
	require.NotNil(Te, cfg.Efermi)
	assert.Equal(Te, 0.5, *cfg.Efermi)
	require.NotNil(Te, cfg.ISPIN)
	assert.Equal(Te, 1, *cfg.ISPIN)
}

// setupDOS writes a spin-polarized DOSCAR with 3 energies and one atom
// with s, p and d projections, and an INCAR with its ISPIN and LORBIT.
func setupDOS(Te *testing.T) (dir, input string) {
	Te.Helper()
	dir = Te.TempDir()
	var b strings.Builder
	b.WriteString("    1    1    1    0\n  0.1600000E+02  0.3800000E-09  0.3800000E-09  0.3800000E-09  0.5000000E-15\n")
	b.WriteString("  1.000000000000000E-004\n  CAR\n Si\n")
	info := "      0.00000000     -2.00000000       3      0.50000000      1.00000000\n"
	b.WriteString(info)
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&b, "  %d.000  %d.0  %d.5  %d.0  %d.5\n", i-2, i, i, 2*i, 2*i)
	}
	b.WriteString(info)
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&b, "  %d.000  0.%d  0.%d  1.%d  1.%d  2.%d  2.%d\n", i-2, i, i, i, i, i, i)
	}
	input = filepath.Join(dir, "DOSCAR")
	require.NoError(Te, os.WriteFile(input, []byte(b.String()), 0o644))
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "INCAR"), []byte("ISPIN = 2\nLORBIT = 10\n"), 0o644))
	return dir, input
}

func readCSV(Te *testing.T, name string) [][]string {
	Te.Helper()
	f, err := os.Open(name)
	require.NoError(Te, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(Te, err)
	return recs
}

func TestTDOSCommand(Te *testing.T) {
	dir, input := setupDOS(Te)
	prefix := filepath.Join(dir, "run")
	require.NoError(Te, run("tdos", input, "--output", prefix, "--range=-1.5,0.5", "--dos-max", "4"))
	up := readCSV(Te, prefix+"_tdos_up.csv")
	require.Len(Te, up, 4)
	assert.Equal(Te, []string{"E", "tot_up", "tot_integrated_up"}, up[0])
	assert.Equal(Te, []string{"-2.5", "0", "0"}, up[1], "energies relative to the DOSCAR Fermi energy")
	down := readCSV(Te, prefix+"_tdos_down.csv")
	assert.Equal(Te, []string{"-0.5", "2.5", "4.5"}, down[3])
	for _, name := range []string{"_tdos_combined.png", "_tdos_separated.png"} {
		_, err := os.Stat(prefix + name)
		assert.NoError(Te, err, name)
	}
}

func TestLDOSCommand(Te *testing.T) {
	dir, input := setupDOS(Te)
	prefix := filepath.Join(dir, "run")
	require.NoError(Te, run("ldos", "1", input, "--output", prefix, "--no-plot"))
	up := readCSV(Te, prefix+"_ldos_1_up.csv")
	assert.Equal(Te, []string{"E", "s_up", "p_up", "d_up"}, up[0])
	assert.Equal(Te, []string{"-1.5", "0.1", "1.1", "2.1"}, up[2])
	_, err := os.Stat(prefix + "_ldos_1_down.csv")
	assert.NoError(Te, err)

	assert.Error(Te, run("ldos", "one", input, "--no-plot", "--no-export"), "atom must be a number")
	assert.Error(Te, run("ldos", "2", input, "--no-plot", "--no-export"), "there is only one atom")
}

func TestHistCommand(Te *testing.T) {
	_, input := setupRun(Te)
	require.NoError(Te, run("hist", input, "--bins", "4", "--json"))
	require.NoError(Te, run("hist", input, "--range=-3,3"))
	assert.Error(Te, run("hist", input, "--range=3,-3"), "inverted range")
}
