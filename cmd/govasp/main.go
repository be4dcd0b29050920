/*
 * main.go, part of govasp.
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

// Command govasp extracts band structures and densities of states from
// VASP runs, and plots and exports them.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rmera/govasp/internal/config"
)

var (
	verbose    bool
	configPath string
	runDir     string
	logger     *zap.Logger = zap.NewNop()
)

// Explicit run parameters. They override govasp.yaml when given.
var (
	ispinFlag    int
	efermiFlag   float64
	perSegFlag   int
	labelsFlag   []string
	lorbitFlag   int
	rangeFlag    []float64
	dosMaxFlag   float64
	outputFlag   string
	formatFlag   string
	noPlotFlag   bool
	noExportFlag bool
)

var rootCmd = &cobra.Command{
	Use:          "govasp",
	Short:        "Band structures and densities of states from VASP runs",
	SilenceUsage: true,
	Long: `govasp reads EIGENVAL, DOSCAR and vasprun.xml files, with the OUTCAR,
INCAR and KPOINTS files of the same run when the main file lacks some
parameter, and writes CSV tables and plots.

Parameters can also be set in a govasp.yaml file in the run directory.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVarP(&configPath, "config", "c", "", "Run file (default: govasp.yaml in the run directory)")
	pf.StringVarP(&runDir, "dir", "d", "", "Directory with OUTCAR, INCAR and KPOINTS (default: that of the input file)")
	pf.IntVar(&ispinFlag, "ispin", 0, "ISPIN of the run, 1 or 2")
	pf.Float64Var(&efermiFlag, "efermi", 0, "Fermi energy, eV")
	pf.StringVarP(&outputFlag, "output", "o", "", "Prefix for the output files")
	pf.StringVar(&formatFlag, "format", "", "Plot format: png, svg, pdf, eps")
	pf.Float64SliceVar(&rangeFlag, "range", nil, "Energy range of the plots, min,max (the x axis of DOS plots)")
	pf.BoolVar(&noPlotFlag, "no-plot", false, "Don't write plots")
	pf.BoolVar(&noExportFlag, "no-export", false, "Don't write CSV tables")
}

// settings merges the run file of the directory of input with the flags
// that were given.
func settings(cmd *cobra.Command, input string) (*config.Config, string, error) {
	dir := runDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	p := configPath
	if p == "" {
		p = config.Path(dir)
	}
	cfg, err := config.Load(p)
	if err != nil {
		return nil, "", err
	}
	f := cmd.Flags()
	if f.Changed("ispin") {
		cfg.ISPIN = &ispinFlag
	}
	if f.Changed("efermi") {
		cfg.Efermi = &efermiFlag
	}
	if f.Changed("kpoints-per-segment") {
		cfg.KPointsPerSegment = &perSegFlag
	}
	if f.Changed("labels") {
		cfg.Labels = labelsFlag
	}
	if f.Changed("lorbit") {
		cfg.LORBIT = &lorbitFlag
	}
	if f.Changed("range") {
		cfg.AxisRange = rangeFlag
	}
	if f.Changed("dos-max") {
		cfg.DOSMax = dosMaxFlag
	}
	if outputFlag != "" {
		cfg.OutputPrefix = outputFlag
	}
	if formatFlag != "" {
		cfg.Format = formatFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	logger.Debug("settings", zap.String("config", p), zap.String("dir", dir))
	return cfg, dir, nil
}

func intOr0(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// outName returns the name for an output file of the given kind.
func outName(cfg *config.Config, kind, ext string) string {
	return cfg.OutputPrefix + "_" + kind + "." + ext
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
