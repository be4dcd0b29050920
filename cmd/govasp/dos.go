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

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	vasp "github.com/rmera/govasp"
	"github.com/rmera/govasp/bandplot"
	"github.com/rmera/govasp/histo"
)

var tdosCmd = &cobra.Command{
	Use:   "tdos [DOSCAR|vasprun.xml]",
	Short: "Export and plot the total density of states",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDOS(cmd, inputOr(args, "DOSCAR"), 0)
	},
}

var ldosCmd = &cobra.Command{
	Use:   "ldos ATOM [DOSCAR|vasprun.xml]",
	Short: "Export and plot the density of states projected on an atom (counted from 1)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		atom, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid atom number %q: %w", args[0], err)
		}
		return runDOS(cmd, inputOr(args[1:], "DOSCAR"), atom)
	},
}

func init() {
	ldosCmd.Flags().IntVar(&lorbitFlag, "lorbit", 0, "LORBIT of the run: 0, 1, 10 or 11")
	for _, c := range []*cobra.Command{tdosCmd, ldosCmd} {
		c.Flags().Float64Var(&dosMaxFlag, "dos-max", 0, "Upper limit of the DOS axis (default: automatic)")
	}
	rootCmd.AddCommand(tdosCmd, ldosCmd)
}

func runDOS(cmd *cobra.Command, input string, atom int) error {
	cfg, dir, err := settings(cmd, input)
	if err != nil {
		return err
	}
	o := vasp.DOSOptions{Spins: intOr0(cfg.ISPIN), LORBIT: cfg.LORBIT, Fermi: cfg.Efermi, Dir: dir, Log: logger}
	var D *vasp.DOS
	kind := "tdos"
	if atom == 0 {
		D, err = vasp.ReadTDOS(input, o)
	} else {
		D, err = vasp.ReadLDOS(input, atom, o)
		kind = fmt.Sprintf("ldos_%d", atom)
	}
	if err != nil {
		return err
	}
	if !noExportFlag {
		for s := 0; s < D.Data.Spins(); s++ {
			name := outName(cfg, kind+spinTag(s, D.Data.Spins()), "csv")
			if err := vasp.WriteCSV(name, D.Table(s)); err != nil {
				return err
			}
			logger.Info("table written", zap.String("file", name))
		}
	}
	if noPlotFlag {
		return nil
	}
	title := "Total DOS"
	if atom != 0 {
		title = fmt.Sprintf("DOS of atom %d", atom)
	}
	plots, err := bandplot.DOS(D, bandplot.Options{Title: title, Range: cfg.AxisRange, DOSMax: cfg.DOSMax})
	if err != nil {
		return err
	}
	suffixes := []string{""}
	if len(plots) == 2 {
		suffixes = []string{"_combined", "_separated"}
	}
	for i, p := range plots {
		name := outName(cfg, kind+suffixes[i], cfg.Format)
		if err := bandplot.Save(p, name, cfg.Width, cfg.Height); err != nil {
			return err
		}
		logger.Info("plot written", zap.String("file", name))
	}
	return nil
}

var (
	binsFlag int
	jsonFlag bool
)

var histCmd = &cobra.Command{
	Use:   "hist [EIGENVAL|vasprun.xml]",
	Short: "Histogram of the energy levels of a band-structure run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHist,
}

func init() {
	f := histCmd.Flags()
	f.IntVar(&perSegFlag, "kpoints-per-segment", 0, "Number of k-points in each segment of the path")
	f.IntVar(&binsFlag, "bins", 40, "Number of bins")
	f.BoolVar(&jsonFlag, "json", false, "Print the histograms as JSON")
	rootCmd.AddCommand(histCmd)
}

func runHist(cmd *cobra.Command, args []string) error {
	B, cfg, err := readBands(cmd, inputOr(args, "EIGENVAL"))
	if err != nil {
		return err
	}
	lo, hi := -5.0, 5.0
	if len(cfg.AxisRange) == 2 {
		lo, hi = cfg.AxisRange[0], cfg.AxisRange[1]
	}
	for _, h := range vasp.EnergyHistogram(B.Energies, histo.Dividers(lo, hi, binsFlag)) {
		if jsonFlag {
			j, err := h.MarshalJSON()
			if err != nil {
				return err
			}
			fmt.Println(string(j))
			continue
		}
		fmt.Println(h.String())
	}
	return nil
}
