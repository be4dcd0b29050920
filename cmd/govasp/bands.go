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

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	vasp "github.com/rmera/govasp"
	"github.com/rmera/govasp/bandplot"
	"github.com/rmera/govasp/internal/config"
)

var bandsCmd = &cobra.Command{
	Use:   "bands [EIGENVAL|vasprun.xml]",
	Short: "Export and plot a band structure",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBands,
}

func init() {
	f := bandsCmd.Flags()
	f.IntVar(&perSegFlag, "kpoints-per-segment", 0, "Number of k-points in each segment of the path")
	f.StringSliceVar(&labelsFlag, "labels", nil, "Labels of the path corners, e.g. G,X,M,G")
	rootCmd.AddCommand(bandsCmd)
}

func inputOr(args []string, def string) string {
	if len(args) > 0 {
		return args[0]
	}
	return def
}

// readBands loads the settings for input and reads its band structure.
func readBands(cmd *cobra.Command, input string) (*vasp.BandStructure, *config.Config, error) {
	cfg, dir, err := settings(cmd, input)
	if err != nil {
		return nil, nil, err
	}
	B, err := vasp.ReadBands(input, vasp.BandOptions{
		Spins:             intOr0(cfg.ISPIN),
		KPointsPerSegment: intOr0(cfg.KPointsPerSegment),
		Fermi:             cfg.Efermi,
		Labels:            cfg.Labels,
		Dir:               dir,
		Log:               logger,
	})
	return B, cfg, err
}

func runBands(cmd *cobra.Command, args []string) error {
	B, cfg, err := readBands(cmd, inputOr(args, "EIGENVAL"))
	if err != nil {
		return err
	}
	return writeBands(B, cfg, "bands", bandplot.Options{})
}

func writeBands(B *vasp.BandStructure, cfg *config.Config, kind string, o bandplot.Options) error {
	if !noExportFlag {
		for s := 0; s < B.Energies.Spins(); s++ {
			name := outName(cfg, kind+spinTag(s, B.Energies.Spins()), "csv")
			if err := vasp.WriteCSV(name, B.Table(s)); err != nil {
				return err
			}
			logger.Info("table written", zap.String("file", name))
		}
	}
	if noPlotFlag {
		return nil
	}
	o.Range = cfg.AxisRange
	o.Title = strings.Join(B.Meta.Labels, "-")
	p, err := bandplot.Bands(B, o)
	if err != nil {
		return err
	}
	name := outName(cfg, kind, cfg.Format)
	if err := bandplot.Save(p, name, cfg.Width, cfg.Height); err != nil {
		return err
	}
	logger.Info("plot written", zap.String("file", name))
	return nil
}

func spinTag(s, n int) string {
	if n == 1 {
		return ""
	}
	return []string{"_up", "_down"}[s]
}

var (
	bandFlag   int
	kpointFlag int
	fromFlag   int
	toFlag     int
	widthFlag  float64
)

var effmassCmd = &cobra.Command{
	Use:   "effmass [EIGENVAL|vasprun.xml]",
	Short: "Fit a parabola to a band and report the effective mass",
	Long: `Fits E = A k^2 + B k + C to a band between two k-points (both included) and
reports the effective mass, in electron masses. Bands and k-points are
counted from 1, as in the exported tables.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEffmass,
}

var edgesCmd = &cobra.Command{
	Use:   "edges [EIGENVAL|vasprun.xml]",
	Short: "List the bands just below and above the Fermi energy at a k-point",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEdges,
}

func init() {
	for _, c := range []*cobra.Command{effmassCmd, edgesCmd} {
		f := c.Flags()
		f.IntVar(&perSegFlag, "kpoints-per-segment", 0, "Number of k-points in each segment of the path")
		f.StringSliceVar(&labelsFlag, "labels", nil, "Labels of the path corners, e.g. G,X,M,G")
	}
	f := effmassCmd.Flags()
	f.IntVar(&bandFlag, "band", 0, "Band to fit, from 1")
	f.IntVar(&fromFlag, "from", 0, "First k-point of the fit, from 1")
	f.IntVar(&toFlag, "to", 0, "Last k-point of the fit, from 1")
	f.IntVar(&spinFlag, "spin", 1, "Spin channel, 1 (up) or 2 (down)")
	effmassCmd.MarkFlagRequired("band")
	effmassCmd.MarkFlagRequired("from")
	effmassCmd.MarkFlagRequired("to")
	f = edgesCmd.Flags()
	f.IntVar(&kpointFlag, "kpoint", 0, "k-point where the band edges are, from 1")
	f.Float64Var(&widthFlag, "width", 0.5, "Width of the energy window, eV")
	edgesCmd.MarkFlagRequired("kpoint")
	rootCmd.AddCommand(effmassCmd, edgesCmd)
}

var spinFlag int

func spinTable(B *vasp.BandStructure) (int, error) {
	if spinFlag < 1 || spinFlag > B.Energies.Spins() {
		return 0, fmt.Errorf("spin channel %d not in a run with %d channels", spinFlag, B.Energies.Spins())
	}
	return spinFlag - 1, nil
}

func runEffmass(cmd *cobra.Command, args []string) error {
	B, cfg, err := readBands(cmd, inputOr(args, "EIGENVAL"))
	if err != nil {
		return err
	}
	s, err := spinTable(B)
	if err != nil {
		return err
	}
	fit, err := vasp.FitEffectiveMass(B.Axis.K, B.Energies.Table(s), bandFlag-1, fromFlag-1, toFlag-1)
	if err != nil {
		return err
	}
	fmt.Printf("E = %.6g k^2 %+.6g k %+.6g  (R^2 = %.5f)\n", fit.A, fit.B, fit.C, fit.RSquared)
	fmt.Printf("fitted extremum at k = %.6g, actual extremum at k = %.6g\n", fit.FittedExtremumK, fit.ActualExtremumK)
	fmt.Printf("effective mass: %.6g m_e\n", fit.ReducedMass)
	return writeBands(B, cfg, "effmass", bandplot.Options{Fits: []vasp.FitResult{fit}})
}

func runEdges(cmd *cobra.Command, args []string) error {
	B, _, err := readBands(cmd, inputOr(args, "EIGENVAL"))
	if err != nil {
		return err
	}
	kp := kpointFlag - 1
	if kp < 0 || kp >= B.Meta.KPoints {
		return fmt.Errorf("k-point %d not in a run with %d k-points", kpointFlag, B.Meta.KPoints)
	}
	for s := 0; s < B.Energies.Spins(); s++ {
		v, c := vasp.FindBandEdges(B.Energies.Table(s), kp, widthFlag)
		fmt.Printf("spin %d: possible valence bands %v, possible conduction bands %v\n", s+1, oneBased(v), oneBased(c))
	}
	return nil
}

func oneBased(b []int) []int {
	ret := make([]int, len(b))
	for i, v := range b {
		ret[i] = v + 1
	}
	return ret
}
