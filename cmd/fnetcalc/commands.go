/*
 * commands.go, part of gofnet.
 *
 *
 * Copyright 2021 Raul Mera <rmera{at}usachDOTcl>
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
 *
 * gofnet is developed at the Universidad de Santiago de Chile
 * (USACH)
 *
 */

package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"text/tabwriter"

	fnet "github.com/rmera/gofnet"
	"github.com/rmera/gofnet/calc"
	"github.com/rmera/gofnet/fnetplot"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func readFrames(name string) ([]*fnet.Geometry, error) {
	mol, err := fnet.XYZFileRead(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	geoms, err := mol.Frames()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return geoms, nil
}

func newPredictCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict [geometry]",
		Short: "Predict the energy, and optionally the forces, of each frame of a geometry file",
		Long: `Runs one Fortnet prediction for all the frames in the XYZ file and prints
the energy (eV) of each. With --forces, the forces (eV/A) on each atom, and the
largest force, are printed as well.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := a.geometry(args)
			if err != nil {
				return err
			}
			geoms, err := readFrames(name)
			if err != nil {
				return err
			}
			res, err := calc.Predict(cmd.Context(), a.handle(), geoms, a.c.Calc())
			if err != nil {
				return fmt.Errorf("prediction: %w", err)
			}
			return printResults(cmd.OutOrStdout(), geoms, res)
		},
	}
	f := cmd.Flags()
	f.BoolVarP(&a.forces, "forces", "f", false, "calculate forces")
	f.Float64Var(&a.delta, "delta", 0, "finite difference coordinate shift for forces, in A (default Fortnet's)")
	f.StringVar(&a.label, "label", calc.DefaultLabel, "name of the calculation")
	return cmd
}

func printResults(out io.Writer, geoms []*fnet.Geometry, res []calc.Result) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "frame\tenergy (eV)")
	for i, r := range res {
		fmt.Fprintf(w, "%d\t%.8f\n", i+1, r.Energy)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	for i, r := range res {
		if r.Forces == nil {
			continue
		}
		fmt.Fprintf(out, "\nforces (eV/A), frame %d\n", i+1)
		w = tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
		for j := 0; j < r.Forces.NVecs(); j++ {
			fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.6f\t\n", geoms[i].Atoms.Atom(j).Symbol, r.Forces.At(j, 0), r.Forces.At(j, 1), r.Forces.At(j, 2))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmax, idx := r.Forces.MaxNorm()
		fmt.Fprintf(out, "max force: %.6f eV/A (atom %d, %s)\n", fmax, idx+1, geoms[i].Atoms.Atom(idx).Symbol)
	}
	return nil
}

func newScanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [trajectory]",
		Short: "Predict the energies of all the frames of a trajectory, in parallel",
		Long: `Splits the frames of the trajectory in chunks and runs one Fortnet prediction
per chunk, several at the same time, each in its own directory under --dir (or the
system's temporary directory). Prints the energy of each frame and a summary, and
optionally plots the energy profile.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := a.geometry(args)
			if err != nil {
				return err
			}
			geoms, err := readFrames(name)
			if err != nil {
				return err
			}
			opts := a.c.Parallel()
			opts.Logger = a.logger
			res, err := calc.PredictParallel(cmd.Context(), a.store, geoms, a.c.Calc(), opts)
			if err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			out := cmd.OutOrStdout()
			if err := printResults(out, geoms, res); err != nil {
				return err
			}
			energies := make([]float64, len(res))
			for i, r := range res {
				energies[i] = r.Energy
			}
			s, err := fnetplot.Summary(energies)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nmin: %.8f eV (frame %d)\nmax: %.8f eV (frame %d)\nmean: %.8f eV\nstd. dev.: %.8f eV\n",
				s.Min, s.MinIndex+1, s.Max, s.MaxIndex+1, s.Mean, s.StdDev)
			if a.c.Plot == "" {
				return nil
			}
			if err := fnetplot.EnergyProfile(energies, filepath.Base(name), a.c.Plot); err != nil {
				return fmt.Errorf("plotting: %w", err)
			}
			a.logger.Info("energy profile saved", zap.String("file", a.c.Plot))
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVarP(&a.forces, "forces", "f", false, "calculate forces")
	f.Float64Var(&a.delta, "delta", 0, "finite difference coordinate shift for forces, in A (default Fortnet's)")
	f.StringVar(&a.plot, "plot", "", "save the energy profile to this file (png, svg, pdf)")
	f.IntVarP(&a.workers, "workers", "w", 0, "Fortnet runs at the same time (default half the CPUs)")
	f.IntVar(&a.chunk, "chunk", 0, "frames per Fortnet run (default frames/workers)")
	f.BoolVar(&a.keep, "keep", false, "keep the working directories")
	return cmd
}

func newInputCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "input [geometry]",
		Short: "Write the Fortnet input and dataset for a geometry file, without running Fortnet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := a.geometry(args)
			if err != nil {
				return err
			}
			geoms, err := readFrames(name)
			if err != nil {
				return err
			}
			h := a.handle()
			if err := h.BuildInput(geoms, a.c.Calc()); err != nil {
				return fmt.Errorf("input: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, filepath.Join(h.Dir(), calc.InputFile))
			fmt.Fprintln(out, filepath.Join(h.Dir(), calc.DatasetFile))
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVarP(&a.forces, "forces", "f", false, "request forces")
	f.Float64Var(&a.delta, "delta", 0, "finite difference coordinate shift for forces, in A (default Fortnet's)")
	f.StringVar(&a.label, "label", calc.DefaultLabel, "name of the calculation")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [netstat]",
		Short: "Check whether a Fortnet network can be used to obtain energies and forces",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := a.c.Netstat
			if len(args) > 0 {
				name = args[0]
			}
			ns, err := a.store.ReadNetstat(name)
			if err != nil {
				return fmt.Errorf("reading %s: %w", name, err)
			}
			out := cmd.OutOrStdout()
			printNetstat(out, name, ns)
			if err := calc.CheckBPNN(ns, false); err != nil {
				fmt.Fprintln(out, "energies: no")
				return err
			}
			fmt.Fprintln(out, "energies: yes")
			if err := calc.CheckBPNN(ns, true); err != nil {
				fmt.Fprintf(out, "forces: no (%s)\n", err.Error())
				return nil
			}
			fmt.Fprintln(out, "forces: yes")
			return nil
		},
	}
}

func printNetstat(out io.Writer, name string, ns *fnet.Netstat) {
	fmt.Fprintf(out, "netstat: %s\n", name)
	if !ns.HasBPNN {
		fmt.Fprintln(out, "no network present")
		return
	}
	fmt.Fprintf(out, "targets: %s\n", ns.TargetType)
	zs := append([]int(nil), ns.AtomicNumbers...)
	sort.Ints(zs)
	for _, z := range zs {
		sym, err := fnet.ZToSymbol(z)
		if err != nil {
			sym = fmt.Sprint(z)
		}
		fmt.Fprintf(out, "  %-3s sub-network %v\n", sym, ns.Topologies[z])
	}
	fmt.Fprintf(out, "ACSF features: %t\nexternal features: %t\n", ns.HasMapping, ns.HasExternal)
}
