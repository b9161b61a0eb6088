/*
 * main.go, part of gofnet.
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

//Command fnetcalc obtains energies and forces for molecular geometries from
//Behler-Parrinello neural networks trained with Fortnet.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rmera/gofnet/calc"
	"github.com/rmera/gofnet/cfg"
	"github.com/rmera/gofnet/h5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//app holds the flags and the state shared by the commands.
type app struct {
	//Global flags
	cfgFile string
	envFile string
	verbose bool

	//Command flags, applied over the configuration only when given
	netstat string
	command string
	dir     string
	label   string
	forces  bool
	delta   float64
	plot    string
	workers int
	chunk   int
	keep    bool

	c      *cfg.Cfg
	store  calc.Store
	logger *zap.Logger
}

func newApp() *app {
	return &app{store: h5.Store{}}
}

//newRootCmd builds the command tree for a.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "fnetcalc",
		Short: "Energies and forces from Fortnet neural networks",
		Long: `fnetcalc runs Fortnet predictions with a trained Behler-Parrinello network
on the geometries of XYZ files (optionally gzip or zstd compressed).

The options are read from fnetcalc.yaml, or the file given with --config,
and can be overridden with flags. The Fortnet command is taken from the
FORTNET_COMMAND environment variable, which can be set in a .env file,
unless the configuration or --command gives one.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger == nil {
				config := zap.NewProductionConfig()
				if a.verbose {
					config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
				}
				var err error
				a.logger, err = config.Build()
				if err != nil {
					return fmt.Errorf("failed to initialize logger: %w", err)
				}
			}
			if err := cfg.LoadEnv(a.envFile); err != nil {
				return err
			}
			c, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			a.c = c
			a.logger.Debug("configuration", zap.Any("cfg", c))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "configuration file (default "+cfg.DefaultFile+" if present)")
	pf.StringVar(&a.envFile, "env", cfg.DefaultEnvFile, "environment file")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&a.netstat, "netstat", calc.DefaultNetstat, "Fortnet netstat file with the trained network")
	pf.StringVar(&a.command, "command", "", "command that runs Fortnet (default $"+calc.CommandEnv+" or "+calc.DefaultCommand+")")
	pf.StringVar(&a.dir, "dir", "", "directory where Fortnet is run")

	root.AddCommand(newPredictCmd(a), newScanCmd(a), newInputCmd(a), newCheckCmd(a))
	return root
}

//loadConfig reads the configuration file and applies the flags given to cmd.
func (a *app) loadConfig(cmd *cobra.Command) (*cfg.Cfg, error) {
	var c *cfg.Cfg
	var err error
	switch {
	case a.cfgFile != "":
		c, err = cfg.New(a.cfgFile)
	default:
		c, err = cfg.New(cfg.DefaultFile)
		if errors.Is(err, os.ErrNotExist) {
			c, err = cfg.Default(), nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}
	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			apply()
		}
	}
	set("netstat", func() { c.Netstat = a.netstat })
	set("command", func() { c.Command = a.command })
	set("dir", func() { c.Dir = a.dir })
	set("label", func() { c.Label = a.label })
	set("forces", func() { c.Forces = a.forces })
	set("delta", func() { c.FiniteDiffDelta = a.delta })
	set("plot", func() { c.Plot = a.plot })
	//an explicit shift has to be positive, 0 is only the "unset" value.
	if f := flags.Lookup("delta"); f != nil && f.Changed && a.delta <= 0 {
		return nil, fmt.Errorf("configuration: --delta %g: must be positive", a.delta)
	}
	set("workers", func() { c.Workers = a.workers })
	set("chunk", func() { c.Chunk = a.chunk })
	set("keep", func() { c.Keep = a.keep })
	if err := c.Check(); err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}
	return c, nil
}

//geometry returns the geometry file from args or, if not given, from the configuration.
func (a *app) geometry(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if a.c.Geometry != "" {
		return a.c.Geometry, nil
	}
	return "", fmt.Errorf("no geometry file given")
}

//handle returns a Fortnet handle set up according to the configuration.
func (a *app) handle() *calc.FortnetHandle {
	h := calc.NewFortnetHandle(a.store)
	h.SetLogger(a.logger)
	h.SetDir(a.c.Dir)
	if a.c.Label != "" {
		h.SetName(a.c.Label)
	}
	if a.c.Command != "" {
		h.SetCommand(a.c.Command)
	}
	return h
}

func execute(ctx context.Context, args []string, out io.Writer) error {
	root := newRootCmd(newApp())
	root.SetArgs(args)
	root.SetOut(out)
	return root.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
