/*
 * fortnet.go, part of gofnet.
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
//In order to use this part of the library you need the Fortnet program (https://github.com/vanderhe/fortnet).
//Please cite the Fortnet references if you use the program.

package calc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	fnet "github.com/rmera/gofnet"
	"github.com/rmera/gofnet/hsd"
	v3 "github.com/rmera/gofnet/v3"
	"go.uber.org/zap"
)

//FortnetHandle builds inputs for, runs, and reads the results of, Fortnet predictions.
//All files are written to, and the program run in, a single working directory.
type FortnetHandle struct {
	command   string
	inputname string
	dir       string
	store     Store
	logger    *zap.Logger
	forces    bool //forces were requested in the current input
	ndata     int  //geometries in the current input
	output    *fnet.Output
}

//NewFortnetHandle returns a handle that uses store to write the dataset and
//to read Fortnet's files.
func NewFortnetHandle(store Store) *FortnetHandle {
	run := new(FortnetHandle)
	run.store = store
	run.SetDefaults()
	return run
}

//FortnetHandle methods

//SetDefaults sets the label to DefaultLabel, the working directory to the current one,
//and the command to the value of the CommandEnv environment variable or, if not set, DefaultCommand.
func (O *FortnetHandle) SetDefaults() {
	O.inputname = DefaultLabel
	O.dir = ""
	O.command = DefaultCommand
	if c := os.Getenv(CommandEnv); c != "" {
		O.command = c
	}
	if O.logger == nil {
		O.logger = zap.NewNop()
	}
}

func (O *FortnetHandle) SetName(name string) {
	O.inputname = name
}

func (O *FortnetHandle) Name() string {
	return O.inputname
}

func (O *FortnetHandle) SetCommand(command string) {
	O.command = command
}

func (O *FortnetHandle) Command() string {
	return O.command
}

//SetDir sets the working directory. It will be created by BuildInput if it doesn't exist.
func (O *FortnetHandle) SetDir(dir string) {
	O.dir = dir
}

func (O *FortnetHandle) Dir() string {
	return O.dir
}

func (O *FortnetHandle) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	O.logger = l
}

//path returns the path to the file name in the working directory.
func (O *FortnetHandle) path(name string) string {
	return filepath.Join(O.dir, name)
}

func (O *FortnetHandle) err(msg, additional string, deco ...string) Error {
	return Error{msg, Fortnet, O.inputname, additional, deco, true}
}

//BuildInput writes the Fortnet input and the dataset with the geometries geoms to the
//working directory. The netstat file in Q must exist and contain a network that can be
//used as a calculator (see CheckBPNN). Once forces have been requested from the handle,
//they will be calculated for all subsequent inputs.
func (O *FortnetHandle) BuildInput(geoms []*fnet.Geometry, Q *Calc) error {
	if O.inputname == "" {
		O.inputname = DefaultLabel
	}
	if Q == nil {
		return O.err(ErrBadOptions, "nil options", "BuildInput")
	}
	if len(geoms) == 0 {
		return O.err(ErrCantInput, "no geometries given", "BuildInput")
	}
	for i, g := range geoms {
		if err := g.Corrupted(); err != nil {
			return O.err(ErrCantInput, fmt.Sprintf("geometry %d: %s", i, err.Error()), "BuildInput")
		}
	}
	O.forces = O.forces || Q.Forces
	netstat, err := filepath.Abs(Q.NetstatFile())
	if err != nil {
		return O.err(ErrNoNetstat, err.Error(), "filepath.Abs", "BuildInput")
	}
	if info, err := os.Stat(netstat); err != nil || info.IsDir() {
		return O.err(ErrNoNetstat, fmt.Sprintf("Specified Fortnet netstat file at '%s' is not present.", netstat), "BuildInput")
	}
	ns, err := O.store.ReadNetstat(netstat)
	if err != nil {
		return O.err(ErrBadNetstat, err.Error(), "ReadNetstat", "BuildInput")
	}
	if err := CheckBPNN(ns, O.forces); err != nil {
		e := err.(Error)
		e.inputname = O.inputname
		e.deco = e.Decorate("BuildInput")
		return e
	}
	inp, err := FortnetInput(netstat, Q.Delta(), O.forces)
	if err != nil {
		e := err.(Error)
		e.inputname = O.inputname
		e.deco = e.Decorate("BuildInput")
		return e
	}
	if O.dir != "" {
		if err := os.MkdirAll(O.dir, 0755); err != nil {
			return O.err(ErrCantInput, err.Error(), "os.MkdirAll", "BuildInput")
		}
	}
	if err := hsd.WriteFile(O.path(InputFile), inp); err != nil {
		return O.err(ErrCantInput, err.Error(), "hsd.WriteFile", "BuildInput")
	}
	if err := O.store.WriteDataset(O.path(DatasetFile), geoms); err != nil {
		return O.err(ErrCantInput, err.Error(), "WriteDataset", "BuildInput")
	}
	//so results from an earlier run are never mistaken for the new ones.
	if err := os.Remove(O.path(OutputFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return O.err(ErrCantInput, err.Error(), "os.Remove", "BuildInput")
	}
	O.ndata = len(geoms)
	O.output = nil
	O.logger.Debug("fortnet input written",
		zap.String("label", O.inputname),
		zap.String("dir", O.dir),
		zap.Int("datapoints", O.ndata),
		zap.Bool("forces", O.forces))
	return nil
}

//commandLine is the shell command that runs Fortnet, with the standard output
//going to <label>.out.
func (O *FortnetHandle) commandLine() string {
	return fmt.Sprintf("%s > %s.out", O.command, O.inputname)
}

//Run runs Fortnet in the working directory and waits for it to finish.
//It uses sh, so it works only on unix-compatible systems. Cancelling ctx kills the process.
func (O *FortnetHandle) Run(ctx context.Context) error {
	if O.ndata == 0 {
		return O.err(ErrNotRunning, "no input has been built", "Run")
	}
	O.output = nil
	com := O.commandLine()
	command := exec.CommandContext(ctx, "sh", "-c", com)
	command.Dir = O.dir
	var stderr bytes.Buffer
	command.Stderr = &stderr
	O.logger.Info("running fortnet", zap.String("command", com), zap.String("dir", O.dir))
	start := time.Now()
	err := command.Run()
	if err == nil {
		O.logger.Debug("fortnet finished", zap.Duration("elapsed", time.Since(start)))
		return nil
	}
	dir := O.dir
	if dir == "" {
		dir, _ = os.Getwd()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		msg := fmt.Sprintf("command %q failed in %s with error code %d", com, dir, exitErr.ExitCode())
		if s := strings.TrimSpace(stderr.String()); s != "" {
			msg = msg + ": " + s
		}
		return O.err(ErrFailed, msg, "exec.Run", "Run")
	}
	if ctx.Err() != nil {
		return O.err(ErrFailed, ctx.Err().Error(), "exec.Run", "Run")
	}
	return O.err(ErrNotRunning, err.Error(), "exec.Run", "Run")
}

//ReadResults reads the Fortnet output of the last run. The output file is removed after
//it is read, so it can't be read again after a later failure.
func (O *FortnetHandle) ReadResults() (*fnet.Output, error) {
	if O.output != nil {
		return O.output, nil
	}
	out, err := O.store.ReadOutput(O.path(OutputFile))
	if err != nil {
		return nil, O.err(ErrNoOutput, err.Error(), "ReadOutput", "ReadResults")
	}
	if len(out.Datapoints) != O.ndata {
		return nil, O.err(ErrNoOutput, fmt.Sprintf("%d datapoints in output, expected %d", len(out.Datapoints), O.ndata), "ReadResults")
	}
	if O.forces && !out.HasForces {
		return nil, O.err(ErrNoForces, "", "ReadResults")
	}
	if err := os.Remove(O.path(OutputFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		O.logger.Warn("can't remove fortnet output", zap.Error(err))
	}
	O.output = out
	return out, nil
}

//Energies returns the energy, in eV, of each geometry in the last calculation.
//The network is assumed to predict a single, global target in Hartree.
func (O *FortnetHandle) Energies() ([]float64, error) {
	out, err := O.ReadResults()
	if err != nil {
		return nil, err
	}
	ret := make([]float64, len(out.Datapoints))
	for i, p := range out.Datapoints {
		if len(p.Predictions) == 0 {
			return nil, O.err(ErrNoEnergy, fmt.Sprintf("datapoint %d has no predictions", i+1), "Energies")
		}
		ret[i] = p.Predictions[0] * fnet.H2EV
	}
	return ret, nil
}

//Energy returns the energy, in eV, of the first geometry in the last calculation.
func (O *FortnetHandle) Energy() (float64, error) {
	e, err := O.Energies()
	if err != nil {
		return 0, err
	}
	return e[0], nil
}

//AllForces returns the forces, in eV/A, on the atoms of each geometry of the last calculation.
//The network is assumed to predict a single, global target in Hartree, and the
//geometries to be in Bohr, which is what BuildInput writes.
func (O *FortnetHandle) AllForces() ([]*v3.Matrix, error) {
	if !O.forces {
		return nil, O.err(ErrNoForces, "forces were not requested", "AllForces")
	}
	out, err := O.ReadResults()
	if err != nil {
		return nil, err
	}
	ret := make([]*v3.Matrix, len(out.Datapoints))
	for i, p := range out.Datapoints {
		if len(p.Forces) == 0 {
			return nil, O.err(ErrNoForces, fmt.Sprintf("datapoint %d has no forces", i+1), "AllForces")
		}
		f := p.Forces[0].Clone()
		f.Scale(fnet.HB2EVA, f.Dense)
		ret[i] = f
	}
	return ret, nil
}

//Forces returns the forces, in eV/A, for the first geometry in the last calculation.
func (O *FortnetHandle) Forces() (*v3.Matrix, error) {
	f, err := O.AllForces()
	if err != nil {
		return nil, err
	}
	return f[0], nil
}
