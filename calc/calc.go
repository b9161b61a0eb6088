/*
 * calc.go, part of gofnet.
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

package calc

import (
	"context"
	"fmt"

	fnet "github.com/rmera/gofnet"
	v3 "github.com/rmera/gofnet/v3"
)

//File names and defaults used by Fortnet runs.
const (
	DatasetFile    = "fnetdata.hdf5"
	OutputFile     = "fnetout.hdf5"
	InputFile      = "fortnet_in.hsd"
	DefaultLabel   = "fortnet"
	DefaultNetstat = "fortnet.hdf5"
	DefaultCommand = "fnet"
	CommandEnv     = "FORTNET_COMMAND"

	//Coordinate shift for the central finite differences used for forces, in Bohr.
	DefaultFiniteDiffDelta = 1e-2
)

//Properties that can be requested from a Calculator.
const (
	Energy = "energy"
	Forces = "forces"
)

//Handle allows to run predictions with a neural network program.
type Handle interface {

	//Sets the name for the job, used for the output file.
	SetName(name string)

	//BuildInput builds an input for a prediction on each of the geometries
	//geoms, based on the options in Q.
	BuildInput(geoms []*fnet.Geometry, Q *Calc) error

	//Run runs the program for a calculation previously set.
	Run(ctx context.Context) error

	//Energies returns the energy (eV) of each geometry of the last calculation.
	Energies() ([]float64, error)

	//AllForces returns the forces (eV/A) on the atoms of each geometry of the last calculation.
	//Returns error if forces were not requested in the input.
	AllForces() ([]*v3.Matrix, error)
}

//Store reads and writes the files Fortnet uses. h5.Store implements it on HDF5 files.
type Store interface {
	WriteDataset(name string, geoms []*fnet.Geometry) error
	ReadOutput(name string) (*fnet.Output, error)
	ReadNetstat(name string) (*fnet.Netstat, error)
}

//Calc contains the options for a Fortnet prediction.
type Calc struct {
	Netstat         string  //path to the netstat file to initialize the network from. DefaultNetstat if empty.
	FiniteDiffDelta float64 //coordinate shift for finite-difference forces, in A. 0 means DefaultFiniteDiffDelta.
	Forces          bool    //calculate forces.
}

//NetstatFile returns the netstat file for the calculation.
func (Q *Calc) NetstatFile() string {
	if Q.Netstat == "" {
		return DefaultNetstat
	}
	return Q.Netstat
}

//Delta returns the finite difference shift in Bohr, as Fortnet expects it.
func (Q *Calc) Delta() float64 {
	if Q.FiniteDiffDelta == 0 {
		return DefaultFiniteDiffDelta
	}
	return Q.FiniteDiffDelta * fnet.A2Bohr
}

//Errors

//Error is the error type for the calc package.
type Error struct {
	message    string
	code       string //the name of the program
	inputname  string
	additional string
	deco       []string
	critical   bool
}

func (err Error) Error() string {
	if err.additional == "" {
		return fmt.Sprintf("%s (%s/%s)", err.message, err.code, err.inputname)
	}
	return fmt.Sprintf("%s (%s/%s) Message: %s", err.message, err.code, err.inputname, err.additional)
}

//Message returns the main message of the error, which is one of the Err* constants.
func (err Error) Message() string { return err.message }

//Code returns the name of the program related to the error.
func (err Error) Code() string { return err.code }

//InputName returns the label of the calculation that failed.
func (err Error) InputName() string { return err.inputname }

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the error is critical.
func (err Error) Critical() bool { return err.critical }

const Fortnet = "Fortnet"

const (
	ErrNoNetstat              = "Netstat file not present"
	ErrBadNetstat             = "Netstat file not supported"
	ErrBadOptions             = "Invalid calculation options"
	ErrCantInput              = "Can't write input"
	ErrNotRunning             = "Can't run the program"
	ErrFailed                 = "Calculation failed"
	ErrNoOutput               = "Can't read the output"
	ErrNoEnergy               = "No energy present"
	ErrNoForces               = "Forces requested by the calculator but not present in output"
	ErrPropertyNotImplemented = "Property not implemented"
)
