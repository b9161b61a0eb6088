/*
 * calculator.go, part of gofnet.
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
	"os"

	fnet "github.com/rmera/gofnet"
	v3 "github.com/rmera/gofnet/v3"
)

//Changes in a system that invalidate previous results.
const (
	ChangePositions = "positions"
	ChangeNumbers   = "numbers"
	ChangeCell      = "cell"
	ChangePBC       = "pbc"
)

//AllChanges lists every kind of system change.
var AllChanges = []string{ChangePositions, ChangeNumbers, ChangeCell, ChangePBC}

//ImplementedProperties are the properties a Calculator can obtain.
var ImplementedProperties = []string{Energy, Forces}

//tolerance for two geometries to be considered the same.
const sameTol = 1e-15

//Result contains the results of a calculation on one geometry.
type Result struct {
	Energy float64    //eV
	Forces *v3.Matrix //eV/A, nil if not calculated
}

//Calculator gives energies and forces for geometries, running Fortnet
//only when the geometry changes or a property that hasn't been calculated is requested.
//Results are discarded whenever the geometry changes.
//A Calculator is not safe for concurrent use.
type Calculator struct {
	h       Handle
	Q       Calc
	atoms   *fnet.Geometry //the geometry of the last calculation
	numbers []int
	results map[string]interface{}
}

//NewCalculator returns a calculator that runs predictions with h, using the options in Q.
//The netstat file in Q must exist.
func NewCalculator(h Handle, Q *Calc) (*Calculator, error) {
	if h == nil || Q == nil {
		return nil, Error{ErrBadOptions, Fortnet, "", "nil handle or options", []string{"NewCalculator"}, true}
	}
	if info, err := os.Stat(Q.NetstatFile()); err != nil || info.IsDir() {
		wd, _ := os.Getwd()
		return nil, Error{ErrNoNetstat, Fortnet, "", fmt.Sprintf("Specified Fortnet netstat file at '%s' is not present (working directory %s).", Q.NetstatFile(), wd), []string{"NewCalculator"}, true}
	}
	C := &Calculator{h: h, Q: *Q}
	C.Reset()
	return C, nil
}

//Reset clears the results and the stored geometry.
func (C *Calculator) Reset() {
	C.atoms = nil
	C.numbers = nil
	C.results = make(map[string]interface{})
}

//CheckState returns the changes in g with respect to the geometry of the last
//calculation. Changes in the cell are ignored for non-periodic geometries.
func (C *Calculator) CheckState(g *fnet.Geometry) []string {
	if C.atoms == nil {
		ret := make([]string, 0, len(AllChanges))
		for _, c := range AllChanges {
			if c == ChangeCell && !g.Periodic() {
				continue
			}
			ret = append(ret, c)
		}
		return ret
	}
	changes := make([]string, 0, 4)
	numbers := fnet.AtomicNumbers(g.Atoms)
	if !sameInts(numbers, C.numbers) {
		changes = append(changes, ChangeNumbers)
	}
	if !g.Coords.Equal(C.atoms.Coords, sameTol) {
		changes = append(changes, ChangePositions)
	}
	if g.PBC != C.atoms.PBC {
		changes = append(changes, ChangePBC)
	}
	if g.Periodic() && !g.Cell.Equal(C.atoms.Cell, sameTol) {
		changes = append(changes, ChangeCell)
	}
	return changes
}

func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func implemented(prop string) bool {
	for _, v := range ImplementedProperties {
		if v == prop {
			return true
		}
	}
	return false
}

//Calculate runs a Fortnet prediction on g for the properties props and stores the
//results. It always runs the program, see Property for the cached version.
func (C *Calculator) Calculate(ctx context.Context, g *fnet.Geometry, props ...string) error {
	for _, p := range props {
		if !implemented(p) {
			return Error{ErrPropertyNotImplemented, Fortnet, "", p, []string{"Calculate"}, true}
		}
		if p == Forces {
			C.Q.Forces = true
		}
	}
	if err := g.Corrupted(); err != nil {
		return Error{ErrCantInput, Fortnet, "", err.Error(), []string{"Calculate"}, true}
	}
	C.Reset()
	if err := C.h.BuildInput([]*fnet.Geometry{g}, &C.Q); err != nil {
		return errDecorate(err, "Calculate")
	}
	if err := C.h.Run(ctx); err != nil {
		return errDecorate(err, "Calculate")
	}
	e, err := C.h.Energies()
	if err != nil {
		return errDecorate(err, "Calculate")
	}
	results := map[string]interface{}{Energy: e[0]}
	if C.Q.Forces {
		f, err := C.h.AllForces()
		if err != nil {
			return errDecorate(err, "Calculate")
		}
		results[Forces] = f[0]
	}
	C.atoms = g.Copy()
	C.numbers = fnet.AtomicNumbers(g.Atoms)
	C.results = results
	return nil
}

//Property returns the property name for the geometry g, running a calculation only if
//the geometry changed or the property has not been calculated. Energies are float64 (eV),
//forces *v3.Matrix (eV/A).
func (C *Calculator) Property(ctx context.Context, name string, g *fnet.Geometry) (interface{}, error) {
	if !implemented(name) {
		return nil, Error{ErrPropertyNotImplemented, Fortnet, "", name, []string{"Property"}, true}
	}
	if changes := C.CheckState(g); len(changes) > 0 {
		C.Reset()
	}
	if _, ok := C.results[name]; !ok {
		if err := C.Calculate(ctx, g, name); err != nil {
			return nil, errDecorate(err, "Property")
		}
	}
	r, ok := C.results[name]
	if !ok {
		return nil, Error{ErrPropertyNotImplemented, Fortnet, "", name, []string{"Property"}, true}
	}
	if m, ok := r.(*v3.Matrix); ok {
		return m.Clone(), nil
	}
	return r, nil
}

//PotentialEnergy returns the energy, in eV, of g.
func (C *Calculator) PotentialEnergy(ctx context.Context, g *fnet.Geometry) (float64, error) {
	e, err := C.Property(ctx, Energy, g)
	if err != nil {
		return 0, errDecorate(err, "PotentialEnergy")
	}
	return e.(float64), nil
}

//Forces returns the forces, in eV/A, on the atoms of g.
func (C *Calculator) Forces(ctx context.Context, g *fnet.Geometry) (*v3.Matrix, error) {
	f, err := C.Property(ctx, Forces, g)
	if err != nil {
		return nil, errDecorate(err, "Forces")
	}
	return f.(*v3.Matrix), nil
}

//Results returns the results of the last calculation. Forces is nil if they were not calculated.
//ok is false if there are no results.
func (C *Calculator) Results() (r Result, ok bool) {
	e, ok := C.results[Energy]
	if !ok {
		return r, false
	}
	r.Energy = e.(float64)
	if f, ok := C.results[Forces]; ok {
		r.Forces = f.(*v3.Matrix).Clone()
	}
	return r, true
}

//errDecorate adds caller to the decoration of err if it is an Error.
func errDecorate(err error, caller string) error {
	if e, ok := err.(Error); ok {
		e.deco = e.Decorate(caller)
		return e
	}
	return err
}
