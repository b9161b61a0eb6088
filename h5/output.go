/*
 * output.go, part of gofnet.
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

package h5

import (
	"fmt"

	fnet "github.com/rmera/gofnet"
	v3 "github.com/rmera/gofnet/v3"
	"gonum.org/v1/hdf5"
)

//readMatrix reads a Nx3 dataset into a v3.Matrix, multiplying each element by factor.
func readMatrix(loc opener, name string, factor float64) (*v3.Matrix, error) {
	data, d, err := readFloats(loc, name)
	if err != nil {
		return nil, err
	}
	if len(d) != 2 || d[1] != 3 {
		return nil, fmt.Errorf("%s has dimensions %v, expected Nx3", name, d)
	}
	for i := range data {
		data[i] *= factor
	}
	return v3.NewMatrix(data)
}

//ReadOutput reads a Fortnet output (fnetout) file. Values are returned as they
//are in the file, in Fortnet's units.
func (S Store) ReadOutput(name string) (*fnet.Output, error) {
	f, err := hdf5.OpenFile(name, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"hdf5.OpenFile", "ReadOutput"}, true}
	}
	defer f.Close()
	out, err := readOutput(f)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"ReadOutput"}, true}
	}
	return out, nil
}

func readOutput(f *hdf5.File) (*fnet.Output, error) {
	root, err := f.OpenGroup("fnetout")
	if err != nil {
		return nil, err
	}
	defer root.Close()
	ret := new(fnet.Output)
	ret.Mode, err = readStringAttr(root, "mode")
	if err != nil {
		return nil, fmt.Errorf("mode: %w", err)
	}
	output, err := root.OpenGroup("output")
	if err != nil {
		return nil, err
	}
	defer output.Close()
	ndata, err := readIntAttr(output, "ndatapoints")
	if err != nil {
		return nil, fmt.Errorf("ndatapoints: %w", err)
	}
	if ret.NTargets, err = readIntAttr(output, "ntargets"); err != nil {
		return nil, fmt.Errorf("ntargets: %w", err)
	}
	tforces, err := readIntAttr(output, "tforces")
	if err != nil {
		return nil, fmt.Errorf("tforces: %w", err)
	}
	ret.HasForces = tforces != 0
	for i := 1; i <= ndata; i++ {
		p, err := readOutputPoint(output, i, ret.NTargets, ret.HasForces)
		if err != nil {
			return nil, fmt.Errorf("datapoint %d: %w", i, err)
		}
		ret.Datapoints = append(ret.Datapoints, p)
	}
	return ret, nil
}

func readOutputPoint(output *hdf5.Group, idx, ntargets int, forces bool) (*fnet.OutputPoint, error) {
	dp, err := output.OpenGroup(fmt.Sprintf("datapoint%d", idx))
	if err != nil {
		return nil, err
	}
	defer dp.Close()
	p := new(fnet.OutputPoint)
	if p.Predictions, _, err = readFloats(dp, "output"); err != nil {
		return nil, err
	}
	if len(p.Predictions) != ntargets {
		return nil, fmt.Errorf("%d predictions but %d targets", len(p.Predictions), ntargets)
	}
	if !forces {
		return p, nil
	}
	data, d, err := readFloats(dp, "forces")
	if err != nil {
		return nil, err
	}
	if len(d) != 2 || int(d[1]) != 3*ntargets {
		return nil, fmt.Errorf("forces have dimensions %v, expected Nx%d", d, 3*ntargets)
	}
	natoms := int(d[0])
	for t := 0; t < ntargets; t++ {
		m := v3.Zeros(natoms)
		for i := 0; i < natoms; i++ {
			for j := 0; j < 3; j++ {
				m.Set(i, j, data[i*3*ntargets+3*t+j])
			}
		}
		p.Forces = append(p.Forces, m)
	}
	return p, nil
}

//WriteOutput writes out as a Fortnet output file. It is mostly useful to produce
//reference files, as Fortnet itself writes these.
func (S Store) WriteOutput(name string, out *fnet.Output) error {
	f, err := hdf5.CreateFile(name, hdf5.F_ACC_TRUNC)
	if err != nil {
		return Error{err.Error(), name, []string{"hdf5.CreateFile", "WriteOutput"}, true}
	}
	defer f.Close()
	if err := writeOutput(f, out); err != nil {
		return Error{err.Error(), name, []string{"WriteOutput"}, true}
	}
	return nil
}

func writeOutput(f *hdf5.File, out *fnet.Output) error {
	root, err := f.CreateGroup("fnetout")
	if err != nil {
		return err
	}
	defer root.Close()
	if err := writeStringAttr(root, "mode", out.Mode); err != nil {
		return err
	}
	output, err := root.CreateGroup("output")
	if err != nil {
		return err
	}
	defer output.Close()
	tforces := 0
	if out.HasForces {
		tforces = 1
	}
	for _, v := range []struct {
		name string
		val  int
	}{{"ndatapoints", len(out.Datapoints)}, {"ntargets", out.NTargets}, {"tforces", tforces}} {
		if err := writeIntAttr(output, v.name, v.val); err != nil {
			return err
		}
	}
	for i, p := range out.Datapoints {
		if err := writeOutputPoint(output, i+1, p, out.HasForces); err != nil {
			return fmt.Errorf("datapoint %d: %w", i+1, err)
		}
	}
	return nil
}

func writeOutputPoint(output *hdf5.Group, idx int, p *fnet.OutputPoint, forces bool) error {
	dp, err := output.CreateGroup(fmt.Sprintf("datapoint%d", idx))
	if err != nil {
		return err
	}
	defer dp.Close()
	if err := writeFloats(dp, "output", p.Predictions, uint(len(p.Predictions))); err != nil {
		return err
	}
	if !forces {
		return nil
	}
	if len(p.Forces) == 0 {
		return fmt.Errorf("forces requested but not given")
	}
	ntargets := len(p.Forces)
	natoms := p.Forces[0].NVecs()
	data := make([]float64, natoms*3*ntargets)
	for t, m := range p.Forces {
		if m.NVecs() != natoms {
			return fmt.Errorf("forces for target %d have %d atoms, expected %d", t+1, m.NVecs(), natoms)
		}
		for i := 0; i < natoms; i++ {
			for j := 0; j < 3; j++ {
				data[i*3*ntargets+3*t+j] = m.At(i, j)
			}
		}
	}
	return writeFloats(dp, "forces", data, uint(natoms), uint(3*ntargets))
}
