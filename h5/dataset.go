/*
 * dataset.go, part of gofnet.
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
	"gonum.org/v1/hdf5"
)

//WriteDataset writes a Fortnet dataset file with one datapoint per geometry and no
//training targets, i.e. a dataset suitable only for predictions. Coordinates
//and lattice vectors are converted from Angstrom to Bohr.
func (S Store) WriteDataset(name string, geoms []*fnet.Geometry) error {
	if len(geoms) == 0 {
		return Error{"no geometries to write", name, []string{"WriteDataset"}, true}
	}
	for i, g := range geoms {
		if err := g.Corrupted(); err != nil {
			return Error{fmt.Sprintf("geometry %d: %s", i, err.Error()), name, []string{"WriteDataset"}, true}
		}
	}
	f, err := hdf5.CreateFile(name, hdf5.F_ACC_TRUNC)
	if err != nil {
		return Error{err.Error(), name, []string{"hdf5.CreateFile", "WriteDataset"}, true}
	}
	defer f.Close()
	if err := writeDataset(f, geoms); err != nil {
		return Error{err.Error(), name, []string{"WriteDataset"}, true}
	}
	return nil
}

func writeDataset(f *hdf5.File, geoms []*fnet.Geometry) error {
	root, err := f.CreateGroup("fnetdata")
	if err != nil {
		return err
	}
	defer root.Close()
	dataset, err := root.CreateGroup("dataset")
	if err != nil {
		return err
	}
	defer dataset.Close()
	for _, v := range []struct {
		name string
		val  int
	}{{"ndatapoints", len(geoms)}, {"nextfeatures", 0}, {"withstructures", 1}} {
		if err := writeIntAttr(dataset, v.name, v.val); err != nil {
			return err
		}
	}
	training, err := dataset.CreateGroup("training")
	if err != nil {
		return err
	}
	if err := writeIntAttr(training, "ntargets", 0); err != nil {
		training.Close()
		return err
	}
	if err := writeIntAttr(training, "atomic", 0); err != nil {
		training.Close()
		return err
	}
	training.Close()
	for i, g := range geoms {
		if err := writeDatapoint(dataset, i+1, g); err != nil {
			return fmt.Errorf("datapoint %d: %w", i+1, err)
		}
	}
	return nil
}

func writeDatapoint(dataset *hdf5.Group, idx int, g *fnet.Geometry) error {
	dp, err := dataset.CreateGroup(fmt.Sprintf("datapoint%d", idx))
	if err != nil {
		return err
	}
	defer dp.Close()
	if err := writeFloatAttr(dp, "weight", 1); err != nil {
		return err
	}
	geo, err := dp.CreateGroup("geometry")
	if err != nil {
		return err
	}
	defer geo.Close()
	localtypes, species := fnet.SpeciesIndex(g.Atoms)
	natoms := g.Atoms.Len()
	periodic := 0
	if g.Periodic() {
		periodic = 1
	}
	for _, v := range []struct {
		name string
		val  int
	}{{"natoms", natoms}, {"ntypes", len(species)}, {"periodic", periodic}, {"fractional", 0}} {
		if err := writeIntAttr(geo, v.name, v.val); err != nil {
			return err
		}
	}
	if err := writeInts(geo, "atomicnumbers", species, uint(len(species))); err != nil {
		return err
	}
	if err := writeInts(geo, "localtypes", localtypes, uint(natoms)); err != nil {
		return err
	}
	coords := make([]float64, 0, natoms*3)
	for i := 0; i < natoms; i++ {
		for j := 0; j < 3; j++ {
			coords = append(coords, g.Coords.At(i, j)*fnet.A2Bohr)
		}
	}
	if err := writeFloats(geo, "coords", coords, uint(natoms), 3); err != nil {
		return err
	}
	if periodic == 0 {
		return nil
	}
	basis := make([]float64, 0, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			basis = append(basis, g.Cell.At(i, j)*fnet.A2Bohr)
		}
	}
	return writeFloats(geo, "basis", basis, 3, 3)
}

//ReadDataset reads back the geometries of a dataset written by WriteDataset.
//Coordinates and lattice vectors are returned in Angstrom.
func (S Store) ReadDataset(name string) ([]*fnet.Geometry, error) {
	f, err := hdf5.OpenFile(name, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"hdf5.OpenFile", "ReadDataset"}, true}
	}
	defer f.Close()
	dataset, err := f.OpenGroup("fnetdata/dataset")
	if err != nil {
		return nil, Error{err.Error(), name, []string{"ReadDataset"}, true}
	}
	defer dataset.Close()
	n, err := readIntAttr(dataset, "ndatapoints")
	if err != nil {
		return nil, Error{"ndatapoints: " + err.Error(), name, []string{"ReadDataset"}, true}
	}
	ret := make([]*fnet.Geometry, 0, n)
	for i := 1; i <= n; i++ {
		g, err := readDatapoint(dataset, i)
		if err != nil {
			return nil, Error{fmt.Sprintf("datapoint %d: %s", i, err.Error()), name, []string{"ReadDataset"}, true}
		}
		ret = append(ret, g)
	}
	return ret, nil
}

func readDatapoint(dataset *hdf5.Group, idx int) (*fnet.Geometry, error) {
	geo, err := dataset.OpenGroup(fmt.Sprintf("datapoint%d/geometry", idx))
	if err != nil {
		return nil, err
	}
	defer geo.Close()
	species, _, err := readInts(geo, "atomicnumbers")
	if err != nil {
		return nil, err
	}
	localtypes, _, err := readInts(geo, "localtypes")
	if err != nil {
		return nil, err
	}
	top := &fnet.Topology{Atoms: make([]*fnet.Atom, len(localtypes))}
	for i, t := range localtypes {
		if t < 1 || t > len(species) {
			return nil, fmt.Errorf("atom %d has type %d, but there are %d types", i+1, t, len(species))
		}
		sym, err := fnet.ZToSymbol(species[t-1])
		if err != nil {
			return nil, err
		}
		top.Atoms[i] = &fnet.Atom{Name: sym, Symbol: sym, Z: species[t-1]}
	}
	g := &fnet.Geometry{Atoms: top}
	if g.Coords, err = readMatrix(geo, "coords", fnet.Bohr2A); err != nil {
		return nil, err
	}
	periodic, err := readIntAttr(geo, "periodic")
	if err != nil {
		return nil, err
	}
	if periodic != 0 {
		g.PBC = [3]bool{true, true, true}
		if g.Cell, err = readMatrix(geo, "basis", fnet.Bohr2A); err != nil {
			return nil, err
		}
	}
	return g, g.Corrupted()
}
