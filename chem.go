/*
 * chem.go, part of gofnet.
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

package fnet

import (
	"fmt"
	"sort"

	v3 "github.com/rmera/gofnet/v3"
)

//Atom contains the per-atom information that doesn't change with the geometry.
type Atom struct {
	Name   string
	Symbol string
	Z      int //atomic number
}

//Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	ret := *A
	return &ret
}

/*****Topology type***/

//Topology contains information about a system which is not expected to change in time (i.e. everything except for coordinates and cell).
type Topology struct {
	Atoms []*Atom
}

//NewTopology returns a topology with an atom for each of the given element symbols.
func NewTopology(symbols ...string) (*Topology, error) {
	ats := make([]*Atom, 0, len(symbols))
	for _, s := range symbols {
		z, err := SymbolToZ(s)
		if err != nil {
			return nil, errDecorate(err, "NewTopology")
		}
		sym, _ := ZToSymbol(z)
		ats = append(ats, &Atom{Name: sym, Symbol: sym, Z: z})
	}
	return &Topology{Atoms: ats}, nil
}

//Atom returns the Atom corresponding to the index i
//of the Atom slice in the Topology. Panics if
//out of range.
func (T *Topology) Atom(i int) *Atom {
	if i >= T.Len() {
		panic("Topology: Requested Atom out of bounds")
	}
	return T.Atoms[i]
}

//Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

//AtomicNumbers returns the atomic number of each atom in the topology.
func AtomicNumbers(T Atomer) []int {
	ret := make([]int, T.Len())
	for i := range ret {
		ret[i] = T.Atom(i).Z
	}
	return ret
}

//Species returns the sorted, unique atomic numbers present in T.
func Species(T Atomer) []int {
	seen := make(map[int]bool)
	ret := make([]int, 0, 4)
	for i := 0; i < T.Len(); i++ {
		z := T.Atom(i).Z
		if !seen[z] {
			seen[z] = true
			ret = append(ret, z)
		}
	}
	sort.Ints(ret)
	return ret
}

//SpeciesIndex returns, for each atom in T, the 1-based index of its element in
//Species(T), together with Species(T) itself.
func SpeciesIndex(T Atomer) ([]int, []int) {
	species := Species(T)
	pos := make(map[int]int, len(species))
	for i, z := range species {
		pos[z] = i + 1
	}
	ret := make([]int, T.Len())
	for i := range ret {
		ret[i] = pos[T.Atom(i).Z]
	}
	return ret, species
}

/**Type Geometry**/

//Geometry is one configuration of a system: atoms, cartesian coordinates (A),
//and, for periodic systems, the lattice vectors (A, one per row of Cell).
type Geometry struct {
	Atoms  Atomer
	Coords *v3.Matrix
	Cell   *v3.Matrix
	PBC    [3]bool
}

//Periodic returns true if the geometry is periodic in any direction.
func (G *Geometry) Periodic() bool {
	return G.PBC[0] || G.PBC[1] || G.PBC[2]
}

//Corrupted returns an error if the geometry is not self-consistent.
func (G *Geometry) Corrupted() error {
	if G == nil || G.Atoms == nil || G.Coords == nil {
		return CError{"Geometry with nil atoms or coordinates", []string{"Corrupted"}, true}
	}
	r, c := G.Coords.Dims()
	if r != G.Atoms.Len() || c != 3 {
		return CError{fmt.Sprintf("Coordinates are %dx%d but there are %d atoms", r, c, G.Atoms.Len()), []string{"Corrupted"}, true}
	}
	for i := 0; i < G.Atoms.Len(); i++ {
		if G.Atoms.Atom(i).Z < 1 {
			return CError{fmt.Sprintf("Atom %d has no atomic number", i), []string{"Corrupted"}, true}
		}
	}
	if G.Periodic() {
		if G.Cell == nil {
			return CError{"Periodic geometry without lattice vectors", []string{"Corrupted"}, true}
		}
		if r, c := G.Cell.Dims(); r != 3 || c != 3 {
			return CError{fmt.Sprintf("Lattice vectors are %dx%d, need 3x3", r, c), []string{"Corrupted"}, true}
		}
	}
	return nil
}

//Copy returns a copy of the geometry. Coordinates and cell are deep-copied,
//the topology is shared.
func (G *Geometry) Copy() *Geometry {
	ret := &Geometry{Atoms: G.Atoms, PBC: G.PBC}
	if G.Coords != nil {
		ret.Coords = G.Coords.Clone()
	}
	if G.Cell != nil {
		ret.Cell = G.Cell.Clone()
	}
	return ret
}

/**Type Molecule**/

//Molecule contains a topology and one or more sets of coordinates (frames).
//All frames share the cell and periodicity.
type Molecule struct {
	*Topology
	Coords []*v3.Matrix
	Cell   *v3.Matrix
	PBC    [3]bool
}

//NewMolecule makes a molecule with the topology ats and the frames coords. It returns
//error if the frames don't match the number of atoms.
func NewMolecule(coords []*v3.Matrix, ats *Topology) (*Molecule, error) {
	if ats == nil {
		return nil, CError{"Supplied a nil Topology", []string{"NewMolecule"}, true}
	}
	mol := &Molecule{Topology: ats, Coords: coords}
	if err := mol.Corrupted(); err != nil {
		return nil, errDecorate(err, "NewMolecule")
	}
	return mol, nil
}

//NFrames returns the number of frames in the molecule.
func (M *Molecule) NFrames() int {
	return len(M.Coords)
}

//Corrupted checks whether the molecule is consistent.
func (M *Molecule) Corrupted() error {
	for i, c := range M.Coords {
		if c == nil {
			return CError{fmt.Sprintf("Frame %d is nil", i), []string{"Corrupted"}, true}
		}
		if r, cols := c.Dims(); r != M.Len() || cols != 3 {
			return CError{fmt.Sprintf("Frame %d is %dx%d, but there are %d atoms", i, r, cols, M.Len()), []string{"Corrupted"}, true}
		}
	}
	return nil
}

//Frame returns the geometry for the ith frame. The coordinates are not copied.
func (M *Molecule) Frame(i int) (*Geometry, error) {
	if i < 0 || i >= len(M.Coords) {
		return nil, CError{fmt.Sprintf("Frame %d requested but there are %d", i, len(M.Coords)), []string{"Frame"}, true}
	}
	g := &Geometry{Atoms: M.Topology, Coords: M.Coords[i], Cell: M.Cell, PBC: M.PBC}
	if err := g.Corrupted(); err != nil {
		return nil, errDecorate(err, "Frame")
	}
	return g, nil
}

//Frames returns all the frames of M as geometries.
func (M *Molecule) Frames() ([]*Geometry, error) {
	ret := make([]*Geometry, 0, len(M.Coords))
	for i := range M.Coords {
		g, err := M.Frame(i)
		if err != nil {
			return nil, errDecorate(err, "Frames")
		}
		ret = append(ret, g)
	}
	return ret, nil
}
