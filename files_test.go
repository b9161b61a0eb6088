/*
 * files_test.go, part of gofnet.
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
	"bytes"
	"compress/gzip"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	v3 "github.com/rmera/gofnet/v3"
)

func TestXYZIO(Te *testing.T) {
	mol, err := XYZFileRead("test/water.xyz")
	if err != nil {
		Te.Fatal(err)
	}
	if mol.Len() != 3 || mol.NFrames() != 1 {
		Te.Fatalf("Expected 3 atoms and 1 frame, got %d and %d", mol.Len(), mol.NFrames())
	}
	if mol.Atom(0).Z != 8 || mol.Atom(1).Symbol != "H" {
		Te.Errorf("Wrong atoms read: %v %v", mol.Atom(0), mol.Atom(1))
	}
	if math.Abs(mol.Coords[0].At(1, 1)-0.763239) > 1e-9 {
		Te.Errorf("Wrong coordinate read: %f", mol.Coords[0].At(1, 1))
	}
	if mol.Cell != nil || mol.PBC != [3]bool{} {
		Te.Error("A plain xyz file should give a non-periodic molecule")
	}
	name := filepath.Join(Te.TempDir(), "waterIO.xyz")
	if err := XYZFileWrite(name, mol.Coords[0], mol); err != nil {
		Te.Fatal(err)
	}
	mol2, err := XYZFileRead(name)
	if err != nil {
		Te.Fatal(err)
	}
	if !mol2.Coords[0].Equal(mol.Coords[0], 1e-6) {
		Te.Errorf("Coordinates changed after writing and reading: %v %v", mol.Coords[0], mol2.Coords[0])
	}
}

func TestMultiXYZ(Te *testing.T) {
	mol, err := XYZFileRead("test/watertraj.xyz")
	if err != nil {
		Te.Fatal(err)
	}
	if mol.NFrames() != 3 {
		Te.Fatalf("Expected 3 frames, got %d", mol.NFrames())
	}
	geos, err := mol.Frames()
	if err != nil {
		Te.Fatal(err)
	}
	if geos[2].Coords.At(1, 1) != 0.78 {
		Te.Errorf("Wrong coordinate in the last frame: %f", geos[2].Coords.At(1, 1))
	}
	if _, err := mol.Frame(3); err == nil {
		Te.Error("Frame out of range should fail")
	}
}

func TestXYZMismatchedFrames(Te *testing.T) {
	data := "1\n\nO 0 0 0\n1\n\nH 0 0 0\n"
	if _, err := XYZRead(strings.NewReader(data)); err == nil {
		Te.Error("Frames with different atoms should fail")
	}
	if _, err := XYZRead(strings.NewReader("")); err == nil {
		Te.Error("An empty file should fail")
	}
	if _, err := XYZRead(strings.NewReader("2\n\nO 0 0 0\n")); err == nil {
		Te.Error("A truncated frame should fail")
	}
	if _, err := XYZRead(strings.NewReader("1\n\nXx 0 0 0\n")); err == nil {
		Te.Error("An unknown element should fail")
	}
}

func TestExtXYZ(Te *testing.T) {
	mol, err := XYZFileRead("test/si2.xyz")
	if err != nil {
		Te.Fatal(err)
	}
	if mol.PBC != [3]bool{true, true, true} {
		Te.Errorf("Wrong pbc: %v", mol.PBC)
	}
	if mol.Cell == nil || mol.Cell.At(0, 1) != 2.715 || mol.Cell.At(2, 2) != 0 {
		Te.Errorf("Wrong cell: %v", mol.Cell)
	}
	g, err := mol.Frame(0)
	if err != nil {
		Te.Fatal(err)
	}
	if !g.Periodic() {
		Te.Error("The geometry should be periodic")
	}
	//a lattice with no pbc key means fully periodic, a partial pbc is kept.
	data := "1\nLattice=\"5 0 0 0 5 0 0 0 5\"\nAr 0 0 0\n"
	mol, err = XYZRead(strings.NewReader(data))
	if err != nil {
		Te.Fatal(err)
	}
	if mol.PBC != [3]bool{true, true, true} {
		Te.Errorf("Wrong pbc with no pbc key: %v", mol.PBC)
	}
	data = "1\npbc=\"T T F\" Lattice=\"5 0 0 0 5 0 0 0 20\"\nAr 0 0 0\n"
	mol, err = XYZRead(strings.NewReader(data))
	if err != nil {
		Te.Fatal(err)
	}
	if mol.PBC != [3]bool{true, true, false} {
		Te.Errorf("Wrong slab pbc: %v", mol.PBC)
	}
	if _, err := XYZRead(strings.NewReader("1\nLattice=\"5 0 0\"\nAr 0 0 0\n")); err == nil {
		Te.Error("A lattice with 3 numbers should fail")
	}
}

func TestCompressedXYZ(Te *testing.T) {
	plain, err := os.ReadFile("test/watertraj.xyz")
	if err != nil {
		Te.Fatal(err)
	}
	dir := Te.TempDir()
	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	gw.Write(plain)
	gw.Close()
	gzname := filepath.Join(dir, "watertraj.xyz.gz")
	if err := os.WriteFile(gzname, gz.Bytes(), 0644); err != nil {
		Te.Fatal(err)
	}
	var zs bytes.Buffer
	zw, err := zstd.NewWriter(&zs)
	if err != nil {
		Te.Fatal(err)
	}
	zw.Write(plain)
	zw.Close()
	zstname := filepath.Join(dir, "watertraj.xyz.zst")
	if err := os.WriteFile(zstname, zs.Bytes(), 0644); err != nil {
		Te.Fatal(err)
	}
	for _, name := range []string{gzname, zstname} {
		mol, err := XYZFileRead(name)
		if err != nil {
			Te.Fatal(err)
		}
		if mol.NFrames() != 3 {
			Te.Errorf("%s: expected 3 frames, got %d", name, mol.NFrames())
		}
	}
}

//Damaged compressed files must give an error, not a shorter trajectory.
func TestCorruptedCompressedXYZ(Te *testing.T) {
	plain, err := os.ReadFile("test/watertraj.xyz")
	if err != nil {
		Te.Fatal(err)
	}
	dir := Te.TempDir()
	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	gw.Write(plain)
	gw.Close()
	good := gz.Bytes()
	badcrc := append([]byte(nil), good...)
	badcrc[len(badcrc)-8] ^= 0xff //the CRC32 is the first half of the 8-byte trailer
	var zs bytes.Buffer
	zw, err := zstd.NewWriter(&zs)
	if err != nil {
		Te.Fatal(err)
	}
	zw.Write(plain)
	zw.Close()
	files := map[string][]byte{
		"badcrc.xyz.gz":     badcrc,
		"notrailer.xyz.gz":  good[:len(good)-8],
		"truncated.xyz.zst": zs.Bytes()[:zs.Len()/2],
	}
	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			Te.Fatal(err)
		}
		mol, err := XYZFileRead(path)
		if err == nil {
			Te.Errorf("%s: damaged file read without error (%d frames)", name, mol.NFrames())
		}
	}
}

func TestElements(Te *testing.T) {
	for sym, z := range map[string]int{"H": 1, "cl": 17, "SI": 14, "Og": 118, " O ": 8} {
		got, err := SymbolToZ(sym)
		if err != nil || got != z {
			Te.Errorf("SymbolToZ(%q)=%d, %v, expected %d", sym, got, err, z)
		}
	}
	if s, _ := ZToSymbol(26); s != "Fe" {
		Te.Errorf("ZToSymbol(26)=%s", s)
	}
	if _, err := ZToSymbol(0); err == nil {
		Te.Error("ZToSymbol(0) should fail")
	}
	if _, err := ZToSymbol(119); err == nil {
		Te.Error("ZToSymbol(119) should fail")
	}
}

func TestSpecies(Te *testing.T) {
	top, err := NewTopology("O", "H", "H", "C")
	if err != nil {
		Te.Fatal(err)
	}
	idx, species := SpeciesIndex(top)
	if len(species) != 3 || species[0] != 1 || species[1] != 6 || species[2] != 8 {
		Te.Errorf("Wrong species: %v", species)
	}
	expected := []int{3, 1, 1, 2}
	for i, v := range expected {
		if idx[i] != v {
			Te.Errorf("Wrong species index for atom %d: %d, expected %d", i, idx[i], v)
		}
	}
	if _, err := NewTopology("O", "Qq"); err == nil {
		Te.Error("Unknown symbols should fail")
	}
}

func TestGeometryCorrupted(Te *testing.T) {
	top, _ := NewTopology("O", "H", "H")
	g := &Geometry{Atoms: top, Coords: v3.Zeros(3)}
	if err := g.Corrupted(); err != nil {
		Te.Error(err)
	}
	g.Coords = v3.Zeros(2)
	if err := g.Corrupted(); err == nil {
		Te.Error("Mismatched coordinates should be detected")
	}
	g.Coords = v3.Zeros(3)
	g.PBC = [3]bool{true, false, false}
	if err := g.Corrupted(); err == nil {
		Te.Error("A periodic geometry without cell should be detected")
	}
	g.Cell = v3.Zeros(3)
	if err := g.Corrupted(); err != nil {
		Te.Error(err)
	}
	c := g.Copy()
	c.Coords.Set(0, 0, 1)
	if g.Coords.At(0, 0) != 0 {
		Te.Error("Copy should not share coordinates")
	}
}
