/*
 * h5_test.go, part of gofnet.
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
	"math"
	"path/filepath"
	"testing"

	fnet "github.com/rmera/gofnet"
	v3 "github.com/rmera/gofnet/v3"
)

func water(Te *testing.T) *fnet.Geometry {
	mol, err := fnet.XYZFileRead("../test/water.xyz")
	if err != nil {
		Te.Fatal(err)
	}
	g, err := mol.Frame(0)
	if err != nil {
		Te.Fatal(err)
	}
	return g
}

func TestDataset(Te *testing.T) {
	w := water(Te)
	si, err := fnet.XYZFileRead("../test/si2.xyz")
	if err != nil {
		Te.Fatal(err)
	}
	sig, _ := si.Frame(0)
	name := filepath.Join(Te.TempDir(), "fnetdata.hdf5")
	var S Store
	if err := S.WriteDataset(name, []*fnet.Geometry{w, sig}); err != nil {
		Te.Fatal(err)
	}
	geos, err := S.ReadDataset(name)
	if err != nil {
		Te.Fatal(err)
	}
	if len(geos) != 2 {
		Te.Fatalf("Expected 2 datapoints, got %d", len(geos))
	}
	if !geos[0].Coords.Equal(w.Coords, 1e-10) {
		Te.Errorf("Coordinates changed: %v %v", w.Coords, geos[0].Coords)
	}
	if geos[0].Atoms.Atom(0).Z != 8 || geos[0].Atoms.Atom(2).Z != 1 {
		Te.Error("Wrong atoms read back")
	}
	if geos[0].Periodic() {
		Te.Error("Water should not be periodic")
	}
	if !geos[1].Periodic() || !geos[1].Cell.Equal(sig.Cell, 1e-10) {
		Te.Errorf("Wrong cell read back: %v", geos[1].Cell)
	}
	if err := S.WriteDataset(name, nil); err == nil {
		Te.Error("An empty dataset should not be written")
	}
}

func TestOutput(Te *testing.T) {
	f1, _ := v3.NewMatrix([]float64{0, 0, 0.1, 0, 0.2, -0.05, 0, -0.2, -0.05})
	f2, _ := v3.NewMatrix([]float64{0, 0, 1, 0, 2, 3, 4, 5, 6})
	out := &fnet.Output{
		Mode:      "predict",
		NTargets:  2,
		HasForces: true,
		Datapoints: []*fnet.OutputPoint{
			{Predictions: []float64{-76.4, 3}, Forces: []*v3.Matrix{f1, f2}},
		},
	}
	name := filepath.Join(Te.TempDir(), "fnetout.hdf5")
	var S Store
	if err := S.WriteOutput(name, out); err != nil {
		Te.Fatal(err)
	}
	back, err := S.ReadOutput(name)
	if err != nil {
		Te.Fatal(err)
	}
	if back.Mode != "predict" || back.NTargets != 2 || !back.HasForces {
		Te.Errorf("Wrong header read back: %+v", back)
	}
	p := back.Datapoints[0]
	if math.Abs(p.Predictions[0]+76.4) > 1e-12 || p.Predictions[1] != 3 {
		Te.Errorf("Wrong predictions: %v", p.Predictions)
	}
	if !p.Forces[0].Equal(f1, 0) || !p.Forces[1].Equal(f2, 0) {
		Te.Errorf("Wrong forces: %v %v", p.Forces[0], p.Forces[1])
	}
}

func TestNetstat(Te *testing.T) {
	ns := &fnet.Netstat{
		HasBPNN:       true,
		TargetType:    "global",
		AtomicNumbers: []int{1, 8},
		Topologies:    map[int][]int{1: {10, 5, 1}, 8: {10, 5, 1}},
		HasMapping:    true,
	}
	name := filepath.Join(Te.TempDir(), "fortnet.hdf5")
	var S Store
	if err := S.WriteNetstat(name, ns); err != nil {
		Te.Fatal(err)
	}
	back, err := S.ReadNetstat(name)
	if err != nil {
		Te.Fatal(err)
	}
	if !back.HasBPNN || !back.HasMapping || back.HasExternal {
		Te.Errorf("Wrong groups read back: %+v", back)
	}
	if back.TargetType != "global" {
		Te.Errorf("Wrong target type %q", back.TargetType)
	}
	if len(back.Topologies[8]) != 3 || back.Topologies[8][2] != 1 {
		Te.Errorf("Wrong topology: %v", back.Topologies)
	}
	if _, err := S.ReadNetstat(filepath.Join(Te.TempDir(), "nothere.hdf5")); err == nil {
		Te.Error("Reading a missing file should fail")
	}
}
