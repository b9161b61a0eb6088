/*
 * plot_test.go, part of gofnet.
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

package fnetplot

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestSummary(Te *testing.T) {
	s, err := Summary([]float64{-3, -1, -5, -3})
	if err != nil {
		Te.Fatal(err)
	}
	if s.Min != -5 || s.MinIndex != 2 || s.Max != -1 || s.MaxIndex != 1 || s.Mean != -3 {
		Te.Errorf("unexpected summary %+v", s)
	}
	if math.Abs(s.StdDev-math.Sqrt(8.0/3.0)) > 1e-12 {
		Te.Errorf("standard deviation %g", s.StdDev)
	}
	if s, _ := Summary([]float64{2}); s.StdDev != 0 || s.Mean != 2 {
		Te.Errorf("single energy summary %+v", s)
	}
	if _, err := Summary(nil); err == nil {
		Te.Error("empty summary")
	} else if e, ok := err.(Error); !ok || !e.Critical() || e.Decorate("")[0] != "Summary" {
		Te.Errorf("unexpected error %v", err)
	}
}

func TestEnergyProfile(Te *testing.T) {
	r := Relative([]float64{-10, -12, -11})
	if r[0] != 2 || r[1] != 0 || r[2] != 1 {
		Te.Errorf("relative energies %v", r)
	}
	name := filepath.Join(Te.TempDir(), "profile.png")
	if err := EnergyProfile([]float64{-10, -12, -11, -10.5}, "Test profile", name); err != nil {
		Te.Fatal(err)
	}
	if info, err := os.Stat(name); err != nil || info.Size() == 0 {
		Te.Errorf("plot not written: %v", err)
	}
	if err := EnergyProfile(nil, "", name); err == nil {
		Te.Error("empty profile plotted")
	}
}
