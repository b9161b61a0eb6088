/*
 * plot.go, part of gofnet.
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

//Package fnetplot produces plots and summaries of the energies
//predicted for a set of geometries, usually the frames of a trajectory.
package fnetplot

import (
	"image/color"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

//Stats summarizes a set of energies.
type Stats struct {
	Min, Max float64
	MinIndex int
	MaxIndex int
	Mean     float64
	StdDev   float64
}

//Summary returns the statistics of energies, which must not be empty.
func Summary(energies []float64) (Stats, error) {
	var s Stats
	if len(energies) == 0 {
		return s, Error{"No energies given", []string{"Summary"}, true}
	}
	s.MinIndex = floats.MinIdx(energies)
	s.MaxIndex = floats.MaxIdx(energies)
	s.Min = energies[s.MinIndex]
	s.Max = energies[s.MaxIndex]
	if len(energies) == 1 {
		s.Mean = energies[0]
		return s, nil
	}
	s.Mean, s.StdDev = stat.MeanStdDev(energies, nil)
	return s, nil
}

//Relative returns the energies relative to the lowest one.
func Relative(energies []float64) []float64 {
	ret := make([]float64, len(energies))
	if len(energies) == 0 {
		return ret
	}
	copy(ret, energies)
	floats.AddConst(-floats.Min(energies), ret)
	return ret
}

//EnergyProfile plots the energies (eV) relative to the minimum, vs. the frame index,
//and saves the plot to filename. The format is taken from the extension (png, svg, pdf...).
func EnergyProfile(energies []float64, title, filename string) error {
	if len(energies) == 0 {
		return Error{"No energies given", []string{"EnergyProfile"}, true}
	}
	rel := Relative(energies)
	pts := make(plotter.XYs, len(rel))
	for i, e := range rel {
		pts[i].X = float64(i + 1)
		pts[i].Y = e
	}
	p := plot.New()
	p.Title.Text = title
	p.Title.Padding = 3 * vg.Millimeter
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Relative energy (eV)"
	p.Add(plotter.NewGrid())
	line, err := plotter.NewLine(pts)
	if err != nil {
		return Error{err.Error(), []string{"plotter.NewLine", "EnergyProfile"}, true}
	}
	line.Color = color.RGBA{B: 200, A: 255}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return Error{err.Error(), []string{"plotter.NewScatter", "EnergyProfile"}, true}
	}
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Color = color.RGBA{R: 200, A: 255}
	p.Add(line, sc)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return Error{err.Error(), []string{"plot.Save", "EnergyProfile"}, true}
	}
	return nil
}

//Error is the error type for the fnetplot package.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err Error) Error() string { return err.message }

//Decorate adds dec to the decoration of the error and returns the decoration.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the error is critical.
func (err Error) Critical() bool { return err.critical }
