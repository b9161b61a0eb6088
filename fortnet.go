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

package fnet

import v3 "github.com/rmera/gofnet/v3"

//Netstat is the information from a Fortnet network status (netstat) file
//that is needed to decide whether a network can be used as a calculator.
type Netstat struct {
	//TargetType is "global" for networks trained on system-wide properties, "atomic" otherwise.
	//Empty if the file has no BPNN information.
	TargetType    string
	AtomicNumbers []int
	//Topologies maps each atomic number to the layer sizes of its sub-network.
	Topologies map[int][]int
	//HasBPNN is false if the file contains no Behler-Parrinello network.
	HasBPNN     bool
	HasMapping  bool //ACSF input features are present.
	HasExternal bool //external atomic input features are present.
}

//Output is the content of a Fortnet output (fnetout) file. All values are
//in the units the network was trained on, assumed to be atomic units.
type Output struct {
	Mode       string
	NTargets   int
	HasForces  bool
	Datapoints []*OutputPoint
}

//OutputPoint holds the results for one datapoint (geometry) of a Fortnet run.
type OutputPoint struct {
	//Predictions has one element per (global) target.
	Predictions []float64
	//Forces has one Nx3 matrix per target, or is nil if forces were not calculated.
	Forces []*v3.Matrix
}
