/*
 * doc.go, part of gofnet.
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

/*Package fnet is the main package of the gofnet library. gofnet lets Go programs
use Fortnet, a Behler-Parrinello neural network implementation, as a calculator for
total energies and atomic forces.

The fnet package provides the atom, topology and geometry structures, reading and
writing of (extended, possibly compressed) XYZ files, the element table, and the unit
conversions Fortnet uses. The calc subpackage builds Fortnet inputs, runs the fnet
program and recovers its results; the hsd and h5 subpackages deal with Fortnet's
input and data formats.

Fortnet itself must be obtained independently (https://github.com/vanderhe/fortnet).

Coordinates, cells and forces are stored in v3.Matrix objects, where each row
of the matrix is one point (or vector) in space.
*/
package fnet
