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

/*Package calc obtains energies and forces from Fortnet neural networks.

A FortnetHandle writes the input (fortnet_in.hsd) and the dataset (fnetdata.hdf5)
for a set of geometries to a working directory, runs the fnet program there, and
reads its output (fnetout.hdf5), converting the results to eV and eV/A. The HDF5
files are handled by a Store, normally h5.Store.

A Calculator wraps a handle to act as the energy/force provider of a simulation
driver (a geometry optimizer or an MD integrator): it runs Fortnet only when the
geometry changed, or when a property not yet calculated is requested.

Predict and PredictParallel run batch predictions, the latter in several working
directories at the same time.

The network must be a Behler-Parrinello network trained on a single, global target
(the total energy, in Hartree), and, for forces, it must use only ACSF input features,
since Fortnet obtains forces by finite differences of the ACSF. See CheckBPNN.
*/
package calc
