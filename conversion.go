/*
 * conversion.go, part of gofnet.
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

//Conversion factors. These are the values used by Fortnet itself
//(from its DFTB+ constants module), so energies and forces round-trip exactly.
const (
	Bohr2A = 0.529177249
	A2Bohr = 1.0 / Bohr2A
	H2EV   = 27.2113845 //Hartree to eV
	EV2H   = 1.0 / H2EV
)

//Hartree/Bohr to eV/Angstrom
const HB2EVA = H2EV / Bohr2A
