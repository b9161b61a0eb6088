/*
 * atomicdata.go, part of gofnet.
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
	"strings"
)

//Element symbols, indexed by atomic number minus one.
var elementSymbols = [...]string{
	"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar", "K", "Ca",
	"Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr", "Rb", "Sr", "Y", "Zr",
	"Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn",
	"Sb", "Te", "I", "Xe", "Cs", "Ba", "La", "Ce", "Pr", "Nd",
	"Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb",
	"Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn", "Fr", "Ra", "Ac", "Th",
	"Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm",
	"Md", "No", "Lr", "Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds",
	"Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

//lowercase symbol -> atomic number. Filled by init.
var symbolZ = make(map[string]int, len(elementSymbols))

func init() {
	for i, s := range elementSymbols {
		symbolZ[strings.ToLower(s)] = i + 1
	}
}

//SymbolToZ returns the atomic number for the element symbol sym.
//The lookup is case-insensitive, so "CL", "cl" and "Cl" are all chlorine.
func SymbolToZ(sym string) (int, error) {
	z, ok := symbolZ[strings.ToLower(strings.TrimSpace(sym))]
	if !ok {
		return 0, CError{fmt.Sprintf("Unknown element symbol %q", sym), []string{"SymbolToZ"}, true}
	}
	return z, nil
}

//ZToSymbol returns the element symbol for the atomic number z.
func ZToSymbol(z int) (string, error) {
	if z < 1 || z > len(elementSymbols) {
		return "", CError{fmt.Sprintf("Atomic number %d out of range", z), []string{"ZToSymbol"}, true}
	}
	return elementSymbols[z-1], nil
}
