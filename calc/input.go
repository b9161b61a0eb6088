/*
 * input.go, part of gofnet.
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

package calc

import (
	"fmt"
	"strings"

	fnet "github.com/rmera/gofnet"
	"github.com/rmera/gofnet/hsd"
)

//FortnetInput returns the HSD input for a Fortnet prediction run with the network in
//netstat, on the dataset DatasetFile. If forces is true, forces are obtained by central
//finite differences with a coordinate shift of delta Bohr, which must be positive.
func FortnetInput(netstat string, delta float64, forces bool) (*hsd.Node, error) {
	root := hsd.NewBlock("")
	root.Add(
		hsd.NewBlock("Options",
			hsd.NewValue("Mode", "predict"),
			hsd.NewValue("ReadNetStats", true),
			hsd.NewValue("WriteIterationTrajectory", false)),
		hsd.NewBlock("Data",
			hsd.NewValue("Dataset", DatasetFile),
			hsd.NewValue("NetstatFile", netstat)),
	)
	if !forces {
		return root, nil
	}
	if delta <= 0 {
		return nil, Error{ErrBadOptions, Fortnet, "", fmt.Sprintf("Finite difference delta %g. Must be positive.", delta), []string{"FortnetInput"}, true}
	}
	root.Add(hsd.NewBlock("Analysis",
		hsd.NewBlock("Forces",
			hsd.NewBlock("FiniteDifferences",
				hsd.NewValue("Delta", delta)))))
	return root, nil
}

//CheckBPNN checks that the network described by ns can act as a calculator, i.e., it
//is a Behler-Parrinello network trained on a single global property. If forces are
//requested, the network must use only ACSF input features.
func CheckBPNN(ns *fnet.Netstat, forces bool) error {
	bad := func(msg string) error {
		return Error{ErrBadNetstat, Fortnet, "", msg, []string{"CheckBPNN"}, true}
	}
	if ns == nil || !ns.HasBPNN {
		return bad("No network group/information present.")
	}
	if strings.ToLower(strings.TrimSpace(ns.TargetType)) != "global" {
		return bad("Only networks trained on global properties supported.")
	}
	for _, z := range ns.AtomicNumbers {
		top := ns.Topologies[z]
		if len(top) == 0 || top[len(top)-1] != 1 {
			sym, _ := fnet.ZToSymbol(z)
			return bad(fmt.Sprintf("Only networks trained on a single global property are supported (%s sub-network: %v).", sym, top))
		}
	}
	if forces && !ns.HasMapping {
		return bad("Calculation of forces is only supported in combination with ACSF input features.")
	}
	if forces && ns.HasExternal {
		return bad("Calculation of forces is only supported for purely ACSF based input features.")
	}
	return nil
}
