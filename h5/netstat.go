/*
 * netstat.go, part of gofnet.
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
	"fmt"
	"strings"

	fnet "github.com/rmera/gofnet"
	"gonum.org/v1/hdf5"
)

//subnetName returns the name of the group holding the sub-network for the element
//with atomic number z, i.e. "o-subnetwork" for oxygen.
func subnetName(z int) (string, error) {
	sym, err := fnet.ZToSymbol(z)
	if err != nil {
		return "", err
	}
	return strings.ToLower(sym) + "-subnetwork", nil
}

//ReadNetstat reads the parts of a Fortnet netstat file needed to check
//whether the network can act as an energy/force calculator.
func (S Store) ReadNetstat(name string) (*fnet.Netstat, error) {
	f, err := hdf5.OpenFile(name, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"hdf5.OpenFile", "ReadNetstat"}, true}
	}
	defer f.Close()
	if !f.LinkExists("netstat") {
		return nil, Error{"no netstat group present", name, []string{"ReadNetstat"}, true}
	}
	ns := &fnet.Netstat{
		HasMapping:  f.LinkExists("netstat/mapping"),
		HasExternal: f.LinkExists("netstat/external"),
		HasBPNN:     f.LinkExists("netstat/bpnn"),
	}
	if !ns.HasBPNN {
		return ns, nil
	}
	if err := readBPNN(f, ns); err != nil {
		return nil, Error{err.Error(), name, []string{"ReadNetstat"}, true}
	}
	return ns, nil
}

func readBPNN(f *hdf5.File, ns *fnet.Netstat) error {
	bpnn, err := f.OpenGroup("netstat/bpnn")
	if err != nil {
		return err
	}
	defer bpnn.Close()
	if ns.TargetType, err = readStringAttr(bpnn, "targettype"); err != nil {
		return fmt.Errorf("targettype: %w", err)
	}
	if ns.AtomicNumbers, _, err = readInts(bpnn, "atomicnumbers"); err != nil {
		return fmt.Errorf("atomicnumbers: %w", err)
	}
	ns.Topologies = make(map[int][]int, len(ns.AtomicNumbers))
	for _, z := range ns.AtomicNumbers {
		sub, err := subnetName(z)
		if err != nil {
			return err
		}
		if !bpnn.LinkExists(sub) {
			return fmt.Errorf("no sub-network %s present", sub)
		}
		top, _, err := readInts(bpnn, sub+"/topology")
		if err != nil {
			return fmt.Errorf("%s: %w", sub, err)
		}
		ns.Topologies[z] = top
	}
	return nil
}

//WriteNetstat writes the parts of ns that ReadNetstat reads. The file is not a complete
//netstat file (it has no weights), and can only be used for testing.
func (S Store) WriteNetstat(name string, ns *fnet.Netstat) error {
	f, err := hdf5.CreateFile(name, hdf5.F_ACC_TRUNC)
	if err != nil {
		return Error{err.Error(), name, []string{"hdf5.CreateFile", "WriteNetstat"}, true}
	}
	defer f.Close()
	if err := writeNetstat(f, ns); err != nil {
		return Error{err.Error(), name, []string{"WriteNetstat"}, true}
	}
	return nil
}

func writeNetstat(f *hdf5.File, ns *fnet.Netstat) error {
	root, err := f.CreateGroup("netstat")
	if err != nil {
		return err
	}
	defer root.Close()
	for _, g := range []struct {
		name string
		ok   bool
	}{{"mapping", ns.HasMapping}, {"external", ns.HasExternal}} {
		if !g.ok {
			continue
		}
		grp, err := root.CreateGroup(g.name)
		if err != nil {
			return err
		}
		grp.Close()
	}
	if !ns.HasBPNN {
		return nil
	}
	bpnn, err := root.CreateGroup("bpnn")
	if err != nil {
		return err
	}
	defer bpnn.Close()
	if err := writeStringAttr(bpnn, "targettype", ns.TargetType); err != nil {
		return err
	}
	if err := writeInts(bpnn, "atomicnumbers", ns.AtomicNumbers, uint(len(ns.AtomicNumbers))); err != nil {
		return err
	}
	for _, z := range ns.AtomicNumbers {
		sub, err := subnetName(z)
		if err != nil {
			return err
		}
		grp, err := bpnn.CreateGroup(sub)
		if err != nil {
			return err
		}
		top := ns.Topologies[z]
		err = writeInts(grp, "topology", top, uint(len(top)))
		grp.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
