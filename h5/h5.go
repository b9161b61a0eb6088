/*
 * h5.go, part of gofnet.
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

//Package h5 reads and writes the HDF5 files Fortnet uses: the dataset
//given as input (fnetdata), the prediction output (fnetout) and the network
//status (netstat). It needs the HDF5 C library.
package h5

import (
	"fmt"
	"strings"

	"gonum.org/v1/hdf5"
)

//Store reads and writes Fortnet files from/to disk. It satisfies calc.Store.
type Store struct{}

//attributer is anything HDF5 attributes can be attached to, i.e. groups and datasets.
type attributer interface {
	CreateAttribute(name string, dtype *hdf5.Datatype, dspace *hdf5.Dataspace) (*hdf5.Attribute, error)
	OpenAttribute(name string) (*hdf5.Attribute, error)
}

func writeIntAttr(loc attributer, name string, v int) error {
	space, err := hdf5.CreateDataspace(hdf5.S_SCALAR)
	if err != nil {
		return err
	}
	defer space.Close()
	attr, err := loc.CreateAttribute(name, hdf5.T_NATIVE_INT32, space)
	if err != nil {
		return err
	}
	defer attr.Close()
	v32 := int32(v)
	return attr.Write(&v32, hdf5.T_NATIVE_INT32)
}

func writeFloatAttr(loc attributer, name string, v float64) error {
	space, err := hdf5.CreateDataspace(hdf5.S_SCALAR)
	if err != nil {
		return err
	}
	defer space.Close()
	attr, err := loc.CreateAttribute(name, hdf5.T_NATIVE_DOUBLE, space)
	if err != nil {
		return err
	}
	defer attr.Close()
	return attr.Write(&v, hdf5.T_NATIVE_DOUBLE)
}

//writeStringAttr writes a fixed-length string attribute, which is what
//Fortran programs (Fortnet included) write and expect.
func writeStringAttr(loc attributer, name, v string) error {
	if v == "" {
		v = " "
	}
	dt, err := hdf5.T_C_S1.Copy()
	if err != nil {
		return err
	}
	defer dt.Close()
	if err := dt.SetSize(len(v)); err != nil {
		return err
	}
	space, err := hdf5.CreateDataspace(hdf5.S_SCALAR)
	if err != nil {
		return err
	}
	defer space.Close()
	attr, err := loc.CreateAttribute(name, dt, space)
	if err != nil {
		return err
	}
	defer attr.Close()
	b := []byte(v)
	return attr.Write(&b[0], dt)
}

func readIntAttr(loc attributer, name string) (int, error) {
	attr, err := loc.OpenAttribute(name)
	if err != nil {
		return 0, err
	}
	defer attr.Close()
	var v int32
	if err := attr.Read(&v, hdf5.T_NATIVE_INT32); err != nil {
		return 0, err
	}
	return int(v), nil
}

//maxStrAttr is the longest fixed-length string attribute we read.
const maxStrAttr = 256

//readStringAttr reads a fixed-length string attribute, as written by Fortran programs.
//Padding is removed.
func readStringAttr(loc attributer, name string) (string, error) {
	attr, err := loc.OpenAttribute(name)
	if err != nil {
		return "", err
	}
	defer attr.Close()
	dt, err := hdf5.T_C_S1.Copy()
	if err != nil {
		return "", err
	}
	defer dt.Close()
	if err := dt.SetSize(maxStrAttr); err != nil {
		return "", err
	}
	var buf [maxStrAttr]byte
	if err := attr.Read(&buf, dt); err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.TrimRight(string(buf[:]), "\x00")), nil
}

type creator interface {
	CreateDataset(name string, dtype *hdf5.Datatype, dspace *hdf5.Dataspace) (*hdf5.Dataset, error)
}

//writeFloats writes data as a new dataset with the given dimensions.
func writeFloats(loc creator, name string, data []float64, dims ...uint) error {
	space, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return err
	}
	defer space.Close()
	ds, err := loc.CreateDataset(name, hdf5.T_NATIVE_DOUBLE, space)
	if err != nil {
		return err
	}
	defer ds.Close()
	return ds.Write(&data)
}

func writeInts(loc creator, name string, data []int, dims ...uint) error {
	d32 := make([]int32, len(data))
	for i, v := range data {
		d32[i] = int32(v)
	}
	space, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return err
	}
	defer space.Close()
	ds, err := loc.CreateDataset(name, hdf5.T_NATIVE_INT32, space)
	if err != nil {
		return err
	}
	defer ds.Close()
	return ds.Write(&d32)
}

type opener interface {
	OpenDataset(name string) (*hdf5.Dataset, error)
}

//dims returns the dimensions of ds and the total number of elements.
func dims(ds *hdf5.Dataset) ([]uint, int, error) {
	space := ds.Space()
	defer space.Close()
	d, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, 0, err
	}
	n := 1
	for _, v := range d {
		n *= int(v)
	}
	return d, n, nil
}

//readFloats reads a dataset of real numbers. The dataset must be double precision.
func readFloats(loc opener, name string) ([]float64, []uint, error) {
	ds, err := loc.OpenDataset(name)
	if err != nil {
		return nil, nil, err
	}
	defer ds.Close()
	d, n, err := dims(ds)
	if err != nil {
		return nil, nil, err
	}
	data := make([]float64, n)
	if err := ds.Read(&data); err != nil {
		return nil, nil, err
	}
	return data, d, nil
}

//readInts reads a dataset of 4- or 8-byte integers.
func readInts(loc opener, name string) ([]int, []uint, error) {
	ds, err := loc.OpenDataset(name)
	if err != nil {
		return nil, nil, err
	}
	defer ds.Close()
	d, n, err := dims(ds)
	if err != nil {
		return nil, nil, err
	}
	dt, err := ds.Datatype()
	if err != nil {
		return nil, nil, err
	}
	size := dt.Size()
	dt.Close()
	ret := make([]int, n)
	switch size {
	case 4:
		data := make([]int32, n)
		if err := ds.Read(&data); err != nil {
			return nil, nil, err
		}
		for i, v := range data {
			ret[i] = int(v)
		}
	case 8:
		data := make([]int64, n)
		if err := ds.Read(&data); err != nil {
			return nil, nil, err
		}
		for i, v := range data {
			ret[i] = int(v)
		}
	default:
		return nil, nil, fmt.Errorf("integers of %d bytes not supported", size)
	}
	return ret, d, nil
}

//Error is the error type for the h5 package.
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("hdf5 file %s error: %s", err.filename, err.message)
}

//Decorate Adds new information to the error
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//FileName returns the file associated to the error.
func (err Error) FileName() string { return err.filename }

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }
