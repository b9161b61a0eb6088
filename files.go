/*
 * files.go, part of gofnet.
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
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	v3 "github.com/rmera/gofnet/v3"
)

//*zstd.Decoder has a Close method that doesn't return an error,
//so it doesn't implement io.ReadCloser.
type zstdql struct {
	*zstd.Decoder
}

//Close Closes the object. It can not be used after this call
func (z zstdql) Close() error {
	z.Decoder.Close()
	return nil
}

//prepSource opens fname and returns a reader that decompresses the data if needed,
//depending on the file extension: .gz for gzip, .zst or .zstd for zstd, anything else
//is read as is. Both the returned reader and the file need to be closed.
func prepSource(fname string) (io.ReadCloser, *os.File, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, nil, CError{err.Error(), []string{"os.Open", "prepSource"}, true}
	}
	reader := bufio.NewReader(f)
	var ret io.ReadCloser
	lower := strings.ToLower(fname)
	switch {
	case strings.HasSuffix(lower, ".gz"):
		ret, err = gzip.NewReader(reader)
	case strings.HasSuffix(lower, ".zst"), strings.HasSuffix(lower, ".zstd"):
		var d *zstd.Decoder
		d, err = zstd.NewReader(reader)
		if err == nil {
			ret = zstdql{d}
		}
	default:
		ret = io.NopCloser(reader)
	}
	if err != nil {
		f.Close()
		return nil, nil, CError{err.Error(), []string{"prepSource"}, true}
	}
	return ret, f, nil
}

//XYZFileRead reads a (multi-frame) xyz file, possibly compressed (see XYZRead).
func XYZFileRead(xyzname string) (*Molecule, error) {
	r, f, err := prepSource(xyzname)
	if err != nil {
		return nil, errDecorate(err, "XYZFileRead")
	}
	defer f.Close()
	defer r.Close()
	mol, err := XYZRead(r)
	if err != nil {
		return nil, CError{fmt.Sprintf("%s: %s", xyzname, err.Error()), []string{"XYZFileRead"}, true}
	}
	return mol, nil
}

//XYZRead reads one or more xyz frames from xyzp. All frames must have the same atoms.
//If the comment line of the first frame has extended-xyz Lattice="..." and pbc="..." keys,
//the cell and periodicity are set from them. A Lattice key without pbc means a fully periodic system.
func XYZRead(xyzp io.Reader) (*Molecule, error) {
	xyz := bufio.NewReader(xyzp)
	var top *Topology
	var cell *v3.Matrix
	var pbc [3]bool
	frames := make([]*v3.Matrix, 0, 1)
	for nframe := 0; ; nframe++ {
		ats, coords, comment, err := xyzReadFrame(xyz)
		if err == io.EOF && nframe > 0 {
			break
		}
		if err != nil {
			return nil, CError{fmt.Sprintf("frame %d: %s", nframe, err.Error()), []string{"XYZRead"}, true}
		}
		if nframe == 0 {
			top = &Topology{Atoms: ats}
			cell, pbc, err = parseExtXYZComment(comment)
			if err != nil {
				return nil, CError{err.Error(), []string{"parseExtXYZComment", "XYZRead"}, true}
			}
		} else if err := sameAtoms(top, ats); err != nil {
			return nil, CError{fmt.Sprintf("frame %d: %s", nframe, err.Error()), []string{"XYZRead"}, true}
		}
		frames = append(frames, coords)
	}
	return &Molecule{Topology: top, Coords: frames, Cell: cell, PBC: pbc}, nil
}

//xyzReadFrame reads one frame. Returns io.EOF only if the reader was exhausted before the frame started.
func xyzReadFrame(xyz *bufio.Reader) ([]*Atom, *v3.Matrix, string, error) {
	var line string
	var err error
	for strings.TrimSpace(line) == "" {
		line, err = xyz.ReadString('\n')
		if err == io.EOF && strings.TrimSpace(line) == "" {
			return nil, nil, "", io.EOF
		}
		if err != nil && err != io.EOF {
			return nil, nil, "", err
		}
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || natoms < 1 {
		return nil, nil, "", fmt.Errorf("ill formatted atom count %q", strings.TrimSpace(line))
	}
	comment, err := xyz.ReadString('\n')
	if err == io.EOF {
		return nil, nil, "", fmt.Errorf("missing comment line")
	}
	if err != nil {
		return nil, nil, "", err
	}
	ats := make([]*Atom, natoms)
	coords := make([]float64, natoms*3)
	for i := 0; i < natoms; i++ {
		line, err = xyz.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, nil, "", err
		}
		if err == io.EOF && strings.TrimSpace(line) == "" {
			return nil, nil, "", fmt.Errorf("expected %d atoms, found %d", natoms, i)
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, nil, "", fmt.Errorf("atom line %d ill formed", i+1)
		}
		z, err := SymbolToZ(fields[0])
		if err != nil {
			return nil, nil, "", err
		}
		sym, _ := ZToSymbol(z)
		ats[i] = &Atom{Name: fields[0], Symbol: sym, Z: z}
		for j := 0; j < 3; j++ {
			coords[i*3+j], err = strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return nil, nil, "", fmt.Errorf("atom line %d: %s", i+1, err.Error())
			}
		}
	}
	mcoords, _ := v3.NewMatrix(coords) //natoms>0, so this can't fail
	return ats, mcoords, strings.TrimSpace(comment), nil
}

func sameAtoms(top *Topology, ats []*Atom) error {
	if top.Len() != len(ats) {
		return fmt.Errorf("%d atoms, but the first frame has %d", len(ats), top.Len())
	}
	for i, a := range ats {
		if a.Z != top.Atoms[i].Z {
			return fmt.Errorf("atom %d is %s, but it is %s in the first frame", i+1, a.Symbol, top.Atoms[i].Symbol)
		}
	}
	return nil
}

//extXYZKeys splits an extended-xyz comment line in key=value pairs. Values can be double-quoted.
//Keys are returned lowercase. Tokens without "=" are ignored.
func extXYZKeys(comment string) map[string]string {
	ret := make(map[string]string)
	i := 0
	for i < len(comment) {
		for i < len(comment) && (comment[i] == ' ' || comment[i] == '\t') {
			i++
		}
		start := i
		for i < len(comment) && comment[i] != '=' && comment[i] != ' ' && comment[i] != '\t' {
			i++
		}
		key := strings.ToLower(comment[start:i])
		if i >= len(comment) || comment[i] != '=' {
			continue
		}
		i++ //skip '='
		var val string
		if i < len(comment) && comment[i] == '"' {
			end := strings.IndexByte(comment[i+1:], '"')
			if end < 0 {
				val = comment[i+1:]
				i = len(comment)
			} else {
				val = comment[i+1 : i+1+end]
				i = i + end + 2
			}
		} else {
			start = i
			for i < len(comment) && comment[i] != ' ' && comment[i] != '\t' {
				i++
			}
			val = comment[start:i]
		}
		if key != "" {
			ret[key] = val
		}
	}
	return ret
}

func parseExtXYZComment(comment string) (*v3.Matrix, [3]bool, error) {
	var pbc [3]bool
	keys := extXYZKeys(comment)
	lat, ok := keys["lattice"]
	if !ok {
		return nil, pbc, nil
	}
	fields := strings.Fields(lat)
	if len(fields) != 9 {
		return nil, pbc, fmt.Errorf("Lattice needs 9 numbers, got %d", len(fields))
	}
	data := make([]float64, 9)
	var err error
	for i, v := range fields {
		data[i], err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, pbc, fmt.Errorf("Lattice: %s", err.Error())
		}
	}
	cell, _ := v3.NewMatrix(data)
	p, ok := keys["pbc"]
	if !ok {
		return cell, [3]bool{true, true, true}, nil
	}
	flags := strings.Fields(p)
	if len(flags) != 3 {
		return nil, pbc, fmt.Errorf("pbc needs 3 flags, got %d", len(flags))
	}
	for i, f := range flags {
		switch strings.ToUpper(f) {
		case "T", "TRUE", "1":
			pbc[i] = true
		case "F", "FALSE", "0":
			pbc[i] = false
		default:
			return nil, pbc, fmt.Errorf("pbc flag %q not understood", f)
		}
	}
	return cell, pbc, nil
}

//XYZFileWrite writes the coordinates coords for atoms in an xyz file with name xyzname
//which will be created for that. If the file exists it will be overwritten.
func XYZFileWrite(xyzname string, coords *v3.Matrix, atoms Atomer) error {
	out, err := os.Create(xyzname)
	if err != nil {
		return CError{err.Error(), []string{"os.Create", "XYZFileWrite"}, true}
	}
	defer out.Close()
	if err := XYZWrite(out, coords, atoms); err != nil {
		return errDecorate(err, "XYZFileWrite")
	}
	return nil
}

//XYZWrite writes the coordinates coords for atoms, in xyz format, to out.
func XYZWrite(out io.Writer, coords *v3.Matrix, atoms Atomer) error {
	iatoms := atoms.Len()
	if coords.NVecs() != iatoms {
		return CError{fmt.Sprintf("%d atoms but %d coordinates", iatoms, coords.NVecs()), []string{"XYZWrite"}, true}
	}
	if _, err := fmt.Fprintf(out, "%-4d\n\n", iatoms); err != nil {
		return CError{err.Error(), []string{"XYZWrite"}, true}
	}
	for i := 0; i < iatoms; i++ {
		_, err := fmt.Fprintf(out, "%-2s  %12.6f%12.6f%12.6f \n", atoms.Atom(i).Symbol, coords.At(i, 0), coords.At(i, 1), coords.At(i, 2))
		if err != nil {
			return CError{err.Error(), []string{"XYZWrite"}, true}
		}
	}
	return nil
}
