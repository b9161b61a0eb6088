/*
 * gocoords.go, part of gofnet.
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

package v3

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//Zeros returns a Matrix of vecs zero vectors.
func Zeros(vecs int) *Matrix {
	return &Matrix{mat.NewDense(vecs, 3, make([]float64, 3*vecs))}
}

//NVecs returns the number of vecs in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

//VecView returns a view of the ith vector of F. Changes in the view are reflected in F.
func (F *Matrix) VecView(i int) *Matrix {
	if i < 0 || i >= F.NVecs() {
		panic(ErrIndexOutOfRange)
	}
	return &Matrix{F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)}
}

//SomeVecs sets the vectors of F to the vectors of A with the indexes in clist, in that order.
func (F *Matrix) SomeVecs(A *Matrix, clist []int) {
	if F.NVecs() != len(clist) {
		panic(ErrShape)
	}
	row := make([]float64, 3)
	for i, c := range clist {
		if c < 0 || c >= A.NVecs() {
			panic(ErrIndexOutOfRange)
		}
		F.SetRow(i, mat.Row(row, c, A.Dense))
	}
}

//SetVecs sets the vectors of F with the indexes in clist to the vectors of A, in order.
func (F *Matrix) SetVecs(A *Matrix, clist []int) {
	if A.NVecs() != len(clist) {
		panic(ErrShape)
	}
	row := make([]float64, 3)
	for i, c := range clist {
		if c < 0 || c >= F.NVecs() {
			panic(ErrIndexOutOfRange)
		}
		F.SetRow(c, mat.Row(row, i, A.Dense))
	}
}

//Copy of F. Unlike mat.Dense.Copy, it allocates.
func (F *Matrix) Clone() *Matrix {
	r := Zeros(F.NVecs())
	r.Copy(F.Dense)
	return r
}

//Norms returns the euclidean norm of each vector in F.
func (F *Matrix) Norms() []float64 {
	n := F.NVecs()
	ret := make([]float64, n)
	row := make([]float64, 3)
	for i := 0; i < n; i++ {
		mat.Row(row, i, F.Dense)
		ret[i] = floats.Norm(row, 2)
	}
	return ret
}

//MaxNorm returns the largest vector norm in F, and the index of that vector.
//It returns -1 as index for an empty matrix.
func (F *Matrix) MaxNorm() (float64, int) {
	norms := F.Norms()
	if len(norms) == 0 {
		return 0, -1
	}
	i := floats.MaxIdx(norms)
	return norms[i], i
}

//Equal returns true if A and F have the same shape and all their elements differ in
//less than tol. Two nil matrices are equal.
func (F *Matrix) Equal(A *Matrix, tol float64) bool {
	if F == nil || A == nil {
		return F == nil && A == nil
	}
	fr, fc := F.Dims()
	ar, ac := A.Dims()
	if fr != ar || fc != ac {
		return false
	}
	return mat.EqualApprox(F.Dense, A.Dense, tol)
}

//String returns the vectors of F, one per line, with 6 decimals.
func (F *Matrix) String() string {
	var b strings.Builder
	for i := 0; i < F.NVecs(); i++ {
		fmt.Fprintf(&b, "%12.6f %12.6f %12.6f\n", F.At(i, 0), F.At(i, 1), F.At(i, 2))
	}
	return b.String()
}
