/*
 * v3_test.go, part of gofnet.
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
	"math"
	"testing"
)

func TestNewMatrix(Te *testing.T) {
	a := []float64{1.0, 2.0, 3, 4, 5, 6, 7, 8, 9}
	A, err := NewMatrix(a)
	if err != nil {
		Te.Fatal(err)
	}
	if A.NVecs() != 3 {
		Te.Errorf("Expected 3 vectors, got %d", A.NVecs())
	}
	if _, err := NewMatrix([]float64{1, 2, 3, 4}); err == nil {
		Te.Error("A slice of 4 elements should not make a Matrix")
	}
	if _, err := NewMatrix(nil); err == nil {
		Te.Error("An empty slice should not make a Matrix")
	}
}

func TestVecView(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	v := A.VecView(1)
	v.Scale(2, v.Dense)
	if A.At(1, 0) != 8 || A.At(1, 2) != 12 || A.At(0, 0) != 1 {
		Te.Errorf("Only the viewed vector should change: %v", A)
	}
}

func TestSomeVecs(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 1, 1, 2, 2, 2, 3, 3, 3})
	B := Zeros(2)
	B.SomeVecs(A, []int{2, 0})
	if B.At(0, 0) != 3 || B.At(1, 1) != 1 {
		Te.Errorf("Wrong vectors selected: %v", B)
	}
	C := Zeros(3)
	C.SetVecs(B, []int{1, 2})
	if C.At(1, 0) != 3 || C.At(2, 0) != 1 || C.At(0, 0) != 0 {
		Te.Errorf("Wrong vectors set: %v", C)
	}
	defer func() {
		if r := recover(); r != ErrIndexOutOfRange {
			Te.Errorf("Expected an index panic, got %v", r)
		}
	}()
	B.SomeVecs(A, []int{0, 3})
}

func TestString(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 2, 3, -4, 5.5, 6})
	exp := "    1.000000     2.000000     3.000000\n   -4.000000     5.500000     6.000000\n"
	if A.String() != exp {
		Te.Errorf("Unexpected string:\n%s", A.String())
	}
}

func TestNorms(Te *testing.T) {
	A, _ := NewMatrix([]float64{3, 4, 0, 0, 0, 0, 1, 2, 2})
	n := A.Norms()
	if math.Abs(n[0]-5) > 1e-12 || n[1] != 0 || math.Abs(n[2]-3) > 1e-12 {
		Te.Errorf("Wrong norms: %v", n)
	}
	max, i := A.MaxNorm()
	if i != 0 || math.Abs(max-5) > 1e-12 {
		Te.Errorf("Wrong max norm %f at %d", max, i)
	}
}

func TestEqual(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 2, 3})
	B := A.Clone()
	if !A.Equal(B, 0) {
		Te.Error("A clone should be equal to the original")
	}
	B.Set(0, 1, 2.1)
	if A.Equal(B, 1e-3) {
		Te.Error("Matrices differing by 0.1 should not be equal with tol 1e-3")
	}
	if !A.Equal(B, 0.2) {
		Te.Error("Matrices differing by 0.1 should be equal with tol 0.2")
	}
	if A.Equal(Zeros(2), 10) {
		Te.Error("Matrices with different shapes can't be equal")
	}
	var n1, n2 *Matrix
	if !n1.Equal(n2, 0) || A.Equal(nil, 0) {
		Te.Error("nil handling in Equal is wrong")
	}
}
