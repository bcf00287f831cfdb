/*
 * fields.go, part of goPart.
 *
 * Copyright 2024 The goPart authors
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
 */

package part

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

//A Fields map holds one matrix per site/farm, the way the processing chain
//stores per-source concentration and exposure data.

// Fields maps a site or farm name to its data matrix.
type Fields map[string]*mat.Dense

// FilterFields applies a boolean mask to every matrix in the map, filtering
// rows or columns depending on which dimension the mask length matches for
// each matrix (rows win for square matrices). All matrices must match the
// mask on at least one dimension.
func FilterFields(f Fields, mask []bool) (Fields, error) {
	keep := trueIndexes(mask)
	if len(keep) == 0 {
		return nil, newError("FilterFields", EmptyFilter)
	}
	out := make(Fields, len(f))
	for k, v := range f {
		r, c := v.Dims()
		switch len(mask) {
		case r:
			d := mat.NewDense(len(keep), c, nil)
			for i, src := range keep {
				d.SetRow(i, mat.Row(nil, src, v))
			}
			out[k] = d
		case c:
			d := mat.NewDense(r, len(keep), nil)
			for j, src := range keep {
				d.SetCol(j, mat.Col(nil, src, v))
			}
			out[k] = d
		default:
			return nil, newErrorf("FilterFields", "%s: mask is %d, %q is %dx%d", MaskMismatch, len(mask), k, r, c)
		}
	}
	return out, nil
}

// SumFields returns the elementwise sum of every matrix in the map. All
// matrices must share the same shape and the map must not be empty.
func SumFields(f Fields) (*mat.Dense, error) {
	if len(f) == 0 {
		return nil, newError("SumFields", EmptyFields)
	}
	var total *mat.Dense
	var r0, c0 int
	for _, k := range sortedKeys(f) {
		v := f[k]
		r, c := v.Dims()
		if total == nil {
			r0, c0 = r, c
			total = mat.DenseCopyOf(v)
			continue
		}
		if r != r0 || c != c0 {
			return nil, newErrorf("SumFields", "%s: %q is %dx%d, expected %dx%d", ShapeMismatch, k, r, c, r0, c0)
		}
		total.Add(total, v)
	}
	return total, nil
}

//Field comparison statuses.
const (
	FieldOK            = "ok"
	FieldMismatch      = "mismatch"
	FieldShapeMismatch = "shape_mismatch"
	FieldMissingInA    = "missing_in_a"
	FieldMissingInB    = "missing_in_b"
)

// FieldDiff is the comparison result for one key.
type FieldDiff struct {
	Status         string
	MatchPercent   float64
	MaxDiscrepancy float64
}

// FieldReport maps each key present in either map to its comparison result.
type FieldReport map[string]FieldDiff

// Clean returns true if every compared key matched.
func (R FieldReport) Clean() bool {
	for _, d := range R {
		if d.Status != FieldOK {
			return false
		}
	}
	return true
}

// CompareFields compares two field maps elementwise. NaNs in the same position
// count as equal; values are compared with the given relative and absolute
// tolerances (the usual |a-b| <= atol + rtol*|b| test).
func CompareFields(a, b Fields, rtol, atol float64) FieldReport {
	report := make(FieldReport)
	for k := range a {
		if _, ok := b[k]; !ok {
			report[k] = FieldDiff{Status: FieldMissingInB}
		}
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			report[k] = FieldDiff{Status: FieldMissingInA}
		}
	}
	for k, va := range a {
		vb, ok := b[k]
		if !ok {
			continue
		}
		ra, ca := va.Dims()
		rb, cb := vb.Dims()
		if ra != rb || ca != cb {
			report[k] = FieldDiff{Status: FieldShapeMismatch}
			continue
		}
		matched, total := 0, ra*ca
		maxDisc := 0.0
		for i := 0; i < ra; i++ {
			for j := 0; j < ca; j++ {
				x, y := va.At(i, j), vb.At(i, j)
				if math.IsNaN(x) && math.IsNaN(y) {
					matched++
					continue
				}
				if math.Abs(x-y) <= atol+rtol*math.Abs(y) {
					matched++
				}
				if d := math.Abs(x - y); !math.IsNaN(d) && d > maxDisc {
					maxDisc = d
				}
			}
		}
		status := FieldOK
		if matched != total {
			status = FieldMismatch
		}
		report[k] = FieldDiff{
			Status:         status,
			MatchPercent:   100.0 * float64(matched) / float64(total),
			MaxDiscrepancy: maxDisc,
		}
	}
	return report
}

// FieldShapes returns a printable listing of every key and the shape of its
// matrix, sorted by key.
func FieldShapes(f Fields) string {
	var b strings.Builder
	for _, k := range sortedKeys(f) {
		r, c := f[k].Dims()
		fmt.Fprintf(&b, "%s: shape %dx%d\n", k, r, c)
	}
	return b.String()
}

// CompareValues returns the values present in x but not y, and in y but not x,
// both sorted. Duplicates are ignored.
func CompareValues(x, y []string) (onlyX, onlyY []string) {
	xs := make(map[string]bool, len(x))
	ys := make(map[string]bool, len(y))
	for _, v := range x {
		xs[v] = true
	}
	for _, v := range y {
		ys[v] = true
	}
	for v := range xs {
		if !ys[v] {
			onlyX = append(onlyX, v)
		}
	}
	for v := range ys {
		if !xs[v] {
			onlyY = append(onlyY, v)
		}
	}
	sort.Strings(onlyX)
	sort.Strings(onlyY)
	return onlyX, onlyY
}

func sortedKeys(f Fields) []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
