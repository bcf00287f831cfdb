/*
 * mesh.go, part of goPart.
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
	"math"

	"gonum.org/v1/gonum/mat"
)

// MIKENull is the delete/null value written by the hydrodynamic model in place
// of missing coordinates.
const MIKENull = 1.00000001800251e-35

// Mesh is an unstructured triangular mesh as used by the hydrodynamic model:
// node coordinates plus an element table of node triplets. Node z is the bed
// level (negative below datum). Elements are stored 0-based; the model files
// use 1-based node numbers, converted by NewMesh when oneBased is true.
type Mesh struct {
	x, y, z []float64
	elems   [][3]int
	zCoord  *mat.Dense //optional [nodes x steps] water surface elevation series
	areas   []float64  //cached
}

// NewMesh builds a mesh from node coordinates and an element table. All three
// coordinate slices must have the same length and every element must reference
// valid nodes.
func NewMesh(x, y, z []float64, elements [][3]int, oneBased bool) (*Mesh, error) {
	if len(x) != len(y) || len(x) != len(z) {
		return nil, newErrorf("NewMesh", "%s: %d x, %d y, %d z nodes", MalformedMesh, len(x), len(y), len(z))
	}
	M := new(Mesh)
	M.x, M.y, M.z = x, y, z
	M.elems = make([][3]int, len(elements))
	for i, e := range elements {
		for j, n := range e {
			if oneBased {
				n--
			}
			if n < 0 || n >= len(x) {
				return nil, newErrorf("NewMesh", "%s: element %d references node %d of %d", MalformedMesh, i, n, len(x))
			}
			M.elems[i][j] = n
		}
	}
	return M, nil
}

// NNodes returns the number of mesh nodes.
func (M *Mesh) NNodes() int { return len(M.x) }

// NElements returns the number of mesh elements.
func (M *Mesh) NElements() int { return len(M.elems) }

// Node returns the coordinates of node n.
func (M *Mesh) Node(n int) (x, y, z float64) {
	return M.x[n], M.y[n], M.z[n]
}

// Element returns the (0-based) node indexes of element e.
func (M *Mesh) Element(e int) [3]int { return M.elems[e] }

// Centroid returns the centroid of element e.
func (M *Mesh) Centroid(e int) (x, y float64) {
	v := M.elems[e]
	x = (M.x[v[0]] + M.x[v[1]] + M.x[v[2]]) / 3.0
	y = (M.y[v[0]] + M.y[v[1]] + M.y[v[2]]) / 3.0
	return x, y
}

// Area returns the area of element e.
func (M *Mesh) Area(e int) float64 {
	v := M.elems[e]
	x1, y1 := M.x[v[0]], M.y[v[0]]
	x2, y2 := M.x[v[1]], M.y[v[1]]
	x3, y3 := M.x[v[2]], M.y[v[2]]
	return 0.5 * math.Abs((x2-x1)*(y3-y1)-(x3-x1)*(y2-y1))
}

// Areas returns the area of every element. The slice is computed once and cached.
func (M *Mesh) Areas() []float64 {
	if M.areas == nil {
		M.areas = make([]float64, len(M.elems))
		for e := range M.elems {
			M.areas[e] = M.Area(e)
		}
	}
	return M.areas
}

// MeanDepth returns the mean node z of element e, as a positive depth. A zero
// mean (dry element) comes back as NaN so concentrations divided by it stay NaN
// rather than blowing up.
func (M *Mesh) MeanDepth(e int) float64 {
	v := M.elems[e]
	z := (M.z[v[0]] + M.z[v[1]] + M.z[v[2]]) / 3.0
	if z == 0 {
		return math.NaN()
	}
	return math.Abs(z)
}

// SetSurfaceElevation attaches a [nodes x steps] water surface elevation series
// to the mesh, used when computing particle depth below surface.
func (M *Mesh) SetSurfaceElevation(zc *mat.Dense) error {
	if zc == nil {
		return newError("SetSurfaceElevation", NilData)
	}
	r, _ := zc.Dims()
	if r != len(M.x) {
		return newErrorf("SetSurfaceElevation", "%s: %d rows for %d nodes", ShapeMismatch, r, len(M.x))
	}
	M.zCoord = zc
	return nil
}

// SurfaceElevation returns the attached water surface elevation series, or nil.
func (M *Mesh) SurfaceElevation() *mat.Dense { return M.zCoord }

// Barycentric returns the barycentric coordinates of (px,py) with respect to
// element e. ok is false for degenerate elements.
func (M *Mesh) Barycentric(e int, px, py float64) (l1, l2, l3 float64, ok bool) {
	v := M.elems[e]
	x1, y1 := M.x[v[0]], M.y[v[0]]
	x2, y2 := M.x[v[1]], M.y[v[1]]
	x3, y3 := M.x[v[2]], M.y[v[2]]
	det := (x2-x1)*(y3-y1) - (x3-x1)*(y2-y1)
	if math.Abs(det) < 1e-14 {
		return 0, 0, 0, false
	}
	l1 = ((y2-y3)*(px-x3) + (x3-x2)*(py-y3)) / det
	l2 = ((y3-y1)*(px-x3) + (x1-x3)*(py-y3)) / det
	l3 = 1.0 - l1 - l2
	return l1, l2, l3, true
}
