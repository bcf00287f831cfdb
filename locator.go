/*
 * locator.go, part of goPart.
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

import "math"

//Point-to-element lookup. Particle positions come in by the million, so the
//lookup is a uniform grid over element bounding boxes with a barycentric
//inside test, plus a nearest-node fallback for positions that sit on element
//edges or just off the mesh (the model writes positions in single precision,
//the mesh in double, so exact containment fails near boundaries).

// Locator finds the mesh element containing a point. Build one per mesh and
// reuse it; construction indexes every element and node.
type Locator struct {
	m              *Mesh
	tol            float64
	fallback       bool
	nx, ny         int
	x0, y0, dx, dy float64
	elemBins       [][]int32
	nodeBins       [][]int32
	nodeElems      [][]int32
}

const defaultLocatorTol = 1e-12

// NewLocator indexes the mesh for point lookup. The optional tolerance is the
// slack allowed in the barycentric inside test (default 1e-12).
func NewLocator(m *Mesh, tol ...float64) *Locator {
	L := new(Locator)
	L.m = m
	L.tol = defaultLocatorTol
	if len(tol) > 0 {
		L.tol = tol[0]
	}
	L.fallback = true

	xmin, xmax := math.Inf(1), math.Inf(-1)
	ymin, ymax := math.Inf(1), math.Inf(-1)
	for n := 0; n < m.NNodes(); n++ {
		x, y, _ := m.Node(n)
		xmin = math.Min(xmin, x)
		xmax = math.Max(xmax, x)
		ymin = math.Min(ymin, y)
		ymax = math.Max(ymax, y)
	}
	side := int(math.Ceil(math.Sqrt(float64(m.NElements()+1)))) + 1
	if side > 1024 {
		side = 1024
	}
	L.nx, L.ny = side, side
	L.x0, L.y0 = xmin, ymin
	L.dx = (xmax - xmin) / float64(side)
	L.dy = (ymax - ymin) / float64(side)
	if L.dx <= 0 {
		L.dx = 1
	}
	if L.dy <= 0 {
		L.dy = 1
	}

	L.elemBins = make([][]int32, L.nx*L.ny)
	for e := 0; e < m.NElements(); e++ {
		v := m.Element(e)
		exmin, exmax := math.Inf(1), math.Inf(-1)
		eymin, eymax := math.Inf(1), math.Inf(-1)
		for _, n := range v {
			x, y, _ := m.Node(n)
			exmin = math.Min(exmin, x)
			exmax = math.Max(exmax, x)
			eymin = math.Min(eymin, y)
			eymax = math.Max(eymax, y)
		}
		bx0, by0 := L.bin(exmin, eymin)
		bx1, by1 := L.bin(exmax, eymax)
		for bx := bx0; bx <= bx1; bx++ {
			for by := by0; by <= by1; by++ {
				i := by*L.nx + bx
				L.elemBins[i] = append(L.elemBins[i], int32(e))
			}
		}
	}

	L.nodeBins = make([][]int32, L.nx*L.ny)
	for n := 0; n < m.NNodes(); n++ {
		x, y, _ := m.Node(n)
		bx, by := L.bin(x, y)
		i := by*L.nx + bx
		L.nodeBins[i] = append(L.nodeBins[i], int32(n))
	}

	L.nodeElems = make([][]int32, m.NNodes())
	for e := 0; e < m.NElements(); e++ {
		for _, n := range m.Element(e) {
			L.nodeElems[n] = append(L.nodeElems[n], int32(e))
		}
	}
	return L
}

// SetFallback turns the nearest-node fallback on or off. With it off, points
// not strictly inside any element come back as not found.
func (L *Locator) SetFallback(b bool) { L.fallback = b }

//bin clamps a coordinate into grid indexes.
func (L *Locator) bin(x, y float64) (bx, by int) {
	bx = int((x - L.x0) / L.dx)
	by = int((y - L.y0) / L.dy)
	if bx < 0 {
		bx = 0
	}
	if bx >= L.nx {
		bx = L.nx - 1
	}
	if by < 0 {
		by = 0
	}
	if by >= L.ny {
		by = L.ny - 1
	}
	return bx, by
}

// Locate returns the 0-based index of the element containing (x, y), or -1 if
// the point is outside the mesh or not finite.
func (L *Locator) Locate(x, y float64) int {
	if !finite(x) || !finite(y) {
		return -1
	}
	bx, by := L.bin(x, y)
	for _, e := range L.elemBins[by*L.nx+bx] {
		if L.inside(int(e), x, y) {
			return int(e)
		}
	}
	if !L.fallback {
		return -1
	}
	n := L.nearestNode(x, y)
	if n < 0 {
		return -1
	}
	for _, e := range L.nodeElems[n] {
		if L.inside(int(e), x, y) {
			return int(e)
		}
	}
	return -1
}

// LocateAll locates a whole set of points, returning the element index of each
// as a float64, NaN where the point is outside the mesh or not finite. With
// oneBased true the indexes come back 1-based, the convention of the stored
// model files.
func (L *Locator) LocateAll(x, y []float64, oneBased bool) ([]float64, error) {
	if len(x) != len(y) {
		return nil, newErrorf("LocateAll", "%s: %d x and %d y values", WrongDimensions, len(x), len(y))
	}
	out := make([]float64, len(x))
	for i := range x {
		e := L.Locate(x[i], y[i])
		if e < 0 {
			out[i] = math.NaN()
			continue
		}
		if oneBased {
			e++
		}
		out[i] = float64(e)
	}
	return out, nil
}

func (L *Locator) inside(e int, x, y float64) bool {
	l1, l2, l3, ok := L.m.Barycentric(e, x, y)
	return ok && l1 >= -L.tol && l2 >= -L.tol && l3 >= -L.tol
}

//nearestNode does an expanding ring search over the node grid. Returns -1 only
//for an empty mesh.
func (L *Locator) nearestNode(x, y float64) int {
	bx, by := L.bin(x, y)
	best := -1
	bestD := math.Inf(1)
	maxRing := L.nx
	if L.ny > maxRing {
		maxRing = L.ny
	}
	for ring := 0; ring <= maxRing; ring++ {
		//Once a candidate exists, stop as soon as the ring's near edge is
		//farther than the candidate.
		if best >= 0 {
			edge := float64(ring-1) * math.Min(L.dx, L.dy)
			if edge > 0 && edge*edge > bestD {
				break
			}
		}
		for gx := bx - ring; gx <= bx+ring; gx++ {
			for gy := by - ring; gy <= by+ring; gy++ {
				if gx < 0 || gx >= L.nx || gy < 0 || gy >= L.ny {
					continue
				}
				onRing := gx == bx-ring || gx == bx+ring || gy == by-ring || gy == by+ring
				if !onRing {
					continue
				}
				for _, n := range L.nodeBins[gy*L.nx+gx] {
					nx, ny, _ := L.m.Node(int(n))
					d := (nx-x)*(nx-x) + (ny-y)*(ny-y)
					if d < bestD {
						bestD = d
						best = int(n)
					}
				}
			}
		}
	}
	return best
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
