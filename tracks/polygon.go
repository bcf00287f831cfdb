/*
 * polygon.go, part of goPart.
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

package tracks

import "math"

//The protection-zone and water-body shapes come from GIS exports where
//disjoint parts (islands) are separated by NaN vertices. Only the largest
//part is kept, matching the MATLAB chain this replaces; holes are not
//subtracted.

//boundaryTol is the slack for points sitting exactly on a polygon edge
//(coordinates here are lat/lon degrees).
const boundaryTol = 1e-9

// Polygon is a single closed ring.
type Polygon struct {
	x, y []float64
}

// NewPolygon builds a polygon from vertex slices that may contain NaN
// separators. The largest finite run of at least three vertices is kept and
// closed. Returns nil if no such run exists.
func NewPolygon(x, y []float64) *Polygon {
	if len(x) != len(y) {
		return nil
	}
	var bx, by []float64
	start := -1
	flush := func(end int) {
		if start >= 0 && end-start >= 3 && end-start > len(bx) {
			bx = x[start:end]
			by = y[start:end]
		}
		start = -1
	}
	for i := range x {
		ok := finite(x[i]) && finite(y[i])
		if ok && start < 0 {
			start = i
		}
		if !ok {
			flush(i)
		}
	}
	flush(len(x))
	if bx == nil {
		return nil
	}
	P := new(Polygon)
	P.x = append(P.x, bx...)
	P.y = append(P.y, by...)
	if P.x[0] != P.x[len(P.x)-1] || P.y[0] != P.y[len(P.y)-1] {
		P.x = append(P.x, P.x[0])
		P.y = append(P.y, P.y[0])
	}
	return P
}

// Len returns the number of vertices, counting the closing one.
func (P *Polygon) Len() int { return len(P.x) }

// Contains returns true if the point is inside the polygon or within a small
// tolerance of its boundary.
func (P *Polygon) Contains(px, py float64) bool {
	if !finite(px) || !finite(py) {
		return false
	}
	inside := false
	n := len(P.x) - 1
	for i := 0; i < n; i++ {
		x1, y1 := P.x[i], P.y[i]
		x2, y2 := P.x[i+1], P.y[i+1]
		if (y1 > py) != (y2 > py) {
			xc := x1 + (py-y1)/(y2-y1)*(x2-x1)
			if px < xc {
				inside = !inside
			}
		}
	}
	if inside {
		return true
	}
	return P.Distance2(px, py) <= boundaryTol*boundaryTol
}

// Distance2 returns the squared distance from the point to the polygon
// boundary (0 is on the boundary, not inside).
func (P *Polygon) Distance2(px, py float64) float64 {
	best := math.Inf(1)
	for i := 0; i < len(P.x)-1; i++ {
		d := segDist2(px, py, P.x[i], P.y[i], P.x[i+1], P.y[i+1])
		if d < best {
			best = d
		}
	}
	return best
}

func segDist2(px, py, x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	l2 := dx*dx + dy*dy
	t := 0.0
	if l2 > 0 {
		t = ((px-x1)*dx + (py-y1)*dy) / l2
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	cx, cy := x1+t*dx, y1+t*dy
	return (px-cx)*(px-cx) + (py-cy)*(py-cy)
}

// WhichPolygon returns the index of the first polygon containing the point,
// or -1. Nil polygons are skipped.
func WhichPolygon(px, py float64, polys []*Polygon) int {
	for i, P := range polys {
		if P != nil && P.Contains(px, py) {
			return i
		}
	}
	return -1
}

// WhichClosest returns the index of the polygon containing the point, falling
// back to the nearest one. Only -1 when all polygons are nil or the point is
// not finite.
func WhichClosest(px, py float64, polys []*Polygon) int {
	if i := WhichPolygon(px, py, polys); i >= 0 {
		return i
	}
	if !finite(px) || !finite(py) {
		return -1
	}
	best, bestD := -1, math.Inf(1)
	for i, P := range polys {
		if P == nil {
			continue
		}
		if d := P.Distance2(px, py); d < bestD {
			bestD = d
			best = i
		}
	}
	return best
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
