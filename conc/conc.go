/*
 * conc.go, part of goPart.
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

//Package conc maps particle tracks onto a mesh and turns them into
//concentration fields: one value per mesh element per timestep.
package conc

import (
	"log"
	"math"
	"runtime"
	"sync"

	part "github.com/sepamod/gopart"
	"gonum.org/v1/gonum/mat"
)

//Variable codes used by the particle files and added by MapToMesh. The mesh
//element index is stored 1-based, the convention of the archived model files;
//Calculate converts back.
const (
	VarX         = "x"
	VarY         = "y"
	VarZ         = "z"
	VarActive    = "ParticleActive"
	VarMeshIndex = "meshIndex"
	VarSurface   = "waterSurface"
	VarDepth     = "depthBelowSurface"
)

// MapOptions controls MapToMesh.
type MapOptions struct {
	//Workers is the number of timesteps mapped concurrently. 0 means one
	//per CPU.
	Workers int
}

// MapToMesh locates every particle position in the mesh and adds the result
// to the TrackSet as the meshIndex variable (1-based, NaN outside the mesh).
// When the mesh carries a surface elevation series and the set has a z
// variable, the interpolated water surface and the particle depth below it
// are added too. Timesteps are processed concurrently; each one only writes
// its own column, so no locking is needed.
func MapToMesh(T *part.TrackSet, M *part.Mesh, o MapOptions) error {
	x, err := T.Var(VarX)
	if err != nil {
		return errDecorate(err, "MapToMesh")
	}
	y, err := T.Var(VarY)
	if err != nil {
		return errDecorate(err, "MapToMesh")
	}
	np, nt := T.NParticles(), T.NSteps()

	var z, zc *mat.Dense
	if T.HasVar(VarZ) {
		z, _ = T.Var(VarZ)
	}
	zc = M.SurfaceElevation()
	doDepth := z != nil && zc != nil
	if doDepth {
		if _, c := zc.Dims(); c < nt {
			return Error{message: ShapeMismatch + ": surface elevation series shorter than the track set", deco: []string{"MapToMesh"}}
		}
		log.Printf("conc: mapping %d particles over %d timesteps with depth", np, nt)
	} else {
		log.Printf("conc: mapping %d particles over %d timesteps", np, nt)
	}

	meshIndex := nanMat(np, nt)
	var surface, depth *mat.Dense
	if doDepth {
		surface = nanMat(np, nt)
		depth = nanMat(np, nt)
	}

	L := part.NewLocator(M)
	workers := o.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				mapStep(t, x, y, z, zc, M, L, meshIndex, surface, depth)
			}
		}()
	}
	for t := 0; t < nt; t++ {
		jobs <- t
	}
	close(jobs)
	wg.Wait()

	if err := T.SetVar(VarMeshIndex, meshIndex); err != nil {
		return errDecorate(err, "MapToMesh")
	}
	if doDepth {
		if err := T.SetVar(VarSurface, surface); err != nil {
			return errDecorate(err, "MapToMesh")
		}
		if err := T.SetVar(VarDepth, depth); err != nil {
			return errDecorate(err, "MapToMesh")
		}
	}
	return nil
}

func mapStep(t int, x, y, z, zc *mat.Dense, M *part.Mesh, L *part.Locator, meshIndex, surface, depth *mat.Dense) {
	np, _ := x.Dims()
	for p := 0; p < np; p++ {
		px, py := x.At(p, t), y.At(p, t)
		e := L.Locate(px, py)
		if e < 0 {
			continue
		}
		meshIndex.Set(p, t, float64(e+1))
		if surface == nil {
			continue
		}
		pz := z.At(p, t)
		if math.IsNaN(pz) {
			continue
		}
		l1, l2, l3, ok := M.Barycentric(e, px, py)
		if !ok {
			continue
		}
		v := M.Element(e)
		ws := l1*zc.At(v[0], t) + l2*zc.At(v[1], t) + l3*zc.At(v[2], t)
		surface.Set(p, t, ws)
		depth.Set(p, t, ws-pz)
	}
}

// Options controls Calculate.
type Options struct {
	//Surface computes a surface concentration (per area, particles shallower
	//than ZCutoff) instead of a volumetric one (per area times mean element
	//depth).
	Surface bool
	//ZCutoff is the maximum depth below surface for a particle to count in
	//surface mode. 0 means no cutoff.
	ZCutoff float64
	//Scale multiplies the result; 0 means the default 1e9 (kg to µg).
	Scale float64
}

// Calculate turns a mapped TrackSet into a concentration field, one row per
// mesh element and one column per timestep. The set must have been through
// MapToMesh (or loaded from a file that was), and needs the ParticleActive
// variable; surface mode additionally needs depthBelowSurface.
func Calculate(T *part.TrackSet, M *part.Mesh, o Options) (*mat.Dense, error) {
	mi, err := T.Var(VarMeshIndex)
	if err != nil {
		return nil, errDecorate(err, "Calculate")
	}
	pa, err := T.Var(VarActive)
	if err != nil {
		return nil, errDecorate(err, "Calculate")
	}
	var depth *mat.Dense
	cutoff := o.ZCutoff
	if cutoff == 0 {
		cutoff = math.Inf(1)
	}
	if o.Surface {
		depth, err = T.Var(VarDepth)
		if err != nil {
			return nil, errDecorate(err, "Calculate")
		}
	}
	scale := o.Scale
	if scale == 0 {
		scale = 1e9
	}

	nCells := M.NElements()
	np, nt := T.NParticles(), T.NSteps()
	out := mat.NewDense(nCells, nt, nil)
	for t := 0; t < nt; t++ {
		for p := 0; p < np; p++ {
			f := mi.At(p, t)
			if math.IsNaN(f) {
				continue
			}
			e := int(f) - 1 //stored 1-based
			if e < 0 || e >= nCells {
				continue
			}
			a := pa.At(p, t)
			if !(a > 0) {
				continue
			}
			if o.Surface && !(depth.At(p, t) <= cutoff) {
				continue
			}
			out.Set(e, t, out.At(e, t)+a)
		}
	}

	areas := M.Areas()
	for e := 0; e < nCells; e++ {
		div := areas[e]
		if !o.Surface {
			div *= M.MeanDepth(e) //NaN for dry elements, kept that way
		}
		for t := 0; t < nt; t++ {
			out.Set(e, t, out.At(e, t)/div*scale)
		}
	}
	return out, nil
}

func nanMat(r, c int) *mat.Dense {
	d := make([]float64, r*c)
	for i := range d {
		d[i] = math.NaN()
	}
	return mat.NewDense(r, c, d)
}
