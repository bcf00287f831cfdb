/*
 * trackset.go, part of goPart.
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

// TrackSet holds the output of one particle-tracking run: one [particles x timesteps]
// matrix per recorded variable ("code" in the model's XML), plus the timestamp of each
// step as a MATLAB-style datenum. Particles released after the start of the run have
// NaN in the columns before their release.
type TrackSet struct {
	name     string
	domain   string
	codes    []string
	dateTime []float64
	dt       int //timestep spacing in the source file, in source timestep units
	vars     map[string]*mat.Dense
	np, nt   int
}

// NewTrackSet returns a TrackSet with the given variable codes and dimensions,
// with every variable and the datetime vector filled with NaN.
func NewTrackSet(codes []string, particles, steps int) *TrackSet {
	T := new(TrackSet)
	T.codes = make([]string, len(codes))
	copy(T.codes, codes)
	T.np = particles
	T.nt = steps
	T.vars = make(map[string]*mat.Dense, len(codes))
	for _, c := range codes {
		T.vars[c] = nanDense(particles, steps)
	}
	T.dateTime = make([]float64, steps)
	for i := range T.dateTime {
		T.dateTime[i] = math.NaN()
	}
	return T
}

// NParticles returns the number of particles (rows) in each variable.
func (T *TrackSet) NParticles() int {
	return T.np
}

// NSteps returns the number of timesteps (columns) in each variable.
func (T *TrackSet) NSteps() int {
	return T.nt
}

// Codes returns a copy of the variable codes, in the order they were added.
func (T *TrackSet) Codes() []string {
	c := make([]string, len(T.codes))
	copy(c, T.codes)
	return c
}

// Name returns the name of the run, normally derived from the source file.
func (T *TrackSet) Name() string { return T.name }

func (T *TrackSet) SetName(name string) { T.name = name }

// Domain returns the model domain the run belongs to ("" if unknown).
func (T *TrackSet) Domain() string { return T.domain }

func (T *TrackSet) SetDomain(domain string) { T.domain = domain }

// TimeSpacing returns the timestep spacing of the source file, in the source
// file's own timestep units (0 if unknown).
func (T *TrackSet) TimeSpacing() int { return T.dt }

func (T *TrackSet) SetTimeSpacing(dt int) { T.dt = dt }

// DateTime returns the datenum of each timestep. The returned slice is the
// internal one, not a copy.
func (T *TrackSet) DateTime() []float64 {
	return T.dateTime
}

// SetDateTime replaces the timestep datenums. The length must match NSteps.
func (T *TrackSet) SetDateTime(dates []float64) error {
	if len(dates) != T.nt {
		return newErrorf("SetDateTime", "%s: got %d datenums for %d steps", WrongDimensions, len(dates), T.nt)
	}
	T.dateTime = dates
	return nil
}

// HasVar returns true if the set contains a variable with the given code.
func (T *TrackSet) HasVar(code string) bool {
	_, ok := T.vars[code]
	return ok
}

// Var returns the matrix for the given variable code. The matrix is not copied,
// so changes to it are seen by the TrackSet.
func (T *TrackSet) Var(code string) (*mat.Dense, error) {
	v, ok := T.vars[code]
	if !ok {
		return nil, newErrorf("Var", "%s: %q", UnknownCode, code)
	}
	return v, nil
}

// SetVar sets or adds a variable. The matrix dimensions must match the set.
func (T *TrackSet) SetVar(code string, v *mat.Dense) error {
	if v == nil {
		return newError("SetVar", NilData)
	}
	r, c := v.Dims()
	if r != T.np || c != T.nt {
		return newErrorf("SetVar", "%s: variable %q is %dx%d, set is %dx%d", ShapeMismatch, code, r, c, T.np, T.nt)
	}
	if _, ok := T.vars[code]; !ok {
		T.codes = append(T.codes, code)
	}
	T.vars[code] = v
	return nil
}

// FilterParticles returns a new TrackSet with only the particles (rows) for which
// mask is true. The mask length must equal NParticles.
func (T *TrackSet) FilterParticles(mask []bool) (*TrackSet, error) {
	if len(mask) != T.np {
		return nil, newErrorf("FilterParticles", "%s: mask is %d, set has %d particles", WrongDimensions, len(mask), T.np)
	}
	keep := trueIndexes(mask)
	if len(keep) == 0 {
		return nil, newError("FilterParticles", EmptyFilter)
	}
	F := NewTrackSet(nil, len(keep), T.nt)
	F.name, F.domain, F.dt = T.name, T.domain, T.dt
	copy(F.dateTime, T.dateTime)
	for _, code := range T.codes {
		src := T.vars[code]
		dst := mat.NewDense(len(keep), T.nt, nil)
		for i, r := range keep {
			dst.SetRow(i, mat.Row(nil, r, src))
		}
		if err := F.SetVar(code, dst); err != nil {
			return nil, errDecorate(err, "FilterParticles")
		}
	}
	return F, nil
}

// FilterSteps returns a new TrackSet with only the timesteps (columns) for which
// mask is true. The mask length must equal NSteps.
func (T *TrackSet) FilterSteps(mask []bool) (*TrackSet, error) {
	if len(mask) != T.nt {
		return nil, newErrorf("FilterSteps", "%s: mask is %d, set has %d steps", WrongDimensions, len(mask), T.nt)
	}
	keep := trueIndexes(mask)
	if len(keep) == 0 {
		return nil, newError("FilterSteps", EmptyFilter)
	}
	F := NewTrackSet(nil, T.np, len(keep))
	F.name, F.domain, F.dt = T.name, T.domain, T.dt
	for j, c := range keep {
		F.dateTime[j] = T.dateTime[c]
	}
	for _, code := range T.codes {
		src := T.vars[code]
		dst := mat.NewDense(T.np, len(keep), nil)
		for j, c := range keep {
			dst.SetCol(j, mat.Col(nil, c, src))
		}
		if err := F.SetVar(code, dst); err != nil {
			return nil, errDecorate(err, "FilterSteps")
		}
	}
	return F, nil
}

// Filter filters by particles or by timesteps depending on which dimension the
// mask length matches, particles winning if the set happens to be square.
func (T *TrackSet) Filter(mask []bool) (*TrackSet, error) {
	switch len(mask) {
	case T.np:
		return T.FilterParticles(mask)
	case T.nt:
		return T.FilterSteps(mask)
	}
	return nil, newErrorf("Filter", "%s: mask is %d, set is %dx%d", MaskMismatch, len(mask), T.np, T.nt)
}

func trueIndexes(mask []bool) []int {
	idx := make([]int, 0, len(mask))
	for i, v := range mask {
		if v {
			idx = append(idx, i)
		}
	}
	return idx
}

//nanDense returns an r x c dense matrix filled with NaN.
func nanDense(r, c int) *mat.Dense {
	d := make([]float64, r*c)
	for i := range d {
		d[i] = math.NaN()
	}
	return mat.NewDense(r, c, d)
}
