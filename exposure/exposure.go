/*
 * exposure.go, part of goPart.
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

//Package exposure accumulates concentration along a fish track. A track is a
//sequence of legs, each spent in one mesh element for some duration; the
//exposure of a leg is the concentration in that element at that time scaled
//by the fraction of a day the leg lasted. Offsets shift the whole track in
//time so one migration can be screened against many departure dates.
package exposure

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	part "github.com/sepamod/gopart"
	"gonum.org/v1/gonum/mat"
)

// Legs is one fish track, split into stays within single mesh elements.
// CellIndex and TimeStep are 1-based, matching the stored track files;
// Duration is in seconds.
type Legs struct {
	CellIndex []int
	TimeStep  []int
	Duration  []float64
}

// Len returns the number of legs.
func (L *Legs) Len() int { return len(L.CellIndex) }

// Validate checks that the three slices have the same nonzero length and
// that indexes are positive.
func (L *Legs) Validate() error {
	if len(L.CellIndex) == 0 {
		return Error{message: EmptyLegs, deco: []string{"Validate"}}
	}
	if len(L.TimeStep) != len(L.CellIndex) || len(L.Duration) != len(L.CellIndex) {
		return Error{message: LengthMismatch, deco: []string{"Validate"}}
	}
	for i := range L.CellIndex {
		if L.CellIndex[i] < 1 || L.TimeStep[i] < 1 {
			return Error{message: BadIndex + ": leg " + strconv.Itoa(i), deco: []string{"Validate"}}
		}
	}
	return nil
}

// Track computes per-leg exposure for one concentration field. The result is
// nLegs rows by len(offsets) columns: concentration in the leg's element at
// its (offset) timestep, times the leg duration as a fraction of a day.
// Timesteps falling off either end of the field are clamped to the first or
// last column, so a migration longer than the modelled period reuses the
// edge conditions rather than failing.
func Track(conc *mat.Dense, legs *Legs, offsets []int) (*mat.Dense, error) {
	if conc == nil {
		return nil, Error{message: NilData, deco: []string{"Track"}}
	}
	if err := legs.Validate(); err != nil {
		return nil, errDecorate(err, "Track")
	}
	if len(offsets) == 0 {
		offsets = []int{0}
	}
	rows, cols := conc.Dims()
	out := mat.NewDense(legs.Len(), len(offsets), nil)
	for i := 0; i < legs.Len(); i++ {
		e := legs.CellIndex[i] - 1
		if e >= rows {
			return nil, Error{message: BadIndex + ": element " + strconv.Itoa(legs.CellIndex[i]), deco: []string{"Track"}}
		}
		frac := legs.Duration[i] / 86400.0
		for j, off := range offsets {
			t := legs.TimeStep[i] - 1 + off
			if t < 0 {
				t = 0
			} else if t >= cols {
				t = cols - 1
			}
			out.Set(i, j, conc.At(e, t)*frac)
		}
	}
	return out, nil
}

// TrackFields runs Track against every site's concentration field.
func TrackFields(f part.Fields, legs *Legs, offsets []int) (part.Fields, error) {
	if len(f) == 0 {
		return nil, Error{message: EmptyFields, deco: []string{"TrackFields"}}
	}
	out := make(part.Fields, len(f))
	for k, v := range f {
		e, err := Track(v, legs, offsets)
		if err != nil {
			return nil, errDecorate(err, "TrackFields "+k)
		}
		out[k] = e
	}
	return out, nil
}

// Totals sums per-leg exposure over the whole track. It returns the per-site
// totals, one value per offset, and the sum over all sites.
func Totals(f part.Fields) (map[string][]float64, []float64, error) {
	if len(f) == 0 {
		return nil, nil, Error{message: EmptyFields, deco: []string{"Totals"}}
	}
	perSite := make(map[string][]float64, len(f))
	var all []float64
	for k, v := range f {
		rows, cols := v.Dims()
		if all == nil {
			all = make([]float64, cols)
		} else if len(all) != cols {
			return nil, nil, Error{message: ShapeMismatch + ": " + k, deco: []string{"Totals"}}
		}
		tot := make([]float64, cols)
		for j := 0; j < cols; j++ {
			for i := 0; i < rows; i++ {
				tot[j] += v.At(i, j)
			}
			all[j] += tot[j]
		}
		perSite[k] = tot
	}
	return perSite, all, nil
}

// ReadLegsCSV reads a track from a CSV file with columns element, timestep,
// duration. A header row is skipped if the first field does not parse as an
// integer.
func ReadLegsCSV(name string) (*Legs, error) {
	fin, err := os.Open(name)
	if err != nil {
		return nil, Error{message: UnableToOpen + ": " + err.Error(), deco: []string{"ReadLegsCSV"}}
	}
	defer fin.Close()
	r := csv.NewReader(fin)
	r.TrimLeadingSpace = true
	L := new(Legs)
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, Error{message: MalformedRecord + ": " + err.Error(), deco: []string{"ReadLegsCSV"}}
		}
		if len(rec) < 3 {
			return nil, Error{message: MalformedRecord, deco: []string{"ReadLegsCSV"}}
		}
		e, errE := strconv.Atoi(rec[0])
		if errE != nil && first {
			first = false
			continue //header
		}
		first = false
		t, errT := strconv.Atoi(rec[1])
		d, errD := strconv.ParseFloat(rec[2], 64)
		if errE != nil || errT != nil || errD != nil {
			return nil, Error{message: MalformedRecord + ": " + rec[0], deco: []string{"ReadLegsCSV"}}
		}
		L.CellIndex = append(L.CellIndex, e)
		L.TimeStep = append(L.TimeStep, t)
		L.Duration = append(L.Duration, d)
	}
	if err := L.Validate(); err != nil {
		return nil, errDecorate(err, "ReadLegsCSV")
	}
	return L, nil
}

//Errors

//errDecorate is a helper function that asserts that the error implements part.Error and
//decorates the error with the caller's name before returning it. If used with a
//non-part.Error error, it will cause a panic.
func errDecorate(err error, caller string) error {
	err2 := err.(part.Error)
	err2.Decorate(caller)
	return err2
}

// Error is the error type for exposure calculations. It fulfills part.Error.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string { return "exposure error: " + err.message }

//Decorate adds new information to the error.
func (err Error) Decorate(deco string) []string {
	//Even though this method does not use a pointer as a receiver, and tries to alter the receiver,
	//it should work, since err.deco is a slice, and hence a pointer itself.
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

const (
	EmptyLegs       = "Track has no legs"
	LengthMismatch  = "Leg slices have different lengths"
	BadIndex        = "Nonpositive or out-of-range index"
	NilData         = "Nil concentration data"
	EmptyFields     = "No fields given"
	ShapeMismatch   = "Shapes of the given data do not match"
	UnableToOpen    = "Unable to open file"
	MalformedRecord = "Malformed record"
	MissingCoords   = "Stored file has no track coordinates"
)
