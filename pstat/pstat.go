/*
 * pstat.go, part of goPart.
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

//Package pstat summarizes concentration and exposure values. NaN entries
//(dry cells, padded particles) are stripped before anything is computed, and
//statistics that come out NaN are reported as 0 so the summaries can go
//straight into report tables.
package pstat

import (
	"math"
	"sort"

	part "github.com/sepamod/gopart"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

//DefaultStats are the statistics computed when none are asked for. The 95th
//percentile is always added on top.
var DefaultStats = []string{"length", "mean", "median", "std", "min", "max"}

// Summary computes the named statistics over the flattened, NaN-stripped
// data, plus the 95th percentile under the key "q95". Known names are
// length, mean, median, std, min, max. The standard deviation is the
// population one.
func Summary(x []float64, stats ...string) (map[string]float64, error) {
	if len(stats) == 0 {
		stats = DefaultStats
	}
	clean := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	sort.Float64s(clean)
	out := make(map[string]float64, len(stats)+1)
	for _, name := range stats {
		v, err := one(clean, name)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	out["q95"] = zeroNaN(quantile(clean, 0.95))
	return out, nil
}

// SummaryDense is Summary over every value of a matrix.
func SummaryDense(m *mat.Dense, stats ...string) (map[string]float64, error) {
	if m == nil {
		return nil, Error{message: NilData, deco: []string{"SummaryDense"}}
	}
	r, c := m.Dims()
	x := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			x = append(x, m.At(i, j))
		}
	}
	s, err := Summary(x, stats...)
	if err != nil {
		return nil, errDecorate(err, "SummaryDense")
	}
	return s, nil
}

func one(sorted []float64, name string) (float64, error) {
	if name == "length" {
		return float64(len(sorted)), nil
	}
	if len(sorted) == 0 {
		return 0, knownOrError(name)
	}
	switch name {
	case "mean":
		return zeroNaN(stat.Mean(sorted, nil)), nil
	case "median":
		return zeroNaN(quantile(sorted, 0.5)), nil
	case "std":
		return zeroNaN(stat.PopStdDev(sorted, nil)), nil
	case "min":
		return sorted[0], nil
	case "max":
		return sorted[len(sorted)-1], nil
	}
	return 0, Error{message: UnknownStatistic + ": " + name, deco: []string{"Summary"}}
}

//knownOrError keeps the unknown-name check alive for empty data.
func knownOrError(name string) error {
	switch name {
	case "mean", "median", "std", "min", "max":
		return nil
	}
	return Error{message: UnknownStatistic + ": " + name, deco: []string{"Summary"}}
}

//quantile interpolates linearly between order statistics, with the sample
//quantile at index p*(n-1). The upstream tables are built with this rule, so
//gonum's CDF-based interpolation cannot be used here.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	h := p * float64(len(sorted)-1)
	lo := math.Floor(h)
	hi := math.Ceil(h)
	return sorted[int(lo)] + (h-lo)*(sorted[int(hi)]-sorted[int(lo)])
}

func zeroNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
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

// Error is the error type for statistics. It fulfills part.Error.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string { return "pstat error: " + err.message }

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
	UnknownStatistic = "Unknown statistic"
	NilData          = "Nil data"
)
