/*
 * xmlpt.go, part of goPart.
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

//Package xmlpt reads the XML particle files written by the hydrodynamic
//particle-tracking model into part.TrackSet matrices. The files are huge but
//line-oriented: one record per line, either an attribute row (TimeStep
//nr="12") or a tag-value row (<x>3.5</x>), so the reader scans lines instead
//of using a full XML parser.
package xmlpt

import (
	"bufio"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	part "github.com/sepamod/gopart"
)

const timeLayout = "2006-01-02 15:04:05"

// Options controls the conversion.
type Options struct {
	//HourlyOnly keeps only the timesteps that fall on a whole hour (the
	//model writes every few minutes, which is more than the downstream
	//concentration work wants). Default true.
	HourlyOnly bool
	//HeaderLines is how many lines of the file are scanned for the run
	//metadata (times, timestep spacing, variable codes). Default 1000.
	HeaderLines int
	//Force makes ProcessFolder reconvert files whose output already exists.
	Force bool
}

// DefaultOptions returns the options used by Read.
func DefaultOptions() Options {
	return Options{HourlyOnly: true, HeaderLines: 1000}
}

// Header is the run metadata recovered from the top of a particle XML file.
type Header struct {
	Start, End   time.Time
	DurationDays float64
	TimeSpacing  int //spacing between consecutive TimeStep numbers
	StepOffset   int //the first TimeStep number in the file
	Codes        []string
}

//parseRow splits one record line into its variable name and value. Attribute
//rows (Key="value") and tag-value rows (<tag>value</tag>) both occur.
func parseRow(line string) (name, val string) {
	line = strings.TrimSpace(line)
	if strings.Contains(line, "=") {
		n, v, _ := strings.Cut(line, "=")
		return strings.Trim(n, "<>"), strings.Trim(v, "<>/\"")
	}
	if len(line) < 3 || line[0] != '<' {
		return "", ""
	}
	end := strings.IndexByte(line, '>')
	if end < 0 {
		return "", ""
	}
	tag := line[1:end]
	rest := line[end+1:]
	ci := strings.Index(rest, "</"+tag+">")
	if ci < 0 {
		return "", ""
	}
	return tag, rest[:ci]
}

// ReadHeader scans up to maxLines lines of the file for the run metadata.
func ReadHeader(name string, maxLines int) (*Header, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{UnableToOpen + ": " + err.Error(), name, []string{"ReadHeader"}, true}
	}
	defer f.Close()
	h := new(Header)
	var steps []int
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for i := 0; i < maxLines && scanner.Scan(); i++ {
		line := scanner.Text()
		switch {
		case strings.Contains(line, "StartTime"):
			_, v := parseRow(line)
			h.Start, _ = time.Parse(timeLayout, v)
		case strings.Contains(line, "EndTime"):
			_, v := parseRow(line)
			h.End, _ = time.Parse(timeLayout, v)
		case strings.Contains(line, "TimeStep nr"):
			_, v := parseRow(line)
			if n, err := strconv.Atoi(v); err == nil {
				steps = append(steps, n)
			}
		case strings.Contains(line, "<code>") && !strings.Contains(line, "_"):
			_, v := parseRow(line)
			if v != "" {
				h.Codes = append(h.Codes, v)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, Error{err.Error(), name, []string{"ReadHeader"}, true}
	}
	if !h.Start.IsZero() && !h.End.IsZero() {
		h.DurationDays = h.End.Sub(h.Start).Hours() / 24.0
	}
	if len(steps) == 0 {
		return nil, Error{NoTimeSteps, name, []string{"ReadHeader"}, true}
	}
	h.StepOffset = steps[0]
	for _, s := range steps {
		if s < h.StepOffset {
			h.StepOffset = s
		}
	}
	if len(steps) < 2 {
		return nil, Error{NonEquidistant + ": only one timestep in the header", name, []string{"ReadHeader"}, true}
	}
	h.TimeSpacing = steps[1] - steps[0]
	for i := 1; i < len(steps); i++ {
		if steps[i]-steps[i-1] != h.TimeSpacing {
			return nil, Error{NonEquidistant, name, []string{"ReadHeader"}, true}
		}
	}
	if len(h.Codes) == 0 {
		return nil, Error{NoCodes, name, []string{"ReadHeader"}, true}
	}
	return h, nil
}

// Read converts a particle XML file with the default options (hourly
// timesteps only).
func Read(name string) (*part.TrackSet, error) {
	T, err := ReadOptions(name, DefaultOptions())
	if err != nil {
		err = errDecorate(err, "Read")
	}
	return T, err
}

// ReadOptions converts a particle XML file into a TrackSet. Every variable
// comes back as a [particles x timesteps] matrix, NaN where a particle has no
// value at a step.
func ReadOptions(name string, o Options) (*part.TrackSet, error) {
	if o.HeaderLines <= 0 {
		o.HeaderLines = 1000
	}
	h, err := ReadHeader(name, o.HeaderLines)
	if err != nil {
		return nil, errDecorate(err, "ReadOptions")
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{UnableToOpen + ": " + err.Error(), name, []string{"ReadOptions"}, true}
	}
	defer f.Close()

	isCode := make(map[string]bool, len(h.Codes))
	cols := make(map[string][][]float64, len(h.Codes))
	for _, c := range h.Codes {
		isCode[c] = true
		cols[c] = nil
	}
	var dateTime []float64
	hourly := false
	tiHourly, tiFull := -1, -1
	particle := 0

	addStep := func() {
		dateTime = append(dateTime, math.NaN())
		for _, c := range h.Codes {
			cols[c] = append(cols[c], nil)
		}
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		vname, val := parseRow(scanner.Text())
		switch {
		case strings.EqualFold(vname, "timestep nr"):
			raw, err := strconv.Atoi(val)
			if err != nil {
				continue
			}
			tiFull = (raw - h.StepOffset) / h.TimeSpacing
			hourly = false
		case vname == "DateTime":
			t, err := time.Parse(timeLayout, val)
			if err != nil {
				continue
			}
			if o.HourlyOnly {
				if part.WholeHour(t) {
					hourly = true
					tiHourly++
					addStep()
					dateTime[tiHourly] = part.Datenum(t)
				}
			} else {
				if tiFull < 0 { //a DateTime before any timestep row
					continue
				}
				for len(dateTime) <= tiFull {
					addStep()
				}
				dateTime[tiFull] = part.Datenum(t)
			}
		case vname == "Particle Nr":
			p, err := strconv.Atoi(val)
			if err != nil {
				continue
			}
			particle = p - 1 //the file numbers particles from 1
		case isCode[vname]:
			ti := tiFull
			if o.HourlyOnly {
				if !hourly {
					continue
				}
				ti = tiHourly
			}
			if ti < 0 || particle < 0 {
				continue
			}
			v, err := strconv.ParseFloat(val, 64)
			if err != nil {
				continue
			}
			col := cols[vname][ti]
			for len(col) <= particle {
				col = append(col, math.NaN())
			}
			col[particle] = v
			cols[vname][ti] = col
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, Error{err.Error(), name, []string{"ReadOptions"}, true}
	}

	nt := len(dateTime)
	np := 0
	for _, c := range h.Codes {
		for _, col := range cols[c] {
			if len(col) > np {
				np = len(col)
			}
		}
	}
	if nt == 0 || np == 0 {
		return nil, Error{MalformedRecord + ": no particle records found", name, []string{"ReadOptions"}, true}
	}

	T := part.NewTrackSet(h.Codes, np, nt)
	T.SetName(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
	T.SetTimeSpacing(h.TimeSpacing)
	T.SetDateTime(dateTime)
	for _, c := range h.Codes {
		v, err := T.Var(c)
		if err != nil {
			return nil, errDecorate(err, "ReadOptions")
		}
		for t, col := range cols[c] {
			for p, x := range col {
				v.Set(p, t, x)
			}
		}
	}
	return T, nil
}
