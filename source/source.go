/*
 * source.go, part of goPart.
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

//Package source manages the farm source-term tables. Each released version
//of the screening source terms is one CSV file in a directory; the files
//sort into version order by name. The package fills in the farm/version
//combinations the releases leave implicit: a farm has zero biomass before it
//was added, keeps its last value while absent from later releases, and goes
//back to zero once a release explicitly zeroes it.
package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	part "github.com/sepamod/gopart"
	"github.com/sepamod/gopart/search"
)

// All asks for every version at once.
const All = 1<<31 - 1

// Row is one farm in one source-term version.
type Row struct {
	SiteName    string
	Model       string
	Biomass     float64 //tonnes
	LicePerFish float64
	Easting     float64
	Northing    float64
	Version     int
	FarmAdded   int    //version the farm first appears in
	Notes       string //carried from the release file
	Comment     string //describes any fill-in, empty for real entries
}

// Table is the filled source-term table: one row per farm per version.
type Table struct {
	Rows      []Row
	NVersions int
}

var (
	cacheMu sync.Mutex
	cache   = map[string]*Table{}
)

// Load reads every version CSV under dir and builds the filled table.
// Results are cached per directory; ClearCache drops them.
func Load(dir string) (*Table, error) {
	cacheMu.Lock()
	if t, ok := cache[dir]; ok {
		cacheMu.Unlock()
		return t, nil
	}
	cacheMu.Unlock()
	files, err := search.Files(dir, search.FileOptions{End: ".csv", Files: search.Yes})
	if err != nil {
		return nil, errDecorate(err, "Load")
	}
	if len(files) == 0 {
		return nil, Error{message: NoVersions + ": " + dir, deco: []string{"Load"}}
	}
	sort.Strings(files)
	var raw []Row
	for v, name := range files {
		rows, err := readVersionCSV(name, v+1)
		if err != nil {
			return nil, errDecorate(err, "Load")
		}
		raw = append(raw, rows...)
	}
	t := build(raw, len(files))
	cacheMu.Lock()
	cache[dir] = t
	cacheMu.Unlock()
	return t, nil
}

// ClearCache forgets every cached table.
func ClearCache() {
	cacheMu.Lock()
	cache = map[string]*Table{}
	cacheMu.Unlock()
}

//build fills the farm x version grid from the release rows.
func build(raw []Row, nVersions int) *Table {
	added := map[string]int{}
	var farms []string
	for _, r := range raw {
		if _, ok := added[r.SiteName]; !ok {
			added[r.SiteName] = r.Version
			farms = append(farms, r.SiteName)
		}
	}
	sort.Strings(farms)
	byKey := map[string]Row{}
	for _, r := range raw {
		byKey[r.SiteName+"\x00"+strconv.Itoa(r.Version)] = r
	}
	first := map[string]Row{}
	removed := map[string]int{} //earliest post-addition version with zero biomass
	for _, r := range raw {
		if _, ok := first[r.SiteName]; !ok {
			first[r.SiteName] = r
		}
		if r.Biomass == 0 && r.Version > added[r.SiteName] {
			if cur, ok := removed[r.SiteName]; !ok || r.Version < cur {
				removed[r.SiteName] = r.Version
			}
		}
	}
	t := &Table{NVersions: nVersions}
	for v := 1; v <= nVersions; v++ {
		for _, farm := range farms {
			if r, ok := byKey[farm+"\x00"+strconv.Itoa(v)]; ok {
				r.FarmAdded = added[farm]
				t.Rows = append(t.Rows, r)
				continue
			}
			r := first[farm]
			r.Version = v
			r.FarmAdded = added[farm]
			r.Notes = ""
			bio := tdisp(first[farm].Biomass)
			switch {
			case added[farm] > v:
				r.Biomass = 0
				r.Comment = fmt.Sprintf("No entry in table -> biomass=0; (set to %s tonnes in version %d)", bio, added[farm])
			case removed[farm] > 0:
				r.Biomass = 0
				r.Comment = fmt.Sprintf("No entry in table; was %s tonnes, removed in version %d", bio, removed[farm])
			default:
				r.Comment = fmt.Sprintf("No entry in table; using value %s tonnes from version %d", bio, added[farm])
			}
			t.Rows = append(t.Rows, r)
		}
	}
	return t
}

//tdisp formats a number the way the report tables do: no decimals when
//whole, one otherwise.
func tdisp(x float64) string {
	if math.IsNaN(x) {
		return "NaN"
	}
	if x == math.Trunc(x) {
		return strconv.FormatInt(int64(x), 10)
	}
	return strconv.FormatFloat(x, 'f', 1, 64)
}

// ResolveVersions maps requested version numbers to real ones: 0 means the
// latest, negative numbers count back from the latest, All expands to every
// version. Duplicates and out-of-range versions are dropped, order is kept.
func (t *Table) ResolveVersions(versions ...int) []int {
	if len(versions) == 0 {
		versions = []int{1}
	}
	var out []int
	seen := map[int]bool{}
	push := func(v int) {
		if v >= 1 && v <= t.NVersions && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range versions {
		switch {
		case v == All:
			for i := 1; i <= t.NVersions; i++ {
				push(i)
			}
		case v == 0:
			push(t.NVersions)
		case v < 0:
			push(t.NVersions + v)
		default:
			push(v)
		}
	}
	return out
}

// Select returns the rows for the given sites or models and versions. Each
// query is first tried as a model name (exact, ignoring case); queries that
// match no model fall back to closest site-name matching. No queries means
// every site.
func (t *Table) Select(queries []string, versions ...int) ([]Row, error) {
	vs := t.ResolveVersions(versions...)
	keep := t.siteFilter(queries)
	if keep == nil && len(queries) > 0 {
		return nil, Error{message: NoMatch + ": " + strings.Join(queries, ", "), deco: []string{"Select"}}
	}
	var out []Row
	for _, v := range vs {
		for _, r := range t.Rows {
			if r.Version != v {
				continue
			}
			if keep == nil || keep[r.SiteName] {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

//siteFilter returns the matched site set, or nil for "everything" when no
//queries were given. With queries and no matches it also returns nil; the
//caller tells the cases apart by len(queries).
func (t *Table) siteFilter(queries []string) map[string]bool {
	if len(queries) == 0 {
		return nil
	}
	models := map[string]string{} //folded model -> canonical
	var sites []string
	seenSite := map[string]bool{}
	for _, r := range t.Rows {
		if r.Model != "" {
			models[strings.ToLower(strings.TrimSpace(r.Model))] = r.Model
		}
		if !seenSite[r.SiteName] {
			seenSite[r.SiteName] = true
			sites = append(sites, r.SiteName)
		}
	}
	var matchedModels []string
	for _, q := range queries {
		if m, ok := models[strings.ToLower(strings.TrimSpace(q))]; ok {
			matchedModels = append(matchedModels, m)
		}
	}
	keep := map[string]bool{}
	if len(matchedModels) > 0 {
		for _, r := range t.Rows {
			for _, m := range matchedModels {
				if r.Model == m {
					keep[r.SiteName] = true
				}
			}
		}
		return keep
	}
	for _, q := range queries {
		for _, s := range search.ClosestMatch(sites, q) {
			keep[s] = true
		}
	}
	if len(keep) == 0 {
		return nil
	}
	return keep
}

// Compare returns the rows of the first version whose farm is missing from
// the second or differs in any field other than Version, Notes and Comment.
func (t *Table) Compare(queries []string, va, vb int) ([]Row, error) {
	vs := t.ResolveVersions(va, vb)
	if len(vs) != 2 {
		return nil, Error{message: BadComparison, deco: []string{"Compare"}}
	}
	a, err := t.Select(queries, vs[0])
	if err != nil {
		return nil, errDecorate(err, "Compare")
	}
	b, err := t.Select(queries, vs[1])
	if err != nil {
		return nil, errDecorate(err, "Compare")
	}
	other := map[string]Row{}
	for _, r := range b {
		other[r.SiteName] = r
	}
	var out []Row
	for _, r := range a {
		o, ok := other[r.SiteName]
		if !ok || differs(r, o) {
			out = append(out, r)
		}
	}
	return out, nil
}

func differs(a, b Row) bool {
	return a.SiteName != b.SiteName || a.Model != b.Model ||
		!sameFloat(a.Biomass, b.Biomass) || !sameFloat(a.LicePerFish, b.LicePerFish) ||
		!sameFloat(a.Easting, b.Easting) || !sameFloat(a.Northing, b.Northing)
}

func sameFloat(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}

//readVersionCSV reads one release file. Columns are located by header name,
//so column order does not matter; unknown columns are ignored.
func readVersionCSV(name string, version int) ([]Row, error) {
	fin, err := os.Open(name)
	if err != nil {
		return nil, Error{message: UnableToOpen + ": " + err.Error(), deco: []string{"readVersionCSV"}}
	}
	defer fin.Close()
	r := csv.NewReader(fin)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, Error{message: MalformedRecord + ": " + name, deco: []string{"readVersionCSV"}}
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := col["sitename"]; !ok {
		return nil, Error{message: MissingColumn + ": SiteName in " + name, deco: []string{"readVersionCSV"}}
	}
	get := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	num := func(rec []string, name string) float64 {
		s := get(rec, name)
		if s == "" {
			return math.NaN()
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return v
	}
	var rows []Row
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, Error{message: MalformedRecord + ": " + err.Error(), deco: []string{"readVersionCSV"}}
		}
		site := get(rec, "sitename")
		if site == "" {
			continue
		}
		rows = append(rows, Row{
			SiteName:    site,
			Model:       get(rec, "model"),
			Biomass:     num(rec, "biomass"),
			LicePerFish: num(rec, "liceperfish"),
			Easting:     num(rec, "easting"),
			Northing:    num(rec, "northing"),
			Notes:       get(rec, "notes"),
			Version:     version,
		})
	}
	return rows, nil
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

// Error is the error type for source tables. It fulfills part.Error.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string { return "source error: " + err.message }

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
	NoVersions      = "No version files in directory"
	NoMatch         = "No site or model matches"
	BadComparison   = "Comparison needs exactly two distinct versions"
	UnableToOpen    = "Unable to open file"
	MalformedRecord = "Malformed record"
	MissingColumn   = "Missing column"
)
