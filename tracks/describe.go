/*
 * describe.go, part of goPart.
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

//Fish tracks are classified against the screening geography: which river the
//fish came out of, which shellfish-water protection zones its track crosses,
//and which water body it ends up in. The three IDs make up the track code
//used in file names, so a description can be recovered from a name alone.
package tracks

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// RiverMouth is one river outflow point.
type RiverMouth struct {
	ID          int
	Name        string
	Lon, Lat    float64
	ModelDomain int //0 when the mouth is outside every modelled domain
}

// WaterBody is one classified water body.
type WaterBody struct {
	ID   int
	Name string
	Poly *Polygon
}

// ProtectionZone is one shellfish-water protection zone.
type ProtectionZone struct {
	ID   int
	Name string
	Poly *Polygon
}

// Geography holds the screening geography a track is described against.
type Geography struct {
	RiverMouths []RiverMouth
	WaterBodies []WaterBody
	Zones       []ProtectionZone
}

// Description is the classification of one track.
type Description struct {
	Code          string
	RiverID       int
	RiverName     string
	ZoneIDs       []int
	ZoneNames     []string
	WaterBodyID   int
	WaterBodyName string
	Version       int
	FileName      string
}

// Describe classifies a track: river from the mouth nearest the start point
// (only mouths inside a modelled domain count), the protection zones the
// track passes through in first-crossed order, and the water body containing
// or nearest to the end point.
func Describe(x, y []float64, geo *Geography, version int) (*Description, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, Error{message: BadCoordinates, deco: []string{"Describe"}}
	}
	d := &Description{Version: version, WaterBodyID: -1, RiverID: -1}

	//river of origin
	bestD := math.Inf(1)
	for _, rm := range geo.RiverMouths {
		if rm.ModelDomain <= 0 {
			continue
		}
		dd := (rm.Lon-x[0])*(rm.Lon-x[0]) + (rm.Lat-y[0])*(rm.Lat-y[0])
		if dd < bestD {
			bestD = dd
			d.RiverID = rm.ID
			d.RiverName = rm.Name
		}
	}
	if d.RiverID < 0 {
		return nil, Error{message: NoRiverMouths, deco: []string{"Describe"}}
	}

	//protection zones traversed
	zonePolys := make([]*Polygon, len(geo.Zones))
	for i := range geo.Zones {
		zonePolys[i] = geo.Zones[i].Poly
	}
	seen := make(map[int]bool)
	for i := range x {
		zi := WhichPolygon(x[i], y[i], zonePolys)
		if zi < 0 || seen[zi] {
			continue
		}
		seen[zi] = true
		d.ZoneIDs = append(d.ZoneIDs, geo.Zones[zi].ID)
		d.ZoneNames = append(d.ZoneNames, geo.Zones[zi].Name)
	}

	//destination water body
	wbPolys := make([]*Polygon, len(geo.WaterBodies))
	for i := range geo.WaterBodies {
		wbPolys[i] = geo.WaterBodies[i].Poly
	}
	if wi := WhichClosest(x[len(x)-1], y[len(y)-1], wbPolys); wi >= 0 {
		d.WaterBodyID = geo.WaterBodies[wi].ID
		d.WaterBodyName = geo.WaterBodies[wi].Name
	}

	d.Code = makeCode(d.RiverID, d.ZoneIDs, d.WaterBodyID)
	d.FileName = d.Code + "_v" + strconv.Itoa(version) + ".tsf"
	return d, nil
}

func makeCode(river int, zones []int, wb int) string {
	zpart := "0"
	if len(zones) > 0 {
		zs := make([]string, len(zones))
		for i, z := range zones {
			zs[i] = strconv.Itoa(z)
		}
		zpart = strings.Join(zs, "_")
	}
	if wb < 0 {
		wb = 0
	}
	return fmt.Sprintf("%d_%s_%d", river, zpart, wb)
}

// ParseCode recovers a description from a track file name (or its stem),
// looking the names up in the geography. The expected form is
// river_zone..._waterbody, optionally followed by _v<version>.
func ParseCode(name string, geo *Geography, defaultVersion int) (*Description, error) {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	d := &Description{Version: defaultVersion}
	if i := strings.LastIndex(stem, "_v"); i >= 0 {
		if v, err := strconv.Atoi(stem[i+2:]); err == nil {
			d.Version = v
			stem = stem[:i]
		}
	}
	parts := strings.Split(stem, "_")
	if len(parts) < 3 {
		return nil, Error{message: BadCode + ": " + stem, deco: []string{"ParseCode"}}
	}
	ids := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, Error{message: BadCode + ": " + stem, deco: []string{"ParseCode"}}
		}
		ids[i] = v
	}
	d.RiverID = ids[0]
	d.WaterBodyID = ids[len(ids)-1]
	for _, z := range ids[1 : len(ids)-1] {
		if z != 0 {
			d.ZoneIDs = append(d.ZoneIDs, z)
		}
	}
	if geo != nil {
		for _, rm := range geo.RiverMouths {
			if rm.ID == d.RiverID {
				d.RiverName = rm.Name
				break
			}
		}
		for _, wb := range geo.WaterBodies {
			if wb.ID == d.WaterBodyID {
				d.WaterBodyName = wb.Name
				break
			}
		}
		for _, zid := range d.ZoneIDs {
			name := ""
			for _, z := range geo.Zones {
				if z.ID == zid {
					name = z.Name
					break
				}
			}
			d.ZoneNames = append(d.ZoneNames, name)
		}
	}
	d.Code = makeCode(d.RiverID, d.ZoneIDs, d.WaterBodyID)
	d.FileName = d.Code + "_v" + strconv.Itoa(d.Version) + ".tsf"
	return d, nil
}

//Errors

// Error is the error type for track classification. It fulfills part.Error.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string { return "tracks error: " + err.message }

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
	BadCoordinates = "Empty or mismatched track coordinates"
	NoRiverMouths  = "No river mouths inside a modelled domain"
	BadCode        = "Track code does not parse"
	ManyDomains    = "More than one model domain in the string"
)
