/*
 * partplot.go, part of goPart.
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

//Package partplot draws quick-look figures of particle tracks and of
//concentration or exposure series. These are working plots for checking a
//run, not report figures.
package partplot

import (
	"image/color"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Options holds the common figure settings. Zero values get sensible
// defaults.
type Options struct {
	Title  string
	XLabel string
	YLabel string
	Width  vg.Length //0 means 15 cm
	Height vg.Length //0 means 10 cm
}

func (o *Options) fill() {
	if o.Width == 0 {
		o.Width = 15 * vg.Centimeter
	}
	if o.Height == 0 {
		o.Height = 10 * vg.Centimeter
	}
}

func basicPlot(o *Options) *plot.Plot {
	p := plot.New()
	p.Title.Padding = vg.Millimeter * 3
	p.Title.Text = o.Title
	p.X.Label.Text = o.XLabel
	p.Y.Label.Text = o.YLabel
	p.Add(plotter.NewGrid())
	return p
}

// Tracks plots track paths to a png file. The coordinate slices may hold
// several tracks separated by NaN, the convention of the tracks package;
// each gets its own color.
func Tracks(x, y []float64, plotname string, o Options) error {
	if len(x) == 0 || len(x) != len(y) {
		return Error{message: BadData, deco: []string{"Tracks"}}
	}
	o.fill()
	if o.XLabel == "" {
		o.XLabel = "Longitude"
	}
	if o.YLabel == "" {
		o.YLabel = "Latitude"
	}
	p := basicPlot(&o)
	segments := split(x, y)
	for i, seg := range segments {
		l, err := plotter.NewLine(seg)
		if err != nil {
			return Error{message: err.Error(), deco: []string{"Tracks"}}
		}
		r, g, b := colors(i, len(segments))
		l.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		p.Add(l)
	}
	if err := p.Save(o.Width, o.Height, pngName(plotname)); err != nil {
		return Error{message: err.Error(), deco: []string{"Tracks"}}
	}
	return nil
}

// Series plots one line per named series against a common abscissa (datenum
// or timestep number) to a png file, with a legend.
func Series(t []float64, series map[string][]float64, plotname string, o Options) error {
	if len(t) == 0 || len(series) == 0 {
		return Error{message: BadData, deco: []string{"Series"}}
	}
	o.fill()
	p := basicPlot(&o)
	keys := make([]string, 0, len(series))
	for k := range series {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		v := series[k]
		if len(v) != len(t) {
			return Error{message: BadData + ": " + k, deco: []string{"Series"}}
		}
		xys := make(plotter.XYs, len(t))
		for j := range t {
			xys[j].X = t[j]
			xys[j].Y = v[j]
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return Error{message: err.Error(), deco: []string{"Series"}}
		}
		r, g, b := colors(i, len(keys))
		l.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		p.Add(l)
		p.Legend.Add(k, l)
	}
	if err := p.Save(o.Width, o.Height, pngName(plotname)); err != nil {
		return Error{message: err.Error(), deco: []string{"Series"}}
	}
	return nil
}

func pngName(name string) string {
	if strings.HasSuffix(name, ".png") {
		return name
	}
	return name + ".png"
}

//split cuts NaN-separated coordinates into individual polylines.
func split(x, y []float64) []plotter.XYs {
	var out []plotter.XYs
	var cur plotter.XYs
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: x[i], Y: y[i]})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

//takes hue (0-360), v and s (0-1), returns r,g,b (0-255)
func iHVS2RGB(h, v, s float64) (uint8, uint8, uint8) {
	var i, f, p, q, t float64
	var r, g, b float64
	maxcolor := 255.0
	conversion := maxcolor * v
	if s == 0.0 {
		return uint8(conversion), uint8(conversion), uint8(conversion)
	}
	h = h / 60
	i = math.Floor(h)
	f = h - i
	p = v * (1 - s)
	q = v * (1 - s*f)
	t = v * (1 - s*(1-f))
	switch int(i) {
	case 0:
		r = v
		g = t
		b = p
	case 1:
		r = q
		g = v
		b = p
	case 2:
		r = p
		g = v
		b = t
	case 3:
		r = p
		g = q
		b = v
	case 4:
		r = t
		g = p
		b = v
	default: //case 5
		r = v
		g = p
		b = q
	}
	r = r * conversion
	g = g * conversion
	b = b * conversion
	return uint8(r), uint8(g), uint8(b)
}

func colors(key, steps int) (r, g, b uint8) {
	norm := 260.0 / float64(steps)
	hp := float64(key)*norm + 20.0
	var h float64
	if hp < 55 {
		h = hp - 20.0
	} else {
		h = hp + 20.0
	}
	return iHVS2RGB(h, 1.0, 1.0)
}

//Errors

// Error is the error type for plotting. It fulfills part.Error.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string { return "partplot error: " + err.message }

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
	BadData = "Empty or mismatched plot data"
)
