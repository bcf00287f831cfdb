package tracks

import "math"

// Track is anything with per-point coordinates: a full particle track (x, y)
// or a legged fish track (x0/y0 per leg plus the final x1/y1).
type Track struct {
	X, Y   []float64 //full track coordinates
	X0, Y0 []float64 //leg start points
	X1, Y1 []float64 //leg end points
}

// Coordinates returns the x and y of a track. For legged tracks the result is
// the leg start points plus the last end point, the convention of the fish
// track files. When several tracks are given they are joined with a single
// NaN between consecutive tracks, which plotting treats as a pen-up.
func Coordinates(ts ...*Track) (x, y []float64) {
	for i, t := range ts {
		if i > 0 {
			x = append(x, math.NaN())
			y = append(y, math.NaN())
		}
		tx, ty := single(t)
		x = append(x, tx...)
		y = append(y, ty...)
	}
	if len(x) == 0 {
		return []float64{math.NaN()}, []float64{math.NaN()}
	}
	return x, y
}

func single(t *Track) (x, y []float64) {
	if len(t.X0) > 0 && len(t.X1) > 0 {
		x = append(x, t.X0...)
		x = append(x, t.X1[len(t.X1)-1])
		y = append(y, t.Y0...)
		y = append(y, t.Y1[len(t.Y1)-1])
		return x, y
	}
	return t.X, t.Y
}
