package partplot

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestSplit(Te *testing.T) {
	nan := math.NaN()
	x := []float64{0, 1, nan, 2, 3, 4, nan}
	y := []float64{0, 1, nan, 2, 3, 4, nan}
	segs := split(x, y)
	if len(segs) != 2 {
		Te.Fatalf("got %d segments, want 2", len(segs))
	}
	if len(segs[0]) != 2 || len(segs[1]) != 3 {
		Te.Errorf("segment lengths %d, %d", len(segs[0]), len(segs[1]))
	}
	if segs[1][0].X != 2 {
		Te.Errorf("second segment starts at %v", segs[1][0].X)
	}
}

func TestTracks(Te *testing.T) {
	dir := Te.TempDir()
	name := filepath.Join(dir, "tracks")
	x := []float64{0, 1, 2, math.NaN(), 5, 6}
	y := []float64{0, 1, 0, math.NaN(), 5, 4}
	if err := Tracks(x, y, name, Options{Title: "Two tracks"}); err != nil {
		Te.Fatal(err)
	}
	if _, err := os.Stat(name + ".png"); err != nil {
		Te.Error("no png written")
	}
	if err := Tracks(nil, nil, name, Options{}); err == nil {
		Te.Error("expected an error for empty data")
	}
	if err := Tracks([]float64{1}, []float64{1, 2}, name, Options{}); err == nil {
		Te.Error("expected an error for mismatched lengths")
	}
}

func TestSeries(Te *testing.T) {
	dir := Te.TempDir()
	name := filepath.Join(dir, "series.png")
	t := []float64{1, 2, 3}
	s := map[string][]float64{
		"FarmA": {0, 1, 2},
		"FarmB": {2, 1, 0},
	}
	if err := Series(t, s, name, Options{Title: "Exposure", XLabel: "Datenum"}); err != nil {
		Te.Fatal(err)
	}
	if _, err := os.Stat(name); err != nil {
		Te.Error("no png written")
	}
	s["FarmB"] = []float64{1}
	if err := Series(t, s, name, Options{}); err == nil {
		Te.Error("expected an error for a short series")
	}
}
