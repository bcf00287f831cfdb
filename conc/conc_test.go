package conc

import (
	"math"
	"testing"

	part "github.com/sepamod/gopart"
	"gonum.org/v1/gonum/mat"
)

func testMesh(Te *testing.T) *part.Mesh {
	M, err := part.NewMesh(
		[]float64{0, 1, 1, 0},
		[]float64{0, 0, 1, 1},
		[]float64{-2, -2, -2, -2},
		[][3]int{{0, 1, 2}, {0, 2, 3}}, false)
	if err != nil {
		Te.Fatal(err)
	}
	return M
}

//Two particles over two steps. Particle 0 sits in element 0 throughout;
//particle 1 starts in element 1 and leaves the mesh at the second step.
func testTracks() *part.TrackSet {
	nan := math.NaN()
	T := part.NewTrackSet(nil, 2, 2)
	T.SetVar(VarX, mat.NewDense(2, 2, []float64{0.75, 0.75, 0.25, nan}))
	T.SetVar(VarY, mat.NewDense(2, 2, []float64{0.25, 0.25, 0.75, nan}))
	T.SetVar(VarZ, mat.NewDense(2, 2, []float64{-0.5, -0.5, -0.5, nan}))
	T.SetVar(VarActive, mat.NewDense(2, 2, []float64{1, 1, 1, 1}))
	T.SetDateTime([]float64{738838.0, 738838.25})
	return T
}

func TestMapToMesh(Te *testing.T) {
	M := testMesh(Te)
	M.SetSurfaceElevation(mat.NewDense(4, 2, nil)) //flat surface at z=0
	T := testTracks()
	if err := MapToMesh(T, M, MapOptions{Workers: 2}); err != nil {
		Te.Fatal(err)
	}
	mi, err := T.Var(VarMeshIndex)
	if err != nil {
		Te.Fatal(err)
	}
	if mi.At(0, 0) != 1 || mi.At(0, 1) != 1 || mi.At(1, 0) != 2 {
		Te.Errorf("wrong mesh indexes: %v", mat.Formatted(mi))
	}
	if !math.IsNaN(mi.At(1, 1)) {
		Te.Error("particle outside the mesh should have NaN meshIndex")
	}
	depth, err := T.Var(VarDepth)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(depth.At(0, 0)-0.5) > 1e-12 {
		Te.Errorf("depth below surface = %v, want 0.5", depth.At(0, 0))
	}
	ws, _ := T.Var(VarSurface)
	if math.Abs(ws.At(0, 0)) > 1e-12 {
		Te.Errorf("water surface = %v, want 0", ws.At(0, 0))
	}
}

func TestCalculateVolumetric(Te *testing.T) {
	M := testMesh(Te)
	T := testTracks()
	if err := MapToMesh(T, M, MapOptions{}); err != nil {
		Te.Fatal(err)
	}
	c, err := Calculate(T, M, Options{Scale: 1})
	if err != nil {
		Te.Fatal(err)
	}
	//area 0.5, mean depth 2 -> divide each count by 1
	want := [][]float64{{1, 1}, {1, 0}}
	for e := range want {
		for t := range want[e] {
			if math.Abs(c.At(e, t)-want[e][t]) > 1e-12 {
				Te.Errorf("conc[%d,%d] = %v, want %v", e, t, c.At(e, t), want[e][t])
			}
		}
	}
}

func TestCalculateSurface(Te *testing.T) {
	M := testMesh(Te)
	M.SetSurfaceElevation(mat.NewDense(4, 2, nil))
	T := testTracks()
	if err := MapToMesh(T, M, MapOptions{}); err != nil {
		Te.Fatal(err)
	}
	//particles sit 0.5 below the surface: a 0.4 cutoff excludes them all
	c, err := Calculate(T, M, Options{Surface: true, ZCutoff: 0.4, Scale: 1})
	if err != nil {
		Te.Fatal(err)
	}
	if c.At(0, 0) != 0 {
		Te.Errorf("conc[0,0] = %v, want 0 with a 0.4 m cutoff", c.At(0, 0))
	}
	//a 1 m cutoff includes them: count/area = 1/0.5
	c, err = Calculate(T, M, Options{Surface: true, ZCutoff: 1.0, Scale: 1})
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(c.At(0, 0)-2.0) > 1e-12 {
		Te.Errorf("conc[0,0] = %v, want 2", c.At(0, 0))
	}
	//surface mode without mapping depth must fail
	T2 := testTracks()
	M2 := testMesh(Te)
	if err := MapToMesh(T2, M2, MapOptions{}); err != nil {
		Te.Fatal(err)
	}
	if _, err := Calculate(T2, M2, Options{Surface: true}); err == nil {
		Te.Error("expected an error without depthBelowSurface")
	}
}

func TestScaling(Te *testing.T) {
	f := part.Fields{
		"FarmA": mat.NewDense(1, 2, []float64{1, 2}),
		"FarmB": mat.NewDense(1, 2, []float64{3, 4}),
	}
	s := Scale(f, 2)
	if s["FarmA"].At(0, 1) != 4 || s["FarmB"].At(0, 0) != 6 {
		Te.Error("uniform scale wrong")
	}
	if f["FarmA"].At(0, 0) != 1 {
		Te.Error("Scale must not modify its input")
	}
	ps, err := ScalePerSite(f, map[string]float64{"FarmA": 10, "FarmB": 0.5})
	if err != nil {
		Te.Fatal(err)
	}
	if ps["FarmA"].At(0, 0) != 10 || ps["FarmB"].At(0, 1) != 2 {
		Te.Error("per-site scale wrong")
	}
	if _, err := ScalePerSite(f, map[string]float64{"FarmA": 1}); err == nil {
		Te.Error("expected a missing factor error")
	}
	ts, err := ScalePerStep(f, map[string][]float64{"FarmA": {1, 10}, "FarmB": {100, 1}})
	if err != nil {
		Te.Fatal(err)
	}
	if ts["FarmA"].At(0, 1) != 20 || ts["FarmB"].At(0, 0) != 300 {
		Te.Error("per-step scale wrong")
	}
	if _, err := ScalePerStep(f, map[string][]float64{"FarmA": {1}, "FarmB": {1, 1}}); err == nil {
		Te.Error("expected a length error")
	}
}

func TestBiomassToLice(Te *testing.T) {
	sf := BiomassToLice(1000, DefaultLiceParams())
	//350000 fish, 140000 lice, 4.2e6 new lice/day, 288 particles/day
	want := 4.2e6 / 288.0 / 1e9
	if math.Abs(sf-want)/want > 1e-12 {
		Te.Errorf("scale factor = %v, want %v", sf, want)
	}
}
