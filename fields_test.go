package part

import (
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func testFields() Fields {
	nan := math.NaN()
	return Fields{
		"FarmA": mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}),
		"FarmB": mat.NewDense(2, 3, []float64{10, 20, 30, nan, 50, 60}),
	}
}

func TestFilterFields(Te *testing.T) {
	f := testFields()
	//mask length 3 matches columns
	out, err := FilterFields(f, []bool{true, false, true})
	if err != nil {
		Te.Fatal(err)
	}
	a := out["FarmA"]
	if r, c := a.Dims(); r != 2 || c != 2 {
		Te.Fatalf("column filter gave %dx%d", r, c)
	}
	if a.At(1, 1) != 6 {
		Te.Errorf("wrong value after filter: %v", a.At(1, 1))
	}
	//mask length 2 matches rows
	out, err = FilterFields(f, []bool{false, true})
	if err != nil {
		Te.Fatal(err)
	}
	if r, c := out["FarmA"].Dims(); r != 1 || c != 3 {
		Te.Fatalf("row filter gave %dx%d", r, c)
	}
	if _, err = FilterFields(f, []bool{true}); err == nil {
		Te.Error("expected a mask length error")
	}
}

func TestSumFields(Te *testing.T) {
	f := Fields{
		"a": mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
		"b": mat.NewDense(2, 2, []float64{10, 20, 30, 40}),
	}
	total, err := SumFields(f)
	if err != nil {
		Te.Fatal(err)
	}
	if total.At(1, 0) != 33 {
		Te.Errorf("sum gave %v, want 33", total.At(1, 0))
	}
	f["c"] = mat.NewDense(1, 2, nil)
	if _, err = SumFields(f); err == nil {
		Te.Error("expected a shape error")
	}
	if _, err = SumFields(Fields{}); err == nil {
		Te.Error("expected an empty map error")
	}
}

func TestCompareFields(Te *testing.T) {
	a := testFields()
	b := testFields()
	rep := CompareFields(a, b, 1e-12, 1e-14)
	if !rep.Clean() {
		Te.Errorf("identical maps (NaNs included) should compare clean: %+v", rep)
	}
	b["FarmA"].Set(0, 0, 1.5)
	delete(b, "FarmB")
	b["FarmC"] = mat.NewDense(1, 1, nil)
	rep = CompareFields(a, b, 1e-12, 1e-14)
	if rep["FarmA"].Status != FieldMismatch {
		Te.Errorf("FarmA should mismatch: %+v", rep["FarmA"])
	}
	if math.Abs(rep["FarmA"].MaxDiscrepancy-0.5) > 1e-12 {
		Te.Errorf("max discrepancy = %v, want 0.5", rep["FarmA"].MaxDiscrepancy)
	}
	if rep["FarmB"].Status != FieldMissingInB || rep["FarmC"].Status != FieldMissingInA {
		Te.Errorf("missing keys not reported: %+v", rep)
	}
}

func TestFieldShapesAndCompareValues(Te *testing.T) {
	s := FieldShapes(testFields())
	if !strings.Contains(s, "FarmA: shape 2x3") {
		Te.Errorf("unexpected shape listing:\n%s", s)
	}
	onlyX, onlyY := CompareValues([]string{"a", "b", "b"}, []string{"b", "c"})
	if len(onlyX) != 1 || onlyX[0] != "a" || len(onlyY) != 1 || onlyY[0] != "c" {
		Te.Errorf("set difference wrong: %v %v", onlyX, onlyY)
	}
}
