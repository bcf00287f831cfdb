package pstat

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestSummary(Te *testing.T) {
	nan := math.NaN()
	x := []float64{5, 1, nan, 3, 2, 4, nan}
	s, err := Summary(x)
	if err != nil {
		Te.Fatal(err)
	}
	want := map[string]float64{
		"length": 5,
		"mean":   3,
		"median": 3,
		"std":    math.Sqrt(2), //population std of 1..5
		"min":    1,
		"max":    5,
		"q95":    4.8,
	}
	for k, w := range want {
		if math.Abs(s[k]-w) > 1e-12 {
			Te.Errorf("%s = %v, want %v", k, s[k], w)
		}
	}
}

func TestQuantileInterpolation(Te *testing.T) {
	//the sample quantile sits at index p*(n-1), interpolated linearly
	cases := []struct {
		data []float64
		p, w float64
	}{
		{[]float64{1, 2, 3, 4, 5}, 0.5, 3},
		{[]float64{1, 2, 3, 4, 5}, 0.95, 4.8},
		{[]float64{1, 2, 3, 4}, 0.5, 2.5},
		{[]float64{1, 2, 3, 4}, 0.95, 3.85},
		{[]float64{7}, 0.95, 7},
		{[]float64{1, 2}, 0.25, 1.25},
	}
	for _, c := range cases {
		if got := quantile(c.data, c.p); math.Abs(got-c.w) > 1e-12 {
			Te.Errorf("quantile(%v, %v) = %v, want %v", c.data, c.p, got, c.w)
		}
	}
	if !math.IsNaN(quantile(nil, 0.5)) {
		Te.Error("empty data should give NaN")
	}
}

func TestSummarySelection(Te *testing.T) {
	s, err := Summary([]float64{1, 2, 3}, "mean", "max")
	if err != nil {
		Te.Fatal(err)
	}
	if len(s) != 3 { //mean, max and the always-on q95
		Te.Errorf("got %d statistics: %v", len(s), s)
	}
	if s["mean"] != 2 || s["max"] != 3 {
		Te.Errorf("summary = %v", s)
	}
	if _, err := Summary([]float64{1}, "mode"); err == nil {
		Te.Error("expected an unknown statistic error")
	}
}

func TestSummaryEmpty(Te *testing.T) {
	s, err := Summary([]float64{math.NaN(), math.NaN()})
	if err != nil {
		Te.Fatal(err)
	}
	//NaN results are reported as 0
	for k, v := range s {
		if v != 0 {
			Te.Errorf("%s = %v, want 0 for empty data", k, v)
		}
	}
	if _, err := Summary(nil, "mode"); err == nil {
		Te.Error("unknown statistics should error even on empty data")
	}
}

func TestSummaryDense(Te *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, math.NaN(), 3, 5})
	s, err := SummaryDense(m, "length", "mean")
	if err != nil {
		Te.Fatal(err)
	}
	if s["length"] != 3 || s["mean"] != 3 {
		Te.Errorf("summary = %v", s)
	}
	if _, err := SummaryDense(nil); err == nil {
		Te.Error("expected an error for nil data")
	}
}
