package exposure

import (
	part "github.com/sepamod/gopart"
	"github.com/sepamod/gopart/trackfile"
	"github.com/sepamod/gopart/tracks"
	"gonum.org/v1/gonum/mat"
)

//A stored exposure file is a fields file whose "x" and "y" entries carry the
//track coordinates and whose remaining entries are per-site exposure
//matrices. The file name is the track code, so the classification can be
//recovered without the geography files at hand.

// Summary is everything known about one stored track exposure: where the
// fish went, what it was exposed to, and the per-site and overall totals.
type Summary struct {
	Description *tracks.Description
	X, Y        []float64
	Exposure    part.Fields
	PerSite     map[string][]float64
	Total       []float64
}

// Summarize loads a stored exposure file and assembles its summary. The
// geography may be nil, in which case the description carries IDs only.
func Summarize(name string, geo *tracks.Geography, defaultVersion int) (*Summary, error) {
	f, err := trackfile.LoadFields(name)
	if err != nil {
		return nil, errDecorate(err, "Summarize")
	}
	s := new(Summary)
	xm, okx := f["x"]
	ym, oky := f["y"]
	if !okx || !oky {
		return nil, Error{message: MissingCoords + ": " + name, deco: []string{"Summarize"}}
	}
	s.X = rowVector(xm)
	s.Y = rowVector(ym)
	delete(f, "x")
	delete(f, "y")
	s.Exposure = f
	s.Description, err = tracks.ParseCode(name, geo, defaultVersion)
	if err != nil {
		return nil, errDecorate(err, "Summarize")
	}
	s.PerSite, s.Total, err = Totals(f)
	if err != nil {
		return nil, errDecorate(err, "Summarize")
	}
	return s, nil
}

func rowVector(m *mat.Dense) []float64 {
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out = append(out, m.At(i, j))
		}
	}
	return out
}
