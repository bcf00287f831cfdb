package trackfile

import (
	part "github.com/sepamod/gopart"
	"gonum.org/v1/gonum/mat"
)

//Wire structures. Only ever change these by adding fields, and bump
//formatVersion when doing so; gob tolerates unknown fields in neither
//direction once the stream is compressed and archived.

type wireTracks struct {
	Name        string
	Domain      string
	TimeSpacing int
	NP, NT      int
	Codes       []string
	DateTime    []float64
	Vars        map[string][]float64 //row-major, NP x NT each
}

type wireMesh struct {
	X, Y, Z    []float64
	Elements   [][3]int
	ZRows      int
	ZCols      int
	ZCoord     []float64 //row-major surface elevation, empty if absent
}

type wireFields struct {
	Keys []string
	Rows []int
	Cols []int
	Data [][]float64 //row-major, parallel to Keys
}

// SaveTracks writes a TrackSet to a track file.
func SaveTracks(name string, T *part.TrackSet) error {
	if T == nil {
		return Error{NilData, name, []string{"SaveTracks"}, true}
	}
	w := wireTracks{
		Name:        T.Name(),
		Domain:      T.Domain(),
		TimeSpacing: T.TimeSpacing(),
		NP:          T.NParticles(),
		NT:          T.NSteps(),
		Codes:       T.Codes(),
		DateTime:    T.DateTime(),
		Vars:        make(map[string][]float64, len(T.Codes())),
	}
	for _, c := range w.Codes {
		v, err := T.Var(c)
		if err != nil {
			return errDecorate(err, "SaveTracks")
		}
		w.Vars[c] = denseData(v)
	}
	return save(name, KindTracks, w)
}

// LoadTracks reads a TrackSet back from a track file.
func LoadTracks(name string) (*part.TrackSet, error) {
	var w wireTracks
	if err := load(name, KindTracks, &w); err != nil {
		return nil, errDecorate(err, "LoadTracks")
	}
	T := part.NewTrackSet(nil, w.NP, w.NT)
	T.SetName(w.Name)
	T.SetDomain(w.Domain)
	T.SetTimeSpacing(w.TimeSpacing)
	if err := T.SetDateTime(w.DateTime); err != nil {
		return nil, errDecorate(err, "LoadTracks")
	}
	for _, c := range w.Codes {
		d, ok := w.Vars[c]
		if !ok || len(d) != w.NP*w.NT {
			return nil, Error{WrongFormat + ": truncated variable " + c, name, []string{"LoadTracks"}, true}
		}
		if err := T.SetVar(c, mat.NewDense(w.NP, w.NT, d)); err != nil {
			return nil, errDecorate(err, "LoadTracks")
		}
	}
	return T, nil
}

// SaveMesh writes a mesh (and its surface elevation series, if attached) to a
// track file.
func SaveMesh(name string, M *part.Mesh) error {
	if M == nil {
		return Error{NilData, name, []string{"SaveMesh"}, true}
	}
	w := wireMesh{
		X:        make([]float64, M.NNodes()),
		Y:        make([]float64, M.NNodes()),
		Z:        make([]float64, M.NNodes()),
		Elements: make([][3]int, M.NElements()),
	}
	for n := 0; n < M.NNodes(); n++ {
		w.X[n], w.Y[n], w.Z[n] = M.Node(n)
	}
	for e := 0; e < M.NElements(); e++ {
		w.Elements[e] = M.Element(e)
	}
	if zc := M.SurfaceElevation(); zc != nil {
		w.ZRows, w.ZCols = zc.Dims()
		w.ZCoord = denseData(zc)
	}
	return save(name, KindMesh, w)
}

// LoadMesh reads a mesh back from a track file.
func LoadMesh(name string) (*part.Mesh, error) {
	var w wireMesh
	if err := load(name, KindMesh, &w); err != nil {
		return nil, errDecorate(err, "LoadMesh")
	}
	M, err := part.NewMesh(w.X, w.Y, w.Z, w.Elements, false)
	if err != nil {
		return nil, errDecorate(err, "LoadMesh")
	}
	if len(w.ZCoord) > 0 {
		if len(w.ZCoord) != w.ZRows*w.ZCols {
			return nil, Error{WrongFormat + ": truncated surface elevation", name, []string{"LoadMesh"}, true}
		}
		if err := M.SetSurfaceElevation(mat.NewDense(w.ZRows, w.ZCols, w.ZCoord)); err != nil {
			return nil, errDecorate(err, "LoadMesh")
		}
	}
	return M, nil
}

// SaveFields writes a per-site field map to a track file.
func SaveFields(name string, f part.Fields) error {
	if f == nil {
		return Error{NilData, name, []string{"SaveFields"}, true}
	}
	var w wireFields
	for k, v := range f {
		r, c := v.Dims()
		w.Keys = append(w.Keys, k)
		w.Rows = append(w.Rows, r)
		w.Cols = append(w.Cols, c)
		w.Data = append(w.Data, denseData(v))
	}
	return save(name, KindFields, w)
}

// LoadFields reads a per-site field map back from a track file.
func LoadFields(name string) (part.Fields, error) {
	var w wireFields
	if err := load(name, KindFields, &w); err != nil {
		return nil, errDecorate(err, "LoadFields")
	}
	f := make(part.Fields, len(w.Keys))
	for i, k := range w.Keys {
		if len(w.Data[i]) != w.Rows[i]*w.Cols[i] {
			return nil, Error{WrongFormat + ": truncated field " + k, name, []string{"LoadFields"}, true}
		}
		f[k] = mat.NewDense(w.Rows[i], w.Cols[i], w.Data[i])
	}
	return f, nil
}
