package conc

import (
	part "github.com/sepamod/gopart"
	"gonum.org/v1/gonum/mat"
)

//Concentration and exposure fields come out of the model in mass units for a
//nominal particle mass. Screening work rescales them per farm, either by a
//constant or by a time-varying factor (biomass on a farm changes through a
//production cycle).

// Scale returns a copy of the field map with every matrix multiplied by a
// single factor.
func Scale(f part.Fields, factor float64) part.Fields {
	out := make(part.Fields, len(f))
	for k, v := range f {
		d := mat.DenseCopyOf(v)
		d.Scale(factor, d)
		out[k] = d
	}
	return out
}

// ScalePerSite multiplies each site's matrix by its own factor. Every site in
// the map must have a factor.
func ScalePerSite(f part.Fields, factors map[string]float64) (part.Fields, error) {
	out := make(part.Fields, len(f))
	for k, v := range f {
		sf, ok := factors[k]
		if !ok {
			return nil, Error{message: MissingFactor + ": " + k, deco: []string{"ScalePerSite"}}
		}
		d := mat.DenseCopyOf(v)
		d.Scale(sf, d)
		out[k] = d
	}
	return out, nil
}

// ScalePerStep multiplies each site's matrix column-by-column by a per-site,
// per-timestep factor slice, which must be as long as the matrix is wide.
func ScalePerStep(f part.Fields, factors map[string][]float64) (part.Fields, error) {
	out := make(part.Fields, len(f))
	for k, v := range f {
		sf, ok := factors[k]
		if !ok {
			return nil, Error{message: MissingFactor + ": " + k, deco: []string{"ScalePerStep"}}
		}
		r, c := v.Dims()
		if len(sf) != c {
			return nil, Error{message: ShapeMismatch + ": " + k, deco: []string{"ScalePerStep"}}
		}
		d := mat.DenseCopyOf(v)
		for t := 0; t < c; t++ {
			for i := 0; i < r; i++ {
				d.Set(i, t, d.At(i, t)*sf[t])
			}
		}
		out[k] = d
	}
	return out, nil
}

// LiceParams holds the source-term assumptions for converting farm biomass to
// a lice-per-particle scale factor.
type LiceParams struct {
	Overfill       float64 //operators keep stock near consented maximum
	MassPerFish    float64 //kg
	LicePerFish    float64 //adult ovigerous females per fish
	NewLicePerDay  float64 //nauplii per adult female per day
	ReleaseSpacing float64 //minutes between particle releases
	ParticleMass   float64 //µg represented by one particle
}

// DefaultLiceParams returns the standard screening assumptions.
func DefaultLiceParams() LiceParams {
	return LiceParams{
		Overfill:       1.75,
		MassPerFish:    5.0,
		LicePerFish:    0.4,
		NewLicePerDay:  30.0,
		ReleaseSpacing: 5.0,
		ParticleMass:   1e9,
	}
}

// BiomassToLice converts a farm biomass in tonnes to the factor that rescales
// a nominal-mass concentration or exposure field into lice numbers.
func BiomassToLice(biomass float64, p LiceParams) float64 {
	fish := biomass * 1000 * p.Overfill / p.MassPerFish
	lice := fish * p.LicePerFish
	newPerDay := lice * p.NewLicePerDay
	particlesPerDay := 24 * 60 / p.ReleaseSpacing
	licePerParticle := newPerDay / particlesPerDay
	return licePerParticle / p.ParticleMass
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

// Error is the error type for concentration calculations. It fulfills part.Error.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string { return "conc error: " + err.message }

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
	ShapeMismatch = "Shapes of the given data do not match"
	MissingFactor = "No scale factor for site"
)
