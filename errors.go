package part

import "fmt"

// CError is the concrete error type for the root package. It fulfills part.Error.
type CError struct {
	msg  string
	deco []string
}

func (err CError) Error() string { return err.msg }

// Decorate adds new information to the error.
func (err CError) Decorate(deco string) []string {
	//Even though this method does not use a pointer as a receiver, and tries to alter the receiver,
	//it should work, since err.deco is a slice, and hence a pointer itself.
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

func newError(caller, msg string) CError {
	return CError{msg: msg, deco: []string{caller}}
}

func newErrorf(caller, format string, a ...interface{}) CError {
	return newError(caller, fmt.Sprintf(format, a...))
}

//errDecorate asserts that the error implements part.Error and decorates it with the
//caller's name before returning it. It panics when used with any other error type.
func errDecorate(err error, caller string) error {
	err2 := err.(Error)
	err2.Decorate(caller)
	return err2
}

const (
	ShapeMismatch    = "Shapes of the given matrices do not match"
	MaskMismatch     = "Mask length matches neither dimension"
	UnknownCode      = "No variable with the given code"
	EmptyFields      = "Empty field map given"
	MalformedMesh    = "Malformed mesh"
	NotEnoughSpace   = "Not enough space in the passed slice"
	WrongDimensions  = "Wrong dimensions for the given data"
	NilData          = "Given nil data"
	OutsideOfMesh    = "Point outside of the mesh"
	NonEquidistant   = "Non-equidistant timesteps"
	EmptyFilter      = "Filter keeps nothing"
	UnknownStatistic = "Unknown statistic requested"
)
