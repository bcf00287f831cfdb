package xmlpt

import (
	"fmt"

	part "github.com/sepamod/gopart"
)

//Errors

//errDecorate is a helper function that asserts that the error implements part.Error and
//decorates the error with the caller's name before returning it. If used with a
//non-part.Error error, it will cause a panic.
func errDecorate(err error, caller string) error {
	err2 := err.(part.Error)
	err2.Decorate(caller)
	return err2
}

// Error is the general structure for particle-XML reading errors. It fulfills
// part.Error and part.FileError.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("particle xml file %s error: %s", err.filename, err.message)
}

//Decorate adds new information to the error.
func (err Error) Decorate(deco string) []string {
	//Even though this method does not use a pointer as a receiver, and tries to alter the receiver,
	//it should work, since err.deco is a slice, and hence a pointer itself.
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//FileName returns the file to which the failing read was associated.
func (err Error) FileName() string { return err.filename }

//Format returns the format of the file associated to the error (always "xml").
func (err Error) Format() string { return "xml" }

//Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

const (
	UnableToOpen    = "Unable to open file"
	MissingTimes    = "StartTime or EndTime not found in the header"
	NoTimeSteps     = "No timestep numbers found in the header"
	NonEquidistant  = "Non-equidistant timesteps"
	NoCodes         = "No variable codes found in the header"
	NotADirectory   = "Not a directory"
	MalformedRecord = "Malformed record"
)
