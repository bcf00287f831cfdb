package part

import (
	"math"
	"time"
)

//The upstream processing chain stores every timestamp as a MATLAB serial date
//number: days since the proleptic year 0, so 1970-01-01 00:00:00 is 719529.

const datenumUnixEpoch = 719529.0

// Datenum converts a time to a MATLAB serial date number. The time is taken as
// a wall-clock timestamp, ignoring its location.
func Datenum(t time.Time) float64 {
	_, offset := t.Zone()
	secs := float64(t.Unix() + int64(offset))
	return datenumUnixEpoch + secs/86400.0
}

// FromDatenum converts a MATLAB serial date number back to a UTC time,
// rounded to the nearest second.
func FromDatenum(d float64) time.Time {
	secs := math.Round((d - datenumUnixEpoch) * 86400.0)
	return time.Unix(int64(secs), 0).UTC()
}

// WholeHour returns true if the time falls exactly on an hour boundary.
func WholeHour(t time.Time) bool {
	return t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
