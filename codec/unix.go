// Package codec holds the scalar wire codecs shared by entity encoding and
// request parameter encoding: epoch-second timestamps and second-valued
// durations.
package codec

import (
	"math"
	"time"
)

// TimeToEpoch converts a timestamp to integer epoch seconds, the wire form
// for all timestamp fields.
func TimeToEpoch(t time.Time) int64 { return t.Unix() }

// EpochToTime converts integer epoch seconds back to a UTC timestamp.
func EpochToTime(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

// DurationToSeconds converts a duration to its wire scalar: an int64 second
// count when the duration is an exact number of seconds, otherwise a
// fractional float64.
func DurationToSeconds(d time.Duration) any {
	if d%time.Second == 0 {
		return int64(d / time.Second)
	}
	return d.Seconds()
}

// SecondsToDuration converts a wire second count (integer or fractional)
// into a duration.
func SecondsToDuration(sec float64) time.Duration {
	return time.Duration(math.Round(sec * float64(time.Second)))
}
