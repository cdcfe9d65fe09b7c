package timestamp

import (
	"strconv"
	"strings"
	"time"
)

// Layout renders a decoded timestamp as a space-padded day, abbreviated month,
// year and 24-hour time, e.g. " 3 Jan 2024 14:05:09".
const Layout = "_2 Jan 2006 15:04:05"

// Decodable instants are limited to four-digit years.
var (
	minUnix = time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	maxUnix = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC).Unix()
)

// Label is the display label of a file name: either the instant encoded in
// its prefix or the raw name when the prefix is not a Unix timestamp.
type Label struct {
	Name    string
	Time    time.Time
	Decoded bool
}

// String returns the formatted time for decoded labels and the raw name otherwise.
func (l Label) String() string {
	if !l.Decoded {
		return l.Name
	}
	return l.Time.Format(Layout)
}

// Decode interprets the part of name before the first '.' as seconds since
// the Unix epoch and converts it to loc. A nil loc means time.Local. Prefixes
// outside years 0 through 9999 UTC are not decoded.
func Decode(name string, loc *time.Location) Label {
	prefix, _, _ := strings.Cut(name, ".")
	secs, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil || secs < minUnix || secs > maxUnix {
		return Label{Name: name}
	}
	if loc == nil {
		loc = time.Local
	}
	return Label{
		Name:    name,
		Time:    time.Unix(secs, 0).In(loc),
		Decoded: true,
	}
}

// Format is Decode followed by String.
func Format(name string, loc *time.Location) string {
	return Decode(name, loc).String()
}
