package utils

import (
	"time"
)

// LocationOrUTC loads the named location, falling back to UTC when it is empty or unknown.
func LocationOrUTC(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// PrettyDate formats t like "Mon, 02 Jan 2006 15:04 MST".
func PrettyDate(t time.Time) string {
	return t.Format("Mon, 02 Jan 2006 15:04 MST")
}
