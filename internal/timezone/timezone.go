// Package timezone provides IANA timezone parsing and validation shared
// by the calendar output path and the configuration layer.
package timezone

import (
	"fmt"
	"time"
)

// UTC is the coordinated universal time location.
var UTC = time.UTC

// Parse resolves an IANA timezone identifier (e.g. "Asia/Shanghai").
// Empty and "UTC" resolve to UTC; invalid identifiers return UTC plus an
// error so callers can degrade or reject.
func Parse(tz string) (*time.Location, error) {
	if tz == "" || tz == "UTC" {
		return UTC, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return UTC, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

// MustParse parses a timezone or panics. Only for identifiers known valid
// at compile time.
func MustParse(tz string) *time.Location {
	loc, err := Parse(tz)
	if err != nil {
		panic(err)
	}
	return loc
}

// IsValid checks whether a timezone identifier resolves.
func IsValid(tz string) bool {
	_, err := Parse(tz)
	return err == nil
}
