package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ModKeyword selects the file's own modification time instead of a fixed date.
const ModKeyword = "mod"

const (
	dateTokenLayout    = "20060102"
	exifDateTimeLayout = "2006:01:02 15:04:05"
	exifDateLayout     = "2006:01:02"
)

var ErrInvalidDate = errors.New("invalid date")

// DateSpec is a parsed date token. Either At holds a fixed date or
// FromModTime defers the choice to each file's modification time.
type DateSpec struct {
	At          time.Time
	FromModTime bool
}

// ParseDateSpec accepts YYYYMMDD or the "mod" keyword.
func ParseDateSpec(token string) (DateSpec, error) {
	if strings.EqualFold(strings.TrimSpace(token), ModKeyword) {
		return DateSpec{FromModTime: true}, nil
	}
	if len(token) != len(dateTokenLayout) || !allDigits(token) {
		return DateSpec{}, fmt.Errorf("%w: must be in YYYYMMDD format (8 digits), got: %q", ErrInvalidDate, token)
	}
	parsed, err := time.ParseInLocation(dateTokenLayout, token, time.Local)
	if err != nil {
		return DateSpec{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, token, err)
	}
	if parsed.Year() < 1 {
		return DateSpec{}, fmt.Errorf("%w %q: year must be at least 1", ErrInvalidDate, token)
	}
	return DateSpec{At: parsed}, nil
}

// Resolve returns the concrete time to apply to a file with the given mtime.
func (d DateSpec) Resolve(modTime time.Time) time.Time {
	if d.FromModTime {
		return modTime.Truncate(time.Second)
	}
	return d.At
}

func (d DateSpec) String() string {
	if d.FromModTime {
		return ModKeyword
	}
	return d.At.Format(dateTokenLayout)
}

// FormatExifTimestamp renders t the way EXIF date fields store it.
func FormatExifTimestamp(t time.Time) string {
	return t.Format(exifDateTimeLayout)
}

// ParseExifTimestamp reads "YYYY:MM:DD HH:MM:SS" or the date-only
// "YYYY:MM:DD" in local time. Anything else reports false.
func ParseExifTimestamp(value string) (time.Time, bool) {
	value = strings.TrimRight(strings.TrimSpace(value), "\x00")
	if value == "" {
		return time.Time{}, false
	}
	if parsed, err := time.ParseInLocation(exifDateTimeLayout, value, time.Local); err == nil {
		return parsed, true
	}
	if parsed, err := time.ParseInLocation(exifDateLayout, value, time.Local); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
