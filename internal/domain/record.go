package domain

import (
	"errors"
	"time"
)

// Field names a date field embedded in an image.
type Field string

const (
	FieldDateTime          Field = "DateTime"
	FieldDateTimeOriginal  Field = "DateTimeOriginal"
	FieldDateTimeDigitized Field = "DateTimeDigitized"
	FieldCreateDate        Field = "CreateDate"
)

// DateFields lists every field in display order.
var DateFields = []Field{
	FieldDateTime,
	FieldDateTimeOriginal,
	FieldDateTimeDigitized,
	FieldCreateDate,
}

var ErrNoDates = errors.New("no valid dates found")

// DateValue is a point in time that may be absent.
type DateValue struct {
	Time    time.Time
	Present bool
}

func PresentDate(t time.Time) DateValue {
	return DateValue{Time: t, Present: true}
}

// Oldest returns the minimum present value. Absent values are ignored.
func Oldest(values ...DateValue) (time.Time, error) {
	var (
		oldest time.Time
		found  bool
	)
	for _, v := range values {
		if !v.Present {
			continue
		}
		if !found || v.Time.Before(oldest) {
			oldest = v.Time
			found = true
		}
	}
	if !found {
		return time.Time{}, ErrNoDates
	}
	return oldest, nil
}

// MetadataRecord is everything known about the dates of one file.
// Fields holds raw values as stored; a missing key means the field is absent.
type MetadataRecord struct {
	Path      string
	Format    Format
	Size      int64
	Fields    map[Field]string
	ModTime   time.Time
	CreatedAt *time.Time
}

// Raw returns the stored text of a field.
func (r MetadataRecord) Raw(field Field) (string, bool) {
	value, ok := r.Fields[field]
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// Value returns the parsed field, absent when missing or unparseable.
func (r MetadataRecord) Value(field Field) DateValue {
	raw, ok := r.Raw(field)
	if !ok {
		return DateValue{}
	}
	parsed, ok := ParseExifTimestamp(raw)
	if !ok {
		return DateValue{}
	}
	return PresentDate(parsed)
}

// Candidates returns every field value followed by the modification time.
func (r MetadataRecord) Candidates() []DateValue {
	values := make([]DateValue, 0, len(DateFields)+1)
	for _, field := range DateFields {
		values = append(values, r.Value(field))
	}
	return append(values, PresentDate(r.ModTime))
}

// SyncDate is the value a sync applies everywhere: the oldest candidate at
// whole-second precision so the EXIF text and the mtime agree.
func (r MetadataRecord) SyncDate() (time.Time, error) {
	oldest, err := Oldest(r.Candidates()...)
	if err != nil {
		return time.Time{}, err
	}
	return oldest.Truncate(time.Second), nil
}
