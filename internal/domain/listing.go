package domain

import (
	"sort"
	"time"
)

const NotSet = "(not set)"

// ListRow is one line of the ls table.
type ListRow struct {
	Path     string
	Size     int64
	DateTime string
	TakenAt  *time.Time
	ModTime  time.Time
	Err      error
}

// NewListRow builds a row from a record, keyed on the DateTime field.
func NewListRow(record MetadataRecord) ListRow {
	row := ListRow{
		Path:     record.Path,
		Size:     record.Size,
		DateTime: NotSet,
		ModTime:  record.ModTime,
	}
	if raw, ok := record.Raw(FieldDateTime); ok {
		row.DateTime = raw
		if v := record.Value(FieldDateTime); v.Present {
			takenAt := v.Time
			row.TakenAt = &takenAt
		}
	}
	return row
}

// SortRows orders rows by DateTime, oldest first, rows without one last.
// reverse flips the whole order.
func SortRows(rows []ListRow, reverse bool) {
	less := func(a, b ListRow) bool {
		if a.TakenAt == nil || b.TakenAt == nil {
			return a.TakenAt != nil && b.TakenAt == nil
		}
		return a.TakenAt.Before(*b.TakenAt)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if reverse {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}
