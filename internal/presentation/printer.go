package presentation

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"

	"phototag/internal/domain"
	appErrors "phototag/internal/errors"
)

const (
	displayLayout = "2006-01-02 15:04:05"
	dayLayout     = "2006-01-02"
)

// Printer renders command output. Errors and warnings go to ErrWriter,
// falling back to Writer when unset.
type Printer struct {
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

func (p Printer) errWriter() io.Writer {
	if p.ErrWriter != nil {
		return p.ErrWriter
	}
	return p.Writer
}

// Tagged reports a file updated by the tag command.
func (p Printer) Tagged(path string, spec domain.DateSpec, at time.Time) {
	if spec.FromModTime {
		fmt.Fprintf(p.Writer, "Using modification time for %s: %s\n", path, at.Format(displayLayout))
	} else {
		fmt.Fprintf(p.Writer, "Setting date for %s: %s\n", path, at.Format(dayLayout))
	}
	fmt.Fprintf(p.Writer, "✓ Successfully processed %s\n", path)
}

// Synced reports a file updated by the sync command.
func (p Printer) Synced(path string, at time.Time) {
	fmt.Fprintf(p.Writer, "Found oldest date for %s: %s\n", path, at.Format(displayLayout))
	fmt.Fprintf(p.Writer, "✓ Successfully synced %s\n", path)
}

func (p Printer) FileError(err error) {
	fmt.Fprintln(p.errWriter(), FormatFileError(err))
}

func FormatFileError(err error) string {
	return "✗ Error: " + appErrors.UserMessage(err)
}

func (p Printer) Warnings(warnings []string) {
	for _, warning := range warnings {
		fmt.Fprintln(p.errWriter(), "✗ "+warning)
	}
}

// Summary prints the closing line of a batch, e.g.
// "Synced 3 file(s) successfully, 1 error(s) in 0.012s (0.003s per file)".
func (p Printer) Summary(verb string, report domain.BatchReport, withTiming bool) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s %d file(s) successfully", verb, report.Succeeded)
	if report.Failed > 0 {
		fmt.Fprintf(&b, ", %d error(s)", report.Failed)
	}
	if withTiming {
		b.WriteString(formatTiming(report.Total(), report.Elapsed))
	}
	fmt.Fprintln(p.Writer, b.String())
}

func formatTiming(total int, elapsed time.Duration) string {
	seconds := elapsed.Seconds()
	if seconds >= 1 {
		return fmt.Sprintf(" in %.2fs (%.2f files/sec)", seconds, float64(total)/seconds)
	}
	perFile := 0.0
	if total > 0 {
		perFile = seconds / float64(total)
	}
	return fmt.Sprintf(" in %.3fs (%.3fs per file)", seconds, perFile)
}

// PrintRecord dumps the date fields and file timestamps of one file.
func (p Printer) PrintRecord(record domain.MetadataRecord) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(p.Writer, "\n%s\nFile: %s\n%s\n", rule, record.Path, rule)

	fmt.Fprintln(p.Writer, "\nEXIF Date Fields:")
	fmt.Fprintln(p.Writer, strings.Repeat("-", 40))
	for _, field := range domain.DateFields {
		value, ok := record.Raw(field)
		if !ok {
			value = domain.NotSet
		}
		fmt.Fprintf(p.Writer, "  %-20s: %s\n", field, value)
	}

	fmt.Fprintln(p.Writer, "\nFile Timestamps:")
	fmt.Fprintln(p.Writer, strings.Repeat("-", 40))
	fmt.Fprintf(p.Writer, "  %-20s: %s\n", "Modification Time", record.ModTime.Format(displayLayout))
	if record.CreatedAt != nil {
		fmt.Fprintf(p.Writer, "  %-20s: %s\n", "Creation Time", record.CreatedAt.Format(displayLayout))
	}
	if p.Verbose {
		fmt.Fprintf(p.Writer, "  %-20s: %s, %s\n", "Format", record.Format, humanize.IBytes(uint64(record.Size)))
	}
	fmt.Fprintln(p.Writer)
}

type recordJSON struct {
	Path      string             `json:"path"`
	Format    string             `json:"format"`
	Size      int64              `json:"size"`
	Fields    map[string]*string `json:"fields"`
	ModTime   time.Time          `json:"mod_time"`
	CreatedAt *time.Time         `json:"created_at,omitempty"`
}

// PrintRecordsJSON writes records as an indented JSON array. Absent fields are null.
func (p Printer) PrintRecordsJSON(records []domain.MetadataRecord) error {
	out := make([]recordJSON, 0, len(records))
	for _, record := range records {
		fields := make(map[string]*string, len(domain.DateFields))
		for _, field := range domain.DateFields {
			if value, ok := record.Raw(field); ok {
				fields[string(field)] = &value
			} else {
				fields[string(field)] = nil
			}
		}
		out = append(out, recordJSON{
			Path:      record.Path,
			Format:    record.Format.String(),
			Size:      record.Size,
			Fields:    fields,
			ModTime:   record.ModTime,
			CreatedAt: record.CreatedAt,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.Writer, string(data))
	return err
}

// PrintTable renders the ls listing in aligned columns.
func (p Printer) PrintTable(rows []domain.ListRow) {
	headers := [4]string{"Path", "Size", "EXIF DateTime", "File Modified"}
	cells := make([][4]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, tableCells(row))
	}

	var widths [4]int
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, c := range cells {
		for i := range c {
			widths[i] = max(widths[i], len(c[i]))
		}
	}

	header := formatTableLine(headers, widths)
	fmt.Fprintln(p.Writer, header)
	fmt.Fprintln(p.Writer, strings.Repeat("-", len(header)))
	for _, c := range cells {
		fmt.Fprintln(p.Writer, formatTableLine(c, widths))
	}
}

func tableCells(row domain.ListRow) [4]string {
	if row.Err != nil {
		return [4]string{row.Path, "(error)", fmt.Sprintf("(error: %s)", appErrors.UserMessage(row.Err)), "(error)"}
	}
	return [4]string{
		row.Path,
		humanize.IBytes(uint64(row.Size)),
		row.DateTime,
		row.ModTime.Format(displayLayout),
	}
}

func formatTableLine(c [4]string, widths [4]int) string {
	return fmt.Sprintf("%-*s  %*s  %-*s  %-*s",
		widths[0], c[0],
		widths[1], c[1],
		widths[2], c[2],
		widths[3], c[3],
	)
}
