package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"phototag/internal/domain"
	appErrors "phototag/internal/errors"
	"phototag/internal/logging"
)

// Editor reads and rewrites the dates of single files.
type Editor struct {
	FS     FileSystem
	Meta   MetadataStore
	Logger logging.Logger
}

// Inspect gathers every stored date field and the filesystem times of path.
func (e *Editor) Inspect(ctx context.Context, path string) (domain.MetadataRecord, error) {
	if err := e.check(); err != nil {
		return domain.MetadataRecord{}, err
	}
	info, format, err := e.statImage(path)
	if err != nil {
		return domain.MetadataRecord{}, err
	}

	fields, err := e.Meta.ReadDates(ctx, path)
	if err != nil {
		return domain.MetadataRecord{}, classify("read", path, err)
	}

	record := domain.MetadataRecord{
		Path:    path,
		Format:  format,
		Size:    info.Size(),
		Fields:  fields,
		ModTime: info.ModTime(),
	}
	created, ok, err := e.FS.CreationTime(path)
	switch {
	case err != nil:
		e.Logger.Debug("creation time unavailable", "path", path, "err", err)
	case ok:
		record.CreatedAt = &created
	}
	return record, nil
}

// Tag writes the date selected by spec into every field and the file times.
func (e *Editor) Tag(ctx context.Context, path string, spec domain.DateSpec) (time.Time, error) {
	if err := e.check(); err != nil {
		return time.Time{}, err
	}
	info, _, err := e.statImage(path)
	if err != nil {
		return time.Time{}, err
	}
	at := spec.Resolve(info.ModTime())
	if err := e.apply(ctx, path, at); err != nil {
		return time.Time{}, err
	}
	return at, nil
}

// Sync moves every field and the file times to the oldest date observed.
func (e *Editor) Sync(ctx context.Context, path string) (time.Time, error) {
	record, err := e.Inspect(ctx, path)
	if err != nil {
		return time.Time{}, err
	}
	at, err := record.SyncDate()
	if err != nil {
		return time.Time{}, appErrors.Wrap(appErrors.Internal, "sync", path, err)
	}
	e.Logger.Debug("sync", "path", path, "oldest", at)
	if err := e.apply(ctx, path, at); err != nil {
		return time.Time{}, err
	}
	return at, nil
}

// List builds one ls row per path, sorted by DateTime. Unreadable files
// still get a row carrying the error.
func (e *Editor) List(ctx context.Context, paths []string, reverse bool) []domain.ListRow {
	rows := make([]domain.ListRow, 0, len(paths))
	for _, path := range paths {
		record, err := e.Inspect(ctx, path)
		if err != nil {
			rows = append(rows, domain.ListRow{Path: path, Err: err})
			continue
		}
		rows = append(rows, domain.NewListRow(record))
	}
	domain.SortRows(rows, reverse)
	return rows
}

func (e *Editor) apply(ctx context.Context, path string, at time.Time) error {
	if err := e.Meta.WriteDates(ctx, path, at); err != nil {
		return classify("write", path, err)
	}
	// the metadata write bumps mtime, so the times go last
	if err := e.FS.SetTimes(path, at, at); err != nil {
		return appErrors.Wrap(appErrors.IOFailure, "chtimes", path, err)
	}
	if err := e.FS.SetCreationTime(path, at); err != nil {
		e.Logger.Debug("creation time not updated", "path", path, "err", err)
	}
	return nil
}

func (e *Editor) statImage(path string) (fs.FileInfo, domain.Format, error) {
	info, err := e.FS.Stat(path)
	if err != nil {
		return nil, domain.FormatUnknown, classify("stat", path, err)
	}
	if info.IsDir() {
		return nil, domain.FormatUnknown, appErrors.Wrap(appErrors.UnsupportedFormat, "open", path, errors.New("is a directory"))
	}
	format := domain.FormatForPath(path)
	if format == domain.FormatUnknown {
		return nil, format, appErrors.Wrap(appErrors.UnsupportedFormat, "open", path, fmt.Errorf("%w: expected .png, .jpg or .jpeg", domain.ErrUnsupportedFormat))
	}
	return info, format, nil
}

func (e *Editor) check() error {
	if e.FS == nil || e.Meta == nil {
		return errors.New("editor requires FS and Meta")
	}
	return nil
}

func classify(op, path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return appErrors.Wrap(appErrors.NotFound, op, path, err)
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return appErrors.Wrap(appErrors.UnsupportedFormat, op, path, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case op == "stat":
		return appErrors.Wrap(appErrors.IOFailure, op, path, err)
	default:
		return appErrors.Wrap(appErrors.MetadataFailure, op, path, err)
	}
}
