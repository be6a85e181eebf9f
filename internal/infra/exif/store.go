package exif

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"phototag/internal/domain"
)

var ErrUnsupportedFormat = domain.ErrUnsupportedFormat

type accessor interface {
	ReadDates(ctx context.Context, path string) (map[domain.Field]string, error)
	WriteDates(ctx context.Context, path string, at time.Time) error
}

// Store dispatches date reads and writes to the accessor for the file's format.
type Store struct {
	PNG  PNG
	JPEG JPEG
}

func (s Store) ReadDates(ctx context.Context, path string) (map[domain.Field]string, error) {
	acc, err := s.accessorFor(path)
	if err != nil {
		return nil, err
	}
	return acc.ReadDates(ctx, path)
}

func (s Store) WriteDates(ctx context.Context, path string, at time.Time) error {
	acc, err := s.accessorFor(path)
	if err != nil {
		return err
	}
	return acc.WriteDates(ctx, path, at)
}

// accessorFor picks by extension, then checks the bytes agree.
func (s Store) accessorFor(path string) (accessor, error) {
	format := domain.FormatForPath(path)
	var acc accessor
	switch format {
	case domain.FormatPNG:
		acc = s.PNG
	case domain.FormatJPEG:
		acc = s.JPEG
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, err
	}
	if !detected.Is(format.MIME()) {
		return nil, fmt.Errorf("%w: file is not a %s (content is %s)", ErrUnsupportedFormat, format, detected.String())
	}
	return acc, nil
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// replaceFile writes data next to path and renames it over the original,
// keeping the original permissions.
func replaceFile(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
