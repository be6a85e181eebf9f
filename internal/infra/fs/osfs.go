package fs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/djherbis/times"
)

var ErrCreationTimeUnsupported = errors.New("creation time cannot be set on this platform")

type OSFS struct{}

func (OSFS) WalkDir(root string, fn fs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}

func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Exists reports whether path names an existing file or directory, taken literally.
func (OSFS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Glob expands a doublestar pattern against the host filesystem.
func (OSFS) Glob(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
}

// SetTimes sets the access and modification time of path.
func (OSFS) SetTimes(path string, atime, mtime time.Time) error {
	return os.Chtimes(path, atime, mtime)
}

// CreationTime returns the birth time when the platform and filesystem record one.
func (OSFS) CreationTime(path string) (time.Time, bool, error) {
	ts, err := times.Stat(path)
	if err != nil {
		return time.Time{}, false, err
	}
	if !ts.HasBirthTime() {
		return time.Time{}, false, nil
	}
	return ts.BirthTime(), true, nil
}

// SetCreationTime is best effort; see the platform files.
func (OSFS) SetCreationTime(path string, t time.Time) error {
	return setCreationTime(path, t)
}
