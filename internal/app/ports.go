package app

import (
	"context"
	"io/fs"
	"time"

	"phototag/internal/domain"
)

type FileSystem interface {
	WalkDir(root string, fn fs.WalkDirFunc) error
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) (bool, error)
	Glob(pattern string) ([]string, error)
	SetTimes(path string, atime, mtime time.Time) error
	CreationTime(path string) (time.Time, bool, error)
	SetCreationTime(path string, t time.Time) error
}

type MetadataStore interface {
	ReadDates(ctx context.Context, path string) (map[domain.Field]string, error)
	WriteDates(ctx context.Context, path string, at time.Time) error
}
