package app

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"phototag/internal/domain"
)

type mockFS struct {
	entries   []mockEntry
	globs     map[string][]string
	globErr   map[string]error
	setTimes  map[string]time.Time
	birth     map[string]time.Time
	chtimeErr error
}

type mockEntry struct {
	path    string
	isDir   bool
	size    int64
	modTime time.Time
}

func newMockFS(entries ...mockEntry) *mockFS {
	return &mockFS{
		entries:  entries,
		globs:    map[string][]string{},
		globErr:  map[string]error{},
		setTimes: map[string]time.Time{},
		birth:    map[string]time.Time{},
	}
}

func (m *mockFS) WalkDir(root string, fn fs.WalkDirFunc) error {
	for _, entry := range m.entries {
		if !strings.HasPrefix(entry.path, root+"/") {
			continue
		}
		dirEntry := mockDirEntry{name: filepath.Base(entry.path), isDir: entry.isDir}
		if err := fn(entry.path, dirEntry, nil); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockFS) Stat(path string) (fs.FileInfo, error) {
	for _, entry := range m.entries {
		if entry.path == path {
			modTime := entry.modTime
			if t, ok := m.setTimes[path]; ok {
				modTime = t
			}
			return mockFileInfo{name: filepath.Base(path), size: entry.size, isDir: entry.isDir, modTime: modTime}, nil
		}
	}
	return nil, fs.ErrNotExist
}

func (m *mockFS) Exists(path string) (bool, error) {
	_, err := m.Stat(path)
	return err == nil, nil
}

func (m *mockFS) Glob(pattern string) ([]string, error) {
	if err := m.globErr[pattern]; err != nil {
		return nil, err
	}
	return m.globs[pattern], nil
}

func (m *mockFS) SetTimes(path string, atime, mtime time.Time) error {
	if m.chtimeErr != nil {
		return m.chtimeErr
	}
	m.setTimes[path] = mtime
	return nil
}

func (m *mockFS) CreationTime(path string) (time.Time, bool, error) {
	t, ok := m.birth[path]
	return t, ok, nil
}

func (m *mockFS) SetCreationTime(path string, t time.Time) error {
	return errors.New("unsupported")
}

type mockMeta struct {
	fields  map[string]map[domain.Field]string
	written map[string]time.Time
	readErr error
}

func newMockMeta() *mockMeta {
	return &mockMeta{
		fields:  map[string]map[domain.Field]string{},
		written: map[string]time.Time{},
	}
}

func (m *mockMeta) ReadDates(ctx context.Context, path string) (map[domain.Field]string, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	out := map[domain.Field]string{}
	for k, v := range m.fields[path] {
		out[k] = v
	}
	return out, nil
}

func (m *mockMeta) WriteDates(ctx context.Context, path string, at time.Time) error {
	m.written[path] = at
	stamp := domain.FormatExifTimestamp(at)
	m.fields[path] = map[domain.Field]string{
		domain.FieldDateTime:          stamp,
		domain.FieldDateTimeOriginal:  stamp,
		domain.FieldDateTimeDigitized: stamp,
		domain.FieldCreateDate:        stamp,
	}
	return nil
}

type mockDirEntry struct {
	name  string
	isDir bool
}

func (m mockDirEntry) Name() string               { return m.name }
func (m mockDirEntry) IsDir() bool                { return m.isDir }
func (m mockDirEntry) Type() fs.FileMode          { return 0 }
func (m mockDirEntry) Info() (fs.FileInfo, error) { return nil, nil }

type mockFileInfo struct {
	name    string
	size    int64
	isDir   bool
	modTime time.Time
}

func (m mockFileInfo) Name() string       { return m.name }
func (m mockFileInfo) Size() int64        { return m.size }
func (m mockFileInfo) Mode() fs.FileMode  { return 0 }
func (m mockFileInfo) ModTime() time.Time { return m.modTime }
func (m mockFileInfo) IsDir() bool        { return m.isDir }
func (m mockFileInfo) Sys() interface{}   { return nil }
