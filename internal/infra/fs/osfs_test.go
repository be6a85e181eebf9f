package fs

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestSetTimesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	touch(t, path)

	want := time.Date(1980, 6, 15, 10, 30, 45, 0, time.Local)
	require.NoError(t, OSFS{}.SetTimes(path, want, want))

	info, err := OSFS{}.Stat(path)
	require.NoError(t, err)
	assert.True(t, want.Equal(info.ModTime()), "got %v", info.ModTime())
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	touch(t, path)

	ok, err := OSFS{}.Exists(path)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = OSFS{}.Exists(filepath.Join(dir, "missing.png"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGlobRecursivePattern(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.png"))
	touch(t, filepath.Join(dir, "nested", "b.png"))
	touch(t, filepath.Join(dir, "nested", "c.txt"))

	matches, err := OSFS{}.Glob(filepath.ToSlash(dir) + "/**/*.png")
	require.NoError(t, err)
	sort.Strings(matches)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "nested", "b.png"),
	}, matches)
}

func TestCreationTimeDoesNotFail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	touch(t, path)

	_, _, err := OSFS{}.CreationTime(path)
	require.NoError(t, err)

	_, _, err = OSFS{}.CreationTime(path + ".missing")
	require.Error(t, err)
}

func TestSetCreationTimeUnsupportedOffWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("creation time is settable on windows")
	}
	path := filepath.Join(t.TempDir(), "a.png")
	touch(t, path)

	err := OSFS{}.SetCreationTime(path, time.Now())
	require.ErrorIs(t, err, ErrCreationTimeUnsupported)
}
