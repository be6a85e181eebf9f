package exif

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"
	pngstructure "github.com/dsoprea/go-png-image-structure/v2"
	goexif "github.com/rwcarlsen/goexif/exif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phototag/internal/domain"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, name string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o640))
	return path
}

func writeJPEG(t *testing.T, name string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(), &jpeg.Options{Quality: 95}))
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o640))
	return path
}

func countTextChunks(t *testing.T, path, key string) int {
	t.Helper()
	chunks, err := parsePNG(path)
	require.NoError(t, err)
	count := 0
	for _, chunk := range chunks.Chunks() {
		if chunk.Type != textChunkType {
			continue
		}
		if k, _, ok := splitTextChunk(chunk.Data); ok && k == key {
			count++
		}
	}
	return count
}

func TestPNGReadWithoutText(t *testing.T) {
	path := writePNG(t, "plain.png")

	fields, err := PNG{}.ReadDates(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestPNGRoundTrip(t *testing.T) {
	path := writePNG(t, "photo.png")
	at := time.Date(2025, 11, 3, 14, 30, 0, 0, time.Local)

	require.NoError(t, PNG{}.WriteDates(context.Background(), path, at))

	fields, err := PNG{}.ReadDates(context.Background(), path)
	require.NoError(t, err)
	for _, field := range domain.DateFields {
		assert.Equal(t, "2025:11:03 14:30:00", fields[field], field)
	}

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	_, err = png.Decode(file)
	require.NoError(t, err, "rewritten file must still decode")
}

func TestPNGRewriteReplacesChunks(t *testing.T) {
	path := writePNG(t, "photo.png")
	ctx := context.Background()

	require.NoError(t, PNG{}.WriteDates(ctx, path, time.Date(2000, 1, 1, 0, 0, 0, 0, time.Local)))
	require.NoError(t, PNG{}.WriteDates(ctx, path, time.Date(1985, 4, 20, 0, 0, 0, 0, time.Local)))

	assert.Equal(t, 1, countTextChunks(t, path, "DateTime"))
	assert.Equal(t, 1, countTextChunks(t, path, "CreateDate"))

	fields, err := PNG{}.ReadDates(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "1985:04:20 00:00:00", fields[domain.FieldDateTime])
}

func addTextChunk(t *testing.T, path, key, value string) {
	t.Helper()
	chunks, err := parsePNG(path)
	require.NoError(t, err)

	var updated []*pngstructure.Chunk
	for _, chunk := range chunks.Chunks() {
		if chunk.Type == endChunkType {
			updated = append(updated, newTextChunk(key, value))
		}
		updated = append(updated, chunk)
	}
	var buf bytes.Buffer
	require.NoError(t, pngstructure.NewChunkSlice(updated).WriteTo(&buf))
	require.NoError(t, replaceFile(path, buf.Bytes()))
}

func TestPNGWriteKeepsOtherText(t *testing.T) {
	path := writePNG(t, "photo.png")
	addTextChunk(t, path, "Author", "Jane")

	require.NoError(t, PNG{}.WriteDates(context.Background(), path, time.Date(2001, 2, 3, 4, 5, 6, 0, time.Local)))

	assert.Equal(t, 1, countTextChunks(t, path, "Author"))
	assert.Equal(t, 1, countTextChunks(t, path, "DateTime"))
}

func TestPNGWriteKeepsPermissions(t *testing.T) {
	path := writePNG(t, "photo.png")
	require.NoError(t, PNG{}.WriteDates(context.Background(), path, time.Now()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestJPEGReadWithoutExif(t *testing.T) {
	path := writeJPEG(t, "plain.jpg")

	fields, err := JPEG{}.ReadDates(context.Background(), path)
	require.NoError(t, err)
	for _, field := range domain.DateFields {
		_, ok := fields[field]
		assert.False(t, ok, field)
	}
}

func TestJPEGRoundTrip(t *testing.T) {
	path := writeJPEG(t, "photo.jpeg")
	at := time.Date(1971, 5, 1, 14, 30, 0, 0, time.Local)

	require.NoError(t, JPEG{}.WriteDates(context.Background(), path, at))

	fields, err := JPEG{}.ReadDates(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "1971:05:01 14:30:00", fields[domain.FieldDateTime])
	assert.Equal(t, "1971:05:01 14:30:00", fields[domain.FieldDateTimeOriginal])
	assert.Equal(t, "1971:05:01 14:30:00", fields[domain.FieldDateTimeDigitized])
	assert.Equal(t, "1971:05:01 14:30:00", fields[domain.FieldCreateDate])

	parsed, ok := domain.ParseExifTimestamp(fields[domain.FieldDateTime])
	require.True(t, ok)
	assert.True(t, at.Equal(parsed))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	_, err = jpeg.Decode(file)
	require.NoError(t, err, "rewritten file must still decode")
}

func TestJPEGRewriteUpdatesExistingExif(t *testing.T) {
	path := writeJPEG(t, "photo.jpg")
	ctx := context.Background()

	require.NoError(t, JPEG{}.WriteDates(ctx, path, time.Date(2020, 1, 1, 12, 0, 0, 0, time.Local)))
	require.NoError(t, JPEG{}.WriteDates(ctx, path, time.Date(2021, 5, 1, 10, 30, 0, 0, time.Local)))

	fields, err := JPEG{}.ReadDates(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "2021:05:01 10:30:00", fields[domain.FieldDateTime])
	assert.Equal(t, "2021:05:01 10:30:00", fields[domain.FieldDateTimeOriginal])
}

func setMake(t *testing.T, path, camera string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	mc, err := jpegstructure.NewJpegMediaParser().ParseBytes(data)
	require.NoError(t, err)
	segments := mc.(*jpegstructure.SegmentList)

	rootIb, err := newRootBuilder()
	require.NoError(t, err)
	require.NoError(t, setTags(rootIb, ifd0Path, camera, "Make"))
	require.NoError(t, segments.SetExif(rootIb))

	var buf bytes.Buffer
	require.NoError(t, segments.Write(&buf))
	require.NoError(t, replaceFile(path, buf.Bytes()))
}

func TestJPEGWriteKeepsOtherTags(t *testing.T) {
	path := writeJPEG(t, "photo.jpg")
	setMake(t, path, "TestCam")

	require.NoError(t, JPEG{}.WriteDates(context.Background(), path, time.Date(2001, 2, 3, 4, 5, 6, 0, time.Local)))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	x, err := goexif.Decode(file)
	require.NoError(t, err)

	tag, err := x.Get(goexif.Make)
	require.NoError(t, err)
	camera, err := tag.StringVal()
	require.NoError(t, err)
	assert.Equal(t, "TestCam", strings.TrimRight(camera, "\x00"))

	tag, err = x.Get(goexif.DateTime)
	require.NoError(t, err)
	stamp, err := tag.StringVal()
	require.NoError(t, err)
	assert.Equal(t, "2001:02:03 04:05:06", strings.TrimRight(stamp, "\x00"))
}

func TestStoreDispatchesByExtension(t *testing.T) {
	ctx := context.Background()
	at := time.Date(1990, 8, 15, 0, 0, 0, 0, time.Local)
	store := Store{}

	for _, path := range []string{writePNG(t, "a.PNG"), writeJPEG(t, "b.JPG")} {
		require.NoError(t, store.WriteDates(ctx, path, at), path)
		fields, err := store.ReadDates(ctx, path)
		require.NoError(t, err, path)
		assert.Equal(t, "1990:08:15 00:00:00", fields[domain.FieldDateTime], path)
	}
}

func TestStoreRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	_, err := Store{}.ReadDates(context.Background(), path)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestStoreRejectsMismatchedContent(t *testing.T) {
	jpegPath := writeJPEG(t, "photo.jpg")
	data, err := os.ReadFile(jpegPath)
	require.NoError(t, err)
	fake := filepath.Join(t.TempDir(), "fake.png")
	require.NoError(t, os.WriteFile(fake, data, 0o644))

	err = Store{}.WriteDates(context.Background(), fake, time.Now())
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "not a PNG")
}

func TestStoreMissingFile(t *testing.T) {
	_, err := Store{}.ReadDates(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := PNG{}.ReadDates(ctx, writePNG(t, "a.png"))
	require.ErrorIs(t, err, context.Canceled)
}
