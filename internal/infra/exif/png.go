package exif

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	pngstructure "github.com/dsoprea/go-png-image-structure/v2"

	"phototag/internal/domain"
)

const (
	textChunkType = "tEXt"
	endChunkType  = "IEND"
)

// PNG stores the date fields as tEXt chunks keyed by field name.
type PNG struct{}

func (PNG) ReadDates(ctx context.Context, path string) (map[domain.Field]string, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	chunks, err := parsePNG(path)
	if err != nil {
		return nil, err
	}

	fields := make(map[domain.Field]string, len(domain.DateFields))
	for _, chunk := range chunks.Chunks() {
		if chunk.Type != textChunkType {
			continue
		}
		key, value, ok := splitTextChunk(chunk.Data)
		if !ok {
			continue
		}
		if field, known := dateField(key); known {
			fields[field] = value
		}
	}
	return fields, nil
}

func (PNG) WriteDates(ctx context.Context, path string, at time.Time) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	chunks, err := parsePNG(path)
	if err != nil {
		return err
	}

	stamp := domain.FormatExifTimestamp(at)
	existing := chunks.Chunks()
	updated := make([]*pngstructure.Chunk, 0, len(existing)+len(domain.DateFields))
	for _, chunk := range existing {
		if chunk.Type == textChunkType {
			if key, _, ok := splitTextChunk(chunk.Data); ok {
				if _, known := dateField(key); known {
					continue
				}
			}
		}
		if chunk.Type == endChunkType {
			for _, field := range domain.DateFields {
				updated = append(updated, newTextChunk(string(field), stamp))
			}
		}
		updated = append(updated, chunk)
	}

	var buf bytes.Buffer
	if err := pngstructure.NewChunkSlice(updated).WriteTo(&buf); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return replaceFile(path, buf.Bytes())
}

func parsePNG(path string) (*pngstructure.ChunkSlice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	mc, err := pngstructure.NewPngMediaParser().ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse png: %w", err)
	}
	chunks, ok := mc.(*pngstructure.ChunkSlice)
	if !ok {
		return nil, fmt.Errorf("parse png: unexpected media context %T", mc)
	}
	return chunks, nil
}

func newTextChunk(key, value string) *pngstructure.Chunk {
	data := make([]byte, 0, len(key)+1+len(value))
	data = append(data, key...)
	data = append(data, 0)
	data = append(data, value...)

	chunk := &pngstructure.Chunk{
		Type:   textChunkType,
		Length: uint32(len(data)),
		Data:   data,
	}
	chunk.UpdateCrc32()
	return chunk
}

// splitTextChunk separates the keyword from the text at the first NUL.
func splitTextChunk(data []byte) (string, string, bool) {
	key, value, found := bytes.Cut(data, []byte{0})
	if !found || len(key) == 0 {
		return "", "", false
	}
	return string(key), string(value), true
}

func dateField(key string) (domain.Field, bool) {
	for _, field := range domain.DateFields {
		if string(field) == key {
			return field, true
		}
	}
	return "", false
}
