package domain

import (
	"errors"
	"path/filepath"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format is the image container a file is handled as.
type Format int

const (
	FormatUnknown Format = iota
	FormatPNG
	FormatJPEG
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "PNG"
	case FormatJPEG:
		return "JPEG"
	default:
		return "unknown"
	}
}

// MIME returns the media type the file content is expected to sniff as.
func (f Format) MIME() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	default:
		return ""
	}
}

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) Format {
	switch {
	case IsPngExtension(filepath.Ext(path)):
		return FormatPNG
	case IsJpegExtension(filepath.Ext(path)):
		return FormatJPEG
	default:
		return FormatUnknown
	}
}

func IsSupportedPath(path string) bool {
	return FormatForPath(path) != FormatUnknown
}

func IsPngExtension(ext string) bool {
	return strings.ToLower(ext) == ".png"
}

func IsJpegExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return true
	default:
		return false
	}
}
