package exif

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	exifv3 "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"
	goexif "github.com/rwcarlsen/goexif/exif"

	"phototag/internal/domain"
)

const (
	ifd0Path     = "IFD0"
	exifIfdPath  = "IFD/Exif"
	tagDateTime  = "DateTime"
	tagOriginal  = "DateTimeOriginal"
	tagDigitized = "DateTimeDigitized"
)

// JPEG keeps DateTime in IFD0 and the other two in the Exif sub-IFD.
// CreateDate has no JPEG tag and is derived on read.
type JPEG struct{}

func (JPEG) ReadDates(ctx context.Context, path string) (map[domain.Field]string, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	fields := make(map[domain.Field]string, len(domain.DateFields))

	x, err := goexif.Decode(file)
	if err != nil && (x == nil || goexif.IsCriticalError(err)) {
		// no usable EXIF segment: every field is absent
		return fields, nil
	}

	tags := map[domain.Field]goexif.FieldName{
		domain.FieldDateTime:          goexif.DateTime,
		domain.FieldDateTimeOriginal:  goexif.DateTimeOriginal,
		domain.FieldDateTimeDigitized: goexif.DateTimeDigitized,
	}
	for field, name := range tags {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		value, err := tag.StringVal()
		value = strings.TrimRight(value, "\x00")
		if err != nil || value == "" {
			continue
		}
		fields[field] = value
	}

	if value, ok := fields[domain.FieldDateTimeOriginal]; ok {
		fields[domain.FieldCreateDate] = value
	} else if value, ok := fields[domain.FieldDateTime]; ok {
		fields[domain.FieldCreateDate] = value
	}
	return fields, nil
}

func (JPEG) WriteDates(ctx context.Context, path string, at time.Time) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	mc, err := jpegstructure.NewJpegMediaParser().ParseBytes(data)
	if err != nil {
		return fmt.Errorf("parse jpeg: %w", err)
	}
	segments, ok := mc.(*jpegstructure.SegmentList)
	if !ok {
		return fmt.Errorf("parse jpeg: unexpected media context %T", mc)
	}

	rootIb, err := segments.ConstructExifBuilder()
	if err != nil {
		// missing or unreadable EXIF: start from an empty IFD0
		rootIb, err = newRootBuilder()
		if err != nil {
			return err
		}
	}

	stamp := domain.FormatExifTimestamp(at)
	if err := setTags(rootIb, ifd0Path, stamp, tagDateTime); err != nil {
		return err
	}
	if err := setTags(rootIb, exifIfdPath, stamp, tagOriginal, tagDigitized); err != nil {
		return err
	}

	if err := segments.SetExif(rootIb); err != nil {
		return fmt.Errorf("set exif: %w", err)
	}

	var buf bytes.Buffer
	if err := segments.Write(&buf); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return replaceFile(path, buf.Bytes())
}

func newRootBuilder() (*exifv3.IfdBuilder, error) {
	mapping, err := exifcommon.NewIfdMappingWithStandard()
	if err != nil {
		return nil, fmt.Errorf("ifd mapping: %w", err)
	}
	return exifv3.NewIfdBuilder(
		mapping,
		exifv3.NewTagIndex(),
		exifcommon.IfdStandardIfdIdentity,
		exifcommon.EncodeDefaultByteOrder,
	), nil
}

func setTags(rootIb *exifv3.IfdBuilder, ifdPath, value string, names ...string) error {
	ib, err := exifv3.GetOrCreateIbFromRootIb(rootIb, ifdPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", ifdPath, err)
	}
	for _, name := range names {
		if err := ib.SetStandardWithName(name, value); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}
	return nil
}
