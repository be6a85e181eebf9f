package errors

import (
	stderrors "errors"
	"fmt"
)

type Kind string

const (
	InvalidDate       Kind = "invalid_date"
	InvalidConfig     Kind = "invalid_config"
	NoInput           Kind = "no_input"
	NotFound          Kind = "not_found"
	UnsupportedFormat Kind = "unsupported_format"
	MetadataFailure   Kind = "metadata_failure"
	IOFailure         Kind = "io_failure"
	Internal          Kind = "internal"
)

type AppError struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *AppError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Wrap(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Kind: kind,
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// KindOf reports the kind of the outermost AppError in err's chain.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

func UserMessage(err error) string {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return err.Error()
	}
	switch appErr.Kind {
	case InvalidDate:
		return appErr.Err.Error()
	case InvalidConfig:
		return fmt.Sprintf("Invalid configuration: %v", appErr.Err)
	case NoInput:
		return "No valid image files to process"
	case NotFound:
		return fmt.Sprintf("File not found: %s", appErr.Path)
	case UnsupportedFormat:
		return fmt.Sprintf("Unsupported file: %s: %v", appErr.Path, appErr.Err)
	case MetadataFailure:
		return fmt.Sprintf("EXIF update failed: %s: %v", appErr.Path, appErr.Err)
	case IOFailure:
		return fmt.Sprintf("I/O error: %s: %v", appErr.Path, appErr.Err)
	default:
		return fmt.Sprintf("Unexpected error: %v", appErr.Err)
	}
}
