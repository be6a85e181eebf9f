package app

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"phototag/internal/domain"
	"phototag/internal/logging"
)

var ErrNoFiles = errors.New("no valid image files to process")

// Collector turns command line arguments into the list of files to process.
type Collector struct {
	FS        FileSystem
	Logger    logging.Logger
	Recursive bool
}

// Collection is the outcome of Collect. Warnings name arguments that
// produced nothing; they do not stop the run.
type Collection struct {
	Paths    []string
	Warnings []string
}

func IsGlobPattern(arg string) bool {
	return strings.ContainsAny(arg, "*?[")
}

// Collect expands globs (keeping supported images only), walks directories
// when Recursive is set, and passes plain paths through untouched so that
// missing or unsupported files fail individually later.
func (c *Collector) Collect(args []string) (Collection, error) {
	if c.FS == nil {
		return Collection{}, errors.New("collector requires FS")
	}

	var out Collection
	for _, arg := range args {
		switch {
		case IsGlobPattern(arg):
			matches, err := c.FS.Glob(arg)
			if err != nil && !errors.Is(err, doublestar.ErrBadPattern) {
				return Collection{}, fmt.Errorf("pattern %q: %w", arg, err)
			}
			if len(matches) == 0 {
				// brackets are legal in file names
				if c.exists(arg) {
					out.Paths = append(out.Paths, arg)
					continue
				}
				warning := fmt.Sprintf("No files matched pattern: %s", arg)
				if err != nil {
					warning = fmt.Sprintf("Invalid pattern: %s", arg)
				}
				out.Warnings = append(out.Warnings, warning)
				c.Logger.Debug("glob", "pattern", arg, "err", err)
				continue
			}
			sort.Strings(matches)
			kept := 0
			for _, match := range matches {
				if domain.IsSupportedPath(match) {
					out.Paths = append(out.Paths, match)
					kept++
				}
			}
			c.Logger.Debug("glob", "pattern", arg, "matches", len(matches), "kept", kept)
		case c.Recursive && c.isDir(arg):
			found, err := c.walk(arg)
			if err != nil {
				return Collection{}, err
			}
			if len(found) == 0 {
				out.Warnings = append(out.Warnings, fmt.Sprintf("No image files found in: %s", arg))
			}
			out.Paths = append(out.Paths, found...)
		default:
			out.Paths = append(out.Paths, arg)
		}
	}

	c.Logger.Verbosef("Collected %d files from %d arguments", len(out.Paths), len(args))
	if len(out.Paths) == 0 {
		return out, ErrNoFiles
	}
	return out, nil
}

func (c *Collector) exists(path string) bool {
	ok, err := c.FS.Exists(path)
	if err != nil {
		c.Logger.Debug("exists", "path", path, "err", err)
	}
	return ok
}

func (c *Collector) isDir(path string) bool {
	info, err := c.FS.Stat(path)
	return err == nil && info.IsDir()
}

func (c *Collector) walk(root string) ([]string, error) {
	var found []string
	err := c.FS.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if domain.IsSupportedPath(path) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return found, nil
}
