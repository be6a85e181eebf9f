//go:build !windows

package fs

import "time"

// Unix filesystems do not let user space set the birth time.
func setCreationTime(string, time.Time) error {
	return ErrCreationTimeUnsupported
}
