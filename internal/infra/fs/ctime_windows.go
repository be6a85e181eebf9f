//go:build windows

package fs

import (
	"time"

	"golang.org/x/sys/windows"
)

func setCreationTime(path string, t time.Time) error {
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	handle, err := windows.CreateFile(
		name,
		windows.FILE_WRITE_ATTRIBUTES,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_BACKUP_SEMANTICS,
		0,
	)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(handle)

	created := windows.NsecToFiletime(t.UnixNano())
	return windows.SetFileTime(handle, &created, nil, nil)
}
