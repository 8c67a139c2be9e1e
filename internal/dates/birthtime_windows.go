//go:build windows

package dates

import (
	"os"
	"syscall"
	"time"
)

// BirthTime returns the creation time of path as recorded by the filesystem.
func BirthTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	attrs, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, ErrBirthTimeUnsupported
	}
	return time.Unix(0, attrs.CreationTime.Nanoseconds()), nil
}
