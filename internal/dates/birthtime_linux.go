//go:build linux

package dates

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// BirthTime returns the creation time of path as recorded by the filesystem.
func BirthTime(path string) (time.Time, error) {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME, &stx)
	if errors.Is(err, unix.ENOSYS) {
		if _, statErr := os.Stat(path); statErr != nil {
			return time.Time{}, statErr
		}
		return time.Time{}, ErrBirthTimeUnsupported
	}
	if err != nil {
		return time.Time{}, &os.PathError{Op: "statx", Path: path, Err: err}
	}
	if stx.Mask&unix.STATX_BTIME == 0 {
		return time.Time{}, ErrBirthTimeUnsupported
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)), nil
}
