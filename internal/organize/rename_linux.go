//go:build linux

package organize

import (
	"os"

	"golang.org/x/sys/unix"

	serr "filesaver/internal/errors"
)

// renameNoClobber moves src to dest atomically refusing to replace dest.
// Filesystems without RENAME_NOREPLACE fall back to a plain rename, which
// relies on the existence check done before.
func renameNoClobber(src, dest string) error {
	err := unix.Renameat2(unix.AT_FDCWD, src, unix.AT_FDCWD, dest, unix.RENAME_NOREPLACE)
	switch err {
	case nil:
		return nil
	case unix.EEXIST:
		return serr.NewFileError("destination already exists", dest, serr.DestinationExists, err)
	case unix.EINVAL, unix.ENOSYS:
		if err := os.Rename(src, dest); err != nil {
			return osFileError(src, err)
		}
		return nil
	default:
		return osFileError(src, &os.LinkError{Op: "rename", Old: src, New: dest, Err: err})
	}
}
