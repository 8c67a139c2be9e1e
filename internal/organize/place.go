package organize

import (
	"io"
	"os"

	serr "filesaver/internal/errors"
)

// pathExists reports whether anything, including a dangling symlink, is at path.
func pathExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// copyNoClobber copies src to dest, failing if dest already exists.
// The destination gets the source's permission bits; a partial copy is removed.
func copyNoClobber(src, dest string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return osFileError(src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return osFileError(src, err)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		if os.IsExist(err) {
			return serr.NewFileError("destination already exists", dest, serr.DestinationExists, err)
		}
		return osFileError(dest, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = osFileError(dest, cerr)
		}
		if err != nil {
			_ = os.Remove(dest)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return osFileError(dest, err)
	}
	return nil
}

// osFileError wraps an OS error so its own message is what gets reported.
func osFileError(path string, err error) error {
	kind := serr.FileOperationFailed
	if os.IsNotExist(err) {
		kind = serr.FileNotFound
	} else if os.IsPermission(err) {
		kind = serr.FileAccessDenied
	}
	return serr.NewFileError("file operation failed", path, kind, err)
}
