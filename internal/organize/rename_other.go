//go:build !linux

package organize

import "os"

// renameNoClobber moves src to dest. The existence check done before is the
// only guard against replacing dest on this platform.
func renameNoClobber(src, dest string) error {
	if err := os.Rename(src, dest); err != nil {
		return osFileError(src, err)
	}
	return nil
}
