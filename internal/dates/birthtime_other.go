//go:build !linux && !darwin && !freebsd && !netbsd && !windows

package dates

import (
	"os"
	"time"
)

// BirthTime reports ErrBirthTimeUnsupported for existing files on platforms
// without a creation timestamp.
func BirthTime(path string) (time.Time, error) {
	if _, err := os.Stat(path); err != nil {
		return time.Time{}, err
	}
	return time.Time{}, ErrBirthTimeUnsupported
}
