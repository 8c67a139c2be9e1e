package dates

import "errors"

// ErrBirthTimeUnsupported is returned when the platform or the filesystem
// holding a file does not record its creation time.
var ErrBirthTimeUnsupported = errors.New("filesystem does not record creation time")
