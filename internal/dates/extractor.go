// Package dates determines when a file was created: embedded EXIF capture
// dates first, the filesystem birth time second.
package dates

import (
	"os"
	"time"

	serr "filesaver/internal/errors"
	"filesaver/internal/log"
)

// Extractor resolves creation dates for files
type Extractor struct {
	modTimeFallback bool
	logger          *log.Logger
}

// Option configures an Extractor
type Option func(*Extractor)

// WithModTimeFallback makes the extractor use the modification time when the
// filesystem does not record a birth time.
func WithModTimeFallback() Option {
	return func(e *Extractor) {
		e.modTimeFallback = true
	}
}

// WithLogger sets the logger used for fallback diagnostics
func WithLogger(l *log.Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

// NewExtractor creates a new Extractor
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{logger: log.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreationDate returns the best-effort creation time of path in local time.
//
// Unreadable, absent or malformed EXIF data is not an error; it only
// triggers the filesystem fallback. Errors are returned only when the
// fallback itself fails.
func (e *Extractor) CreationDate(path string) (time.Time, error) {
	logger := e.logger.With(log.F("path", path))

	taken, err := ExifDate(path)
	if err == nil {
		logger.Debugf("Using EXIF date %s", taken.Format(time.DateTime))
		return taken, nil
	}
	logger.Debugf("No usable EXIF date, falling back to filesystem: %v", err)

	born, err := BirthTime(path)
	if err == nil {
		return born.Local(), nil
	}

	if e.modTimeFallback && serr.Is(err, ErrBirthTimeUnsupported) {
		info, statErr := os.Stat(path)
		if statErr == nil {
			logger.Debug("Birth time unsupported, using modification time")
			return info.ModTime().Local(), nil
		}
		err = statErr
	}

	kind := serr.MetadataUnavailable
	if os.IsNotExist(err) {
		kind = serr.FileNotFound
	}
	return time.Time{}, serr.NewFileError("cannot determine creation date", path, kind, err)
}
