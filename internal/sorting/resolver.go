// Package sorting computes bucketed destinations for a batch of files.
package sorting

import (
	"os"
	"path/filepath"
	"time"

	serr "filesaver/internal/errors"
	"filesaver/internal/locale"
	"filesaver/internal/log"
	"filesaver/internal/naming"
	"filesaver/pkg/types"
)

// DateSource supplies the creation date used to pick a file's bucket
type DateSource interface {
	CreationDate(path string) (time.Time, error)
}

// Resolver turns a sort strategy into one destination path per source.
type Resolver struct {
	dates  DateSource
	months locale.MonthNamer
	dryRun bool
	logger *log.Logger
}

// NewResolver creates a Resolver naming buckets with months
func NewResolver(dates DateSource, months locale.MonthNamer) *Resolver {
	return &Resolver{
		dates:  dates,
		months: months,
		logger: log.Default(),
	}
}

// SetDryRun makes Resolve compute destinations without creating directories
func (r *Resolver) SetDryRun(dryRun bool) {
	r.dryRun = dryRun
}

// SetLogger replaces the resolver's logger
func (r *Resolver) SetLogger(l *log.Logger) {
	r.logger = l
}

// Resolve returns destinations parallel to paths. It is all-or-nothing: on
// error no destinations are returned and the caller must not place any file.
// The error is always a *errors.BatchError.
//
// Paths without a file name get an empty destination; placing them is
// rejected per file later on.
func (r *Resolver) Resolve(variant types.SortVariant, paths []string, targetDir string) ([]string, error) {
	if err := variant.Validate(); err != nil {
		return nil, serr.NewBatchError("invalid sort variant", "", serr.InvalidInputData, err)
	}

	switch variant.Kind {
	case types.CreationDate:
		return r.byCreationDate(variant.Format, paths, targetDir)
	default:
		return nil, serr.NewBatchError("unhandled sort variant", string(variant.Kind), serr.InvalidInputData, nil)
	}
}

func (r *Resolver) byCreationDate(format string, paths []string, targetDir string) ([]string, error) {
	if err := naming.Validate(format); err != nil {
		return nil, serr.NewBatchError("invalid sort format", format, serr.InvalidInputData, err)
	}

	destinations := make([]string, 0, len(paths))
	// Several files usually share a bucket; create each directory once.
	created := make(map[string]bool)

	for _, path := range paths {
		name := types.FileName(path)
		if name == "" {
			destinations = append(destinations, "")
			continue
		}

		date, err := r.dates.CreationDate(path)
		if err != nil {
			return nil, serr.NewBatchError("cannot determine creation date", path, serr.MetadataUnavailable, err)
		}

		bucket := filepath.Join(targetDir, naming.Interpolate(date, format, r.months))
		if !r.dryRun && !created[bucket] {
			if err := os.MkdirAll(bucket, 0755); err != nil {
				return nil, serr.NewBatchError("cannot create sort directory", bucket, serr.DirectoryCreateFailed, err)
			}
			created[bucket] = true
			r.logger.With(log.F("directory", bucket)).Debug("Ensured sort directory")
		}

		destinations = append(destinations, filepath.Join(bucket, name))
	}

	return destinations, nil
}
