// Package naming turns a timestamp and a user supplied template into a
// bucket directory name.
//
// Supported tokens:
//
//	%Y  four digit year
//	%y  two digit year
//	%m  zero padded month
//	%B  localized full month name
//
// Everything else, including unknown %-sequences, is copied verbatim.
// There is no escape for a literal token.
package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"filesaver/internal/locale"
)

// Interpolate substitutes the date tokens of format with values from t.
func Interpolate(t time.Time, format string, months locale.MonthNamer) string {
	r := strings.NewReplacer(
		"%Y", fmt.Sprintf("%04d", t.Year()),
		"%y", fmt.Sprintf("%02d", t.Year()%100),
		"%m", fmt.Sprintf("%02d", int(t.Month())),
		"%B", months.MonthName(t.Month()),
	)
	return r.Replace(format)
}

// Validate rejects formats whose output could land outside the target
// directory: absolute paths and ".." segments. Separators are allowed and
// produce nested buckets.
func Validate(format string) error {
	if strings.TrimSpace(format) == "" {
		return fmt.Errorf("sort format is empty")
	}
	probe := Interpolate(time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC), format, locale.English)
	if filepath.IsAbs(probe) || strings.HasPrefix(probe, "/") || strings.HasPrefix(probe, `\`) {
		return fmt.Errorf("sort format %q must be relative", format)
	}
	for _, segment := range strings.FieldsFunc(probe, func(r rune) bool { return r == '/' || r == '\\' }) {
		if segment == ".." {
			return fmt.Errorf("sort format %q must not contain '..'", format)
		}
	}
	return nil
}
