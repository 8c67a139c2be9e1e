package dates

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// exifLayouts lists the accepted renderings of an EXIF date/time value. The
// first is the raw EXIF encoding, the second the display form some tools
// write back.
var exifLayouts = []string{
	"2006:01:02 15:04:05",
	"2006-01-02 15:04:05",
}

// ExifDate reads the capture date embedded in the primary image of path.
// DateTimeOriginal is preferred; DateTimeDigitized is used only when the
// original tag is absent. The value is wall-clock time and is interpreted in
// the local zone.
func ExifDate(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read EXIF metadata: %w", err)
	}

	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		tag, err = x.Get(exif.DateTimeDigitized)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("no EXIF creation date found")
	}

	raw, err := tag.StringVal()
	if err != nil {
		return time.Time{}, fmt.Errorf("EXIF creation date is not text: %w", err)
	}
	return parseExifTime(raw)
}

func parseExifTime(raw string) (time.Time, error) {
	value := strings.TrimSpace(strings.TrimRight(raw, "\x00"))
	for _, layout := range exifLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q in EXIF metadata", value)
}
