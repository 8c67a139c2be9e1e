// Package locale holds the language dependent pieces of filesaver: month
// names for bucket directories and the messages reported to the caller.
package locale

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// MonthNamer maps a month to its full localized name.
type MonthNamer interface {
	MonthName(m time.Month) string
}

// Messages are the user-facing texts of a batch report. Each condition has
// its own text so callers can tell them apart.
type Messages struct {
	NoFileName         string
	DestinationExists  string
	SortDirsFailed     string
	DateUnavailable    string
	InvalidSortVariant string
}

// Locale bundles month names and messages for one language.
type Locale struct {
	Tag      language.Tag
	Months   [12]string
	Messages Messages
}

// MonthName returns the localized name of m. Months outside 1-12 are a
// caller bug and panic.
func (l Locale) MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		panic(fmt.Sprintf("locale: invalid month %d", int(m)))
	}
	return l.Months[m-1]
}

// German is the default locale.
var German = Locale{
	Tag: language.German,
	Months: [12]string{
		"Januar", "Februar", "März", "April", "Mai", "Juni",
		"Juli", "August", "September", "Oktober", "November", "Dezember",
	},
	Messages: Messages{
		NoFileName:         "Datei scheint keinen Namen zu haben",
		DestinationExists:  "Die Datei existiert bereits",
		SortDirsFailed:     "Die Ordner, welche zum sortieren erstellt werden sollten, konnten nicht erzeugt werden",
		DateUnavailable:    "Das Erstellungsdatum einer Datei konnte nicht ermittelt werden",
		InvalidSortVariant: "Die Sortiereinstellung ist ungültig",
	},
}

// English locale.
var English = Locale{
	Tag: language.English,
	Months: [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	Messages: Messages{
		NoFileName:         "file has no name",
		DestinationExists:  "destination already exists",
		SortDirsFailed:     "the directories needed for sorting could not be created",
		DateUnavailable:    "the creation date of a file could not be determined",
		InvalidSortVariant: "the sort setting is invalid",
	},
}

var (
	supported = []Locale{German, English}
	matcher   = language.NewMatcher([]language.Tag{German.Tag, English.Tag})
)

// Default returns the locale used when nothing is configured.
func Default() Locale {
	return German
}

// Lookup returns the supported locale closest to the BCP 47 tag name, e.g.
// "de-CH" resolves to German and "en_GB" to English. Empty or unparsable
// names and languages without a confident match fall back to the default.
func Lookup(name string) Locale {
	if name == "" {
		return Default()
	}
	tag, err := language.Parse(name)
	if err != nil {
		return Default()
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return Default()
	}
	return supported[index]
}

// Supported lists the base language codes that have a catalog.
func Supported() []string {
	names := make([]string, len(supported))
	for i, l := range supported {
		names[i] = l.Tag.String()
	}
	return names
}
