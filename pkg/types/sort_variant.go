package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SortKind names a sort strategy.
type SortKind string

// CreationDate buckets files by their creation date.
const CreationDate SortKind = "creationdate"

// SortVariant configures how files are bucketed below the target directory.
// A nil *SortVariant means flat placement.
type SortVariant struct {
	Kind   SortKind `json:"kind" yaml:"kind"`
	Format string   `json:"format" yaml:"format"`
}

// NewCreationDateSort returns a creation date strategy using format.
func NewCreationDateSort(format string) *SortVariant {
	return &SortVariant{Kind: CreationDate, Format: format}
}

// Validate checks the kind is known.
func (v SortVariant) Validate() error {
	switch v.Kind {
	case CreationDate:
		return nil
	default:
		return fmt.Errorf("unknown sort variant %q", v.Kind)
	}
}

type sortVariantFlat struct {
	Kind   *SortKind `json:"kind"`
	Format string    `json:"format"`
}

// UnmarshalJSON accepts {"kind":"creationdate","format":"..."} as well as the
// externally tagged {"creationdate":{"format":"..."}} older shells send.
func (v *SortVariant) UnmarshalJSON(data []byte) error {
	var flat sortVariantFlat
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	if flat.Kind != nil {
		v.Kind = SortKind(strings.ToLower(string(*flat.Kind)))
		v.Format = flat.Format
		return v.Validate()
	}

	var tagged map[string]struct {
		Format string `json:"format"`
	}
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}
	if len(tagged) != 1 {
		return fmt.Errorf("sort variant must name exactly one kind, got %d", len(tagged))
	}
	for kind, params := range tagged {
		v.Kind = SortKind(strings.ToLower(kind))
		v.Format = params.Format
	}
	return v.Validate()
}
