package types

import (
	"fmt"
	"strings"
)

// SaveAction selects the filesystem operation applied to every file of a batch.
type SaveAction int

const (
	// Copy duplicates the file and leaves the source untouched
	Copy SaveAction = iota
	// Move renames the file into its destination
	Move
)

// String returns the wire name of the action.
func (a SaveAction) String() string {
	switch a {
	case Copy:
		return "copy"
	case Move:
		return "move"
	default:
		return fmt.Sprintf("SaveAction(%d)", int(a))
	}
}

// ParseSaveAction parses "copy" or "move", ignoring case and surrounding space.
func ParseSaveAction(s string) (SaveAction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "copy":
		return Copy, nil
	case "move":
		return Move, nil
	default:
		return Copy, fmt.Errorf("unknown save action %q (want copy or move)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a SaveAction) MarshalText() ([]byte, error) {
	if a != Copy && a != Move {
		return nil, fmt.Errorf("invalid save action %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *SaveAction) UnmarshalText(text []byte) error {
	parsed, err := ParseSaveAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
