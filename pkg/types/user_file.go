package types

import (
	"fmt"
	"os"
	"path/filepath"
)

// UserFile is one entry of a batch as handed over by the UI shell.
// Tag is carried through untouched; the engine does not interpret it.
type UserFile struct {
	Path string  `json:"path" yaml:"path"`
	Tag  *string `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// NewUserFile creates an untagged UserFile for path.
func NewUserFile(path string) UserFile {
	return UserFile{Path: path}
}

// WithTag returns a copy of f carrying tag.
func (f UserFile) WithTag(tag string) UserFile {
	f.Tag = &tag
	return f
}

// Name returns the base name of the file, or "" when the path has none
// (empty path, filesystem root, "." or "..").
func (f UserFile) Name() string {
	return FileName(f.Path)
}

// String returns a human-readable representation
func (f UserFile) String() string {
	if f.Tag != nil {
		return fmt.Sprintf("%s [%s]", f.Path, *f.Tag)
	}
	return f.Path
}

// Paths extracts the paths of files in order.
func Paths(files []UserFile) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}

// FileName returns the last element of path, or "" if path does not name a
// file. Trailing "." elements are skipped, so "photos/." names "photos",
// while a trailing ".." never names a file.
func FileName(path string) string {
	path = trimCurrentDir(path)
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	switch base {
	case ".", "..", string(filepath.Separator):
		return ""
	}
	if vol := filepath.VolumeName(path); vol != "" && base == vol {
		return ""
	}
	return base
}

// trimCurrentDir drops trailing separators and "." elements from path.
func trimCurrentDir(path string) string {
	for {
		end := len(path)
		for end > 1 && os.IsPathSeparator(path[end-1]) {
			end--
		}
		path = path[:end]
		if len(path) < 2 || path[len(path)-1] != '.' || !os.IsPathSeparator(path[len(path)-2]) {
			return path
		}
		path = path[:len(path)-1]
	}
}
