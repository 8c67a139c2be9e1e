// Package patterns selects files by base name using shell-style globs.
package patterns

import (
	"path/filepath"

	"github.com/gobwas/glob"

	"filesaver/internal/errors"
)

// Filter accepts a file when its base name matches at least one include
// pattern and no exclude pattern.
type Filter struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewFilter compiles include and exclude patterns. An empty include list
// accepts everything not excluded.
func NewFilter(include, exclude []string) (*Filter, error) {
	f := &Filter{}
	var err error
	if f.include, err = compile(include); err != nil {
		return nil, err
	}
	if f.exclude, err = compile(exclude); err != nil {
		return nil, err
	}
	return f, nil
}

// MustFilter is like NewFilter but panics on a bad pattern
func MustFilter(include, exclude []string) *Filter {
	f, err := NewFilter(include, exclude)
	if err != nil {
		panic(err)
	}
	return f
}

func compile(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid pattern %q", p)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// Match reports whether path passes the filter
func (f *Filter) Match(path string) bool {
	name := filepath.Base(path)
	for _, g := range f.exclude {
		if g.Match(name) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, g := range f.include {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Select returns the paths that pass the filter, keeping their order
func (f *Filter) Select(paths []string) []string {
	var out []string
	for _, p := range paths {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
