package main

import (
	"os"
	"path/filepath"

	"filesaver/internal/patterns"
)

// expandArgs replaces directory arguments with their top-level regular
// files that pass filter. Other arguments are kept as given, even when
// they do not exist, so the engine reports them.
func expandArgs(args []string, filter *patterns.Filter) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			p := filepath.Join(arg, entry.Name())
			if filter.Match(p) {
				paths = append(paths, p)
			}
		}
	}
	return paths, nil
}
