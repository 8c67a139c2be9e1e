package config

import "sort"

// Palette holds the ANSI 256 color codes used by the CLI report
type Palette struct {
	Primary string
	Success string
	Warning string
	Error   string
	Muted   string
}

var themes = map[string]Palette{
	"default":    {Primary: "213", Success: "114", Warning: "220", Error: "196", Muted: "245"},
	"dark":       {Primary: "105", Success: "78", Warning: "214", Error: "160", Muted: "240"},
	"light":      {Primary: "135", Success: "150", Warning: "222", Error: "210", Muted: "250"},
	"monochrome": {Primary: "255", Success: "252", Warning: "248", Error: "255", Muted: "241"},
}

// GetTheme returns a predefined palette by name.
// If the theme doesn't exist, returns the default palette.
func GetTheme(name string) Palette {
	if p, ok := themes[name]; ok {
		return p
	}
	return themes["default"]
}

// ListThemes returns the available theme names, sorted
func ListThemes() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
