package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterMatch(t *testing.T) {
	f, err := NewFilter([]string{"*"}, []string{".*", "*~", "*.part", "*.crdownload"})
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"/inbox/photo.jpg", true},
		{"/inbox/report.pdf", true},
		{"/inbox/.hidden", false},
		{"/inbox/notes.txt~", false},
		{"/inbox/movie.mkv.part", false},
		{"/inbox/setup.exe.crdownload", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Match(tt.path))
		})
	}
}

func TestFilterIncludeAlternatives(t *testing.T) {
	f := MustFilter([]string{"*.{jpg,jpeg,png}"}, nil)
	assert.True(t, f.Match("a.jpg"))
	assert.True(t, f.Match("dir/b.png"))
	assert.False(t, f.Match("c.gif"))
}

func TestFilterEmptyIncludeAcceptsAll(t *testing.T) {
	f := MustFilter(nil, []string{"*.tmp"})
	assert.True(t, f.Match("a.txt"))
	assert.False(t, f.Match("a.tmp"))
}

func TestFilterSelectKeepsOrder(t *testing.T) {
	f := MustFilter([]string{"*.jpg"}, nil)
	got := f.Select([]string{"c.jpg", "b.txt", "a.jpg"})
	assert.Equal(t, []string{"c.jpg", "a.jpg"}, got)
}

func TestFilterInvalidPattern(t *testing.T) {
	_, err := NewFilter([]string{"[unclosed"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}
