package testutils

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateTestFilesWithContent creates test files with specific content
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// CreateTestFile writes a single file and returns its path
func CreateTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	CreateTestFilesWithContent(t, dir, map[string]string{name: content})
	return filepath.Join(dir, name)
}

// WriteExifJPEG writes a tiny JPEG whose EXIF block carries the given
// DateTimeOriginal and DateTimeDigitized values ("YYYY:MM:DD HH:MM:SS").
// Empty values leave the tag out.
func WriteExifJPEG(t *testing.T, dir, name, original, digitized string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, ExifJPEG(original, digitized), 0644))
	return path
}

const (
	tagExifIFDPointer    = 0x8769
	tagDateTimeOriginal  = 0x9003
	tagDateTimeDigitized = 0x9004
	typeASCII            = 2
	typeLong             = 4
)

type asciiTag struct {
	id    uint16
	value string
}

// ExifJPEG builds the bytes of a minimal JPEG: SOI, an APP1 "Exif" segment
// holding a little-endian TIFF with IFD0 -> Exif IFD, and EOI.
func ExifJPEG(original, digitized string) []byte {
	var tags []asciiTag
	if original != "" {
		tags = append(tags, asciiTag{tagDateTimeOriginal, original})
	}
	if digitized != "" {
		tags = append(tags, asciiTag{tagDateTimeDigitized, digitized})
	}

	le := binary.LittleEndian
	var tiff bytes.Buffer

	// header + IFD0 with a single Exif pointer entry
	const exifIFDOffset = 8 + 2 + 12 + 4
	tiff.Write([]byte{'I', 'I', 0x2A, 0x00})
	_ = binary.Write(&tiff, le, uint32(8))
	_ = binary.Write(&tiff, le, uint16(1))
	_ = binary.Write(&tiff, le, uint16(tagExifIFDPointer))
	_ = binary.Write(&tiff, le, uint16(typeLong))
	_ = binary.Write(&tiff, le, uint32(1))
	_ = binary.Write(&tiff, le, uint32(exifIFDOffset))
	_ = binary.Write(&tiff, le, uint32(0))

	// Exif IFD, values stored after the directory
	dataOffset := exifIFDOffset + 2 + 12*len(tags) + 4
	var data bytes.Buffer
	_ = binary.Write(&tiff, le, uint16(len(tags)))
	for _, tag := range tags {
		value := append([]byte(tag.value), 0)
		_ = binary.Write(&tiff, le, tag.id)
		_ = binary.Write(&tiff, le, uint16(typeASCII))
		_ = binary.Write(&tiff, le, uint32(len(value)))
		if len(value) <= 4 {
			inline := make([]byte, 4)
			copy(inline, value)
			tiff.Write(inline)
			continue
		}
		_ = binary.Write(&tiff, le, uint32(dataOffset+data.Len()))
		data.Write(value)
		if data.Len()%2 == 1 {
			data.WriteByte(0)
		}
	}
	_ = binary.Write(&tiff, le, uint32(0))
	tiff.Write(data.Bytes())

	var jpeg bytes.Buffer
	jpeg.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	_ = binary.Write(&jpeg, binary.BigEndian, uint16(2+6+tiff.Len()))
	jpeg.WriteString("Exif\x00\x00")
	jpeg.Write(tiff.Bytes())
	jpeg.Write([]byte{0xFF, 0xD9})
	return jpeg.Bytes()
}
