// Package trash sends files to a trash can instead of deleting them.
package trash

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/Bios-Marcel/wastebasket/v2"
	"github.com/google/uuid"

	"filesaver/internal/config"
	"filesaver/internal/errors"
)

// Bin receives files that are thrown away
type Bin interface {
	// Put moves path into the bin
	Put(path string) error
}

// SystemBin is the desktop trash of the current user
type SystemBin struct{}

// Put sends path to the desktop trash
func (SystemBin) Put(path string) error {
	return wastebasket.Trash(path)
}

// DirBin is a trash can rooted at a plain directory, laid out like a
// freedesktop.org trash: files/ holds the entries and info/ one .trashinfo
// record per entry.
type DirBin struct {
	root string
	now  func() time.Time
}

// NewDirBin creates a DirBin rooted at root
func NewDirBin(root string) *DirBin {
	return &DirBin{root: root, now: time.Now}
}

// Root returns the bin's directory
func (b *DirBin) Root() string {
	return b.root
}

// Put moves path into the bin under a unique entry name. The original
// location and deletion time are recorded in the entry's info file.
func (b *DirBin) Put(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	filesDir := filepath.Join(b.root, "files")
	infoDir := filepath.Join(b.root, "info")
	for _, dir := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return errors.Wrapf(err, "cannot prepare trash directory %s", dir)
		}
	}

	entry := uuid.New().String() + "-" + filepath.Base(abs)
	infoPath := filepath.Join(infoDir, entry+".trashinfo")

	info, err := os.OpenFile(infoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(info, "[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		(&url.URL{Path: abs}).EscapedPath(), b.now().Format("2006-01-02T15:04:05"))
	if cerr := info.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(infoPath)
		return err
	}

	if err := os.Rename(abs, filepath.Join(filesDir, entry)); err != nil {
		_ = os.Remove(infoPath)
		return err
	}
	return nil
}

// FromConfig returns a DirBin when a trash directory is configured and the
// system trash otherwise
func FromConfig(cfg *config.Config) Bin {
	if cfg.Trash.Directory != "" {
		return NewDirBin(cfg.Trash.Directory)
	}
	return SystemBin{}
}
