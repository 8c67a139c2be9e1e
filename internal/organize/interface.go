package organize

import (
	"filesaver/internal/locale"
	"filesaver/pkg/types"
)

// Saver defines the interface for batch placement operations
// This allows for dependency injection in tests and other parts of the application
type Saver interface {
	// SetDryRun sets whether operations should be performed or just simulated
	SetDryRun(dryRun bool)

	// SetLocale switches month names and report messages
	SetLocale(l locale.Locale)

	// SaveFiles places a batch of files and reports per-file outcomes
	SaveFiles(files []types.UserFile, targetDir string, action types.SaveAction, variant *types.SortVariant) *types.SaveResult

	// PlaceFile places a single file at an exact destination
	PlaceFile(src, dest string, action types.SaveAction) error
}

// Ensure Engine implements the Saver interface
var _ Saver = (*Engine)(nil)
