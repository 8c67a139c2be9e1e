package trash

import (
	"os"

	"filesaver/internal/errors"
	"filesaver/internal/log"
	"filesaver/pkg/types"
)

// Remover trashes batches of files
type Remover struct {
	bin    Bin
	logger *log.Logger
}

// NewRemover creates a Remover sending files to bin
func NewRemover(bin Bin) *Remover {
	return &Remover{bin: bin, logger: log.Default()}
}

// SetLogger replaces the remover's logger
func (r *Remover) SetLogger(l *log.Logger) {
	r.logger = l
}

// Remove trashes every file on its own, in input order. A failure never
// stops the remaining files and nothing is restored afterwards.
func (r *Remover) Remove(files []types.UserFile) *types.RemoveResult {
	result := types.NewRemoveResult()
	for _, f := range files {
		if err := r.trash(f.Path); err != nil {
			r.logger.WithError(err).Warn("Failed to trash file")
			result.AddFailure(f.Path)
			continue
		}
		r.logger.With(log.F("path", f.Path)).Debug("Trashed file")
	}
	r.logger.With(
		log.F("files", len(files)),
		log.F("failed", len(result.FailedFiles)),
	).Info("Trash batch finished")
	return result
}

func (r *Remover) trash(path string) error {
	if types.FileName(path) == "" {
		return errors.NewFileError("file has no name", path, errors.NoFileName, nil)
	}
	// Some trash implementations accept paths that are already gone.
	if _, err := os.Lstat(path); err != nil {
		kind := errors.FileOperationFailed
		if os.IsNotExist(err) {
			kind = errors.FileNotFound
		}
		return errors.NewFileError("cannot trash file", path, kind, err)
	}
	if err := r.bin.Put(path); err != nil {
		return errors.NewFileError("cannot trash file", path, errors.TrashFailed, err)
	}
	return nil
}
