package types

// SaveResult is the aggregated outcome of a save batch.
//
// Unless GlobalErrors is non-empty, every source path ends up in exactly one
// of SuccessfullySavedFiles or Errors. When GlobalErrors is set no file was
// touched and all other fields are empty.
type SaveResult struct {
	SuccessfullySavedFiles []string          `json:"successfully_saved_files"`
	Errors                 map[string]string `json:"errors"`
	GlobalErrors           []string          `json:"global_errors"`
	RenamedFiles           map[string]string `json:"renamed_files"`
	DryRun                 bool              `json:"dry_run,omitempty"`
}

// NewSaveResult returns an empty result with all containers allocated so it
// encodes as [] and {} rather than null.
func NewSaveResult() *SaveResult {
	return &SaveResult{
		SuccessfullySavedFiles: []string{},
		Errors:                 map[string]string{},
		GlobalErrors:           []string{},
		RenamedFiles:           map[string]string{},
	}
}

// AddSaved records path as placed.
func (r *SaveResult) AddSaved(path string) {
	r.SuccessfullySavedFiles = append(r.SuccessfullySavedFiles, path)
}

// AddError records a per-file failure.
func (r *SaveResult) AddError(path, reason string) {
	r.Errors[path] = reason
}

// AddGlobalError records a batch-level failure.
func (r *SaveResult) AddGlobalError(reason string) {
	r.GlobalErrors = append(r.GlobalErrors, reason)
}

// AddRenamed records that a move placed src at dest.
func (r *SaveResult) AddRenamed(src, dest string) {
	r.RenamedFiles[src] = dest
}

// Failed reports whether anything in the batch went wrong.
func (r *SaveResult) Failed() bool {
	return len(r.GlobalErrors) > 0 || len(r.Errors) > 0
}

// RemoveResult is the outcome of a trash batch.
type RemoveResult struct {
	Success     bool     `json:"success"`
	FailedFiles []string `json:"failed_files"`
}

// NewRemoveResult returns a successful, empty result.
func NewRemoveResult() *RemoveResult {
	return &RemoveResult{Success: true, FailedFiles: []string{}}
}

// AddFailure records path as not removed.
func (r *RemoveResult) AddFailure(path string) {
	r.FailedFiles = append(r.FailedFiles, path)
	r.Success = false
}
