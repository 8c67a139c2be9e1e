package organize

import (
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"filesaver/internal/config"
	"filesaver/internal/dates"
	serr "filesaver/internal/errors"
	"filesaver/internal/locale"
	"filesaver/internal/log"
	"filesaver/internal/sorting"
	"filesaver/pkg/types"
)

// ProgressFunc is called once per finished file with the source path and
// the file's error, nil on success. With more than one worker it may be
// called concurrently.
type ProgressFunc func(path string, err error)

// Engine places batches of files into a target directory
type Engine struct {
	dates    sorting.DateSource
	locale   locale.Locale
	workers  int
	dryRun   bool
	progress ProgressFunc
	logger   *log.Logger
	mu       sync.RWMutex
}

// Option configures an Engine
type Option func(*Engine)

// WithWorkers places up to n files concurrently. The report is the same as
// for sequential placement.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithDryRun reports what would happen without touching the filesystem
func WithDryRun(dryRun bool) Option {
	return func(e *Engine) {
		e.dryRun = dryRun
	}
}

// WithLocale selects month names and report messages
func WithLocale(l locale.Locale) Option {
	return func(e *Engine) {
		e.locale = l
	}
}

// WithDateSource overrides how creation dates are determined
func WithDateSource(d sorting.DateSource) Option {
	return func(e *Engine) {
		e.dates = d
	}
}

// WithProgress registers a per-file callback
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// WithLogger sets the engine's logger
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates a new placement Engine with sequential, non-dry-run defaults
func New(opts ...Option) *Engine {
	e := &Engine{
		dates:   dates.NewExtractor(),
		locale:  locale.Default(),
		workers: 1,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ConfigOptions translates configuration into engine options
func ConfigOptions(cfg *config.Config) []Option {
	var dateOpts []dates.Option
	if cfg.Date.ModTimeFallback {
		dateOpts = append(dateOpts, dates.WithModTimeFallback())
	}
	return []Option{
		WithWorkers(cfg.Save.Workers),
		WithDryRun(cfg.Save.DryRun),
		WithLocale(locale.Lookup(cfg.Locale)),
		WithDateSource(dates.NewExtractor(dateOpts...)),
	}
}

// NewWithConfig creates a new Engine from configuration. Extra options are
// applied after the configured ones.
func NewWithConfig(cfg *config.Config, opts ...Option) *Engine {
	return New(append(ConfigOptions(cfg), opts...)...)
}

// SetDryRun sets whether operations should be performed or just simulated
func (e *Engine) SetDryRun(dryRun bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dryRun = dryRun
}

// IsDryRun returns whether the engine is in dry run mode
func (e *Engine) IsDryRun() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dryRun
}

// SetLocale switches month names and report messages
func (e *Engine) SetLocale(l locale.Locale) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.locale = l
}

// outcome is the result of placing one file
type outcome struct {
	dest string
	err  error
}

// SaveFiles places files into targetDir using action. With a sort variant
// the files are bucketed first; if bucketing fails the batch is aborted with
// a single global error and no file is touched. Otherwise every file is
// handled on its own and ends up either saved or in Errors.
func (e *Engine) SaveFiles(files []types.UserFile, targetDir string, action types.SaveAction, variant *types.SortVariant) *types.SaveResult {
	e.mu.RLock()
	dryRun, loc := e.dryRun, e.locale
	e.mu.RUnlock()

	logger := e.logger.With(
		log.F("target", targetDir),
		log.F("action", action.String()),
		log.F("files", len(files)),
	)
	result := types.NewSaveResult()
	result.DryRun = dryRun

	paths := types.Paths(files)

	var destinations []string
	if variant != nil {
		resolver := sorting.NewResolver(e.dates, loc)
		resolver.SetDryRun(dryRun)
		resolver.SetLogger(e.logger)

		resolved, err := resolver.Resolve(*variant, paths, targetDir)
		if err != nil {
			e.logger.WithError(err).Error("Sorting failed, aborting batch")
			result.AddGlobalError(e.globalMessage(loc, err))
			return result
		}
		destinations = resolved
	}

	if destinations == nil {
		destinations = make([]string, len(paths))
		for i, src := range paths {
			if name := types.FileName(src); name != "" {
				destinations[i] = filepath.Join(targetDir, name)
			}
		}
	}

	outcomes := make([]outcome, len(paths))
	place := func(i int) {
		src, dest := paths[i], destinations[i]
		err := e.placeOne(src, dest, action, dryRun)
		outcomes[i] = outcome{dest: dest, err: err}
		if e.progress != nil {
			e.progress(src, err)
		}
	}

	if e.workers <= 1 || len(paths) < 2 {
		for i := range paths {
			place(i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(e.workers)
		for _, group := range groupByDestination(destinations) {
			g.Go(func() error {
				for _, i := range group {
					place(i)
				}
				return nil
			})
		}
		_ = g.Wait()
	}

	// Fold in input order so the report does not depend on scheduling.
	for i, src := range paths {
		o := outcomes[i]
		if o.err != nil {
			result.AddError(src, e.fileMessage(loc, o.err))
			continue
		}
		result.AddSaved(src)
		if action == types.Move {
			result.AddRenamed(src, o.dest)
		}
	}

	logger.With(
		log.F("saved", len(result.SuccessfullySavedFiles)),
		log.F("failed", len(result.Errors)),
		log.F("dry_run", dryRun),
	).Info("Batch finished")
	return result
}

// groupByDestination splits the batch into groups of files sharing a
// destination, each in input order. Groups never touch each other's
// destination, so running them concurrently gives the sequential outcome.
func groupByDestination(destinations []string) [][]int {
	var groups [][]int
	index := make(map[string]int, len(destinations))
	for i, dest := range destinations {
		if dest == "" {
			groups = append(groups, []int{i})
			continue
		}
		key := filepath.Clean(dest)
		if g, ok := index[key]; ok {
			groups[g] = append(groups[g], i)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, []int{i})
	}
	return groups
}

// placeOne runs the per-file checks and the filesystem operation.
func (e *Engine) placeOne(src, dest string, action types.SaveAction, dryRun bool) error {
	logger := e.logger.With(log.F("source", src), log.F("destination", dest))

	if types.FileName(src) == "" || dest == "" {
		return serr.NewFileError("file has no name", src, serr.NoFileName, nil)
	}

	if exists, err := pathExists(dest); err != nil {
		return serr.NewFileError("cannot check destination", dest, serr.FileOperationFailed, err)
	} else if exists {
		logger.Warn("Destination already exists")
		return serr.NewFileError("destination already exists", dest, serr.DestinationExists, nil)
	}

	if dryRun {
		logger.Infof("Would %s file", action)
		return nil
	}

	var err error
	switch action {
	case types.Copy:
		err = copyNoClobber(src, dest)
	case types.Move:
		err = renameNoClobber(src, dest)
	default:
		return serr.NewFileError("unknown save action", src, serr.InvalidInputData, nil)
	}
	if err != nil {
		logger.With(log.F("error", err)).Warnf("Failed to %s file", action)
		return err
	}

	logger.Debugf("%s done", action)
	return nil
}

// PlaceFile places a single file at dest with the same checks as SaveFiles.
func (e *Engine) PlaceFile(src, dest string, action types.SaveAction) error {
	return e.placeOne(src, filepath.Clean(dest), action, e.IsDryRun())
}

// fileMessage maps a per-file error to the text reported to the caller.
// Typed conditions use the catalog; OS errors keep their own message.
func (e *Engine) fileMessage(loc locale.Locale, err error) string {
	switch serr.KindOf(err) {
	case serr.NoFileName:
		return loc.Messages.NoFileName
	case serr.DestinationExists:
		return loc.Messages.DestinationExists
	}
	var fileErr *serr.FileError
	if serr.As(err, &fileErr) && serr.Unwrap(fileErr) != nil {
		return serr.Unwrap(fileErr).Error()
	}
	return err.Error()
}

// globalMessage maps a resolver error to the single global error text.
func (e *Engine) globalMessage(loc locale.Locale, err error) string {
	switch serr.KindOf(err) {
	case serr.MetadataUnavailable:
		return loc.Messages.DateUnavailable
	case serr.InvalidInputData:
		return loc.Messages.InvalidSortVariant
	default:
		return loc.Messages.SortDirsFailed
	}
}
