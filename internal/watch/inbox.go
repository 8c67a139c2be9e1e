package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"filesaver/internal/config"
	"filesaver/internal/errors"
	"filesaver/internal/log"
	"filesaver/internal/organize"
	"filesaver/internal/patterns"
	"filesaver/pkg/types"
)

// ErrAlreadyRunning is returned by Run when another inbox holds the lock
var ErrAlreadyRunning = errors.New("another inbox watcher is already running")

// InboxStatus represents the current status of an inbox
type InboxStatus struct {
	Running          bool      // Whether the inbox is currently active
	WatchDirectories []string  // Directories being watched
	LastActivity     time.Time // Time of the last file event
	FilesSaved       int       // Files placed successfully
	FilesFailed      int       // Files that could not be placed
	Pending          int       // Files waiting to settle
}

// Inbox watches directories and saves files once they stopped changing
type Inbox struct {
	directories []string
	target      string
	action      types.SaveAction
	variant     *types.SortVariant
	settle      time.Duration
	lockPath    string
	filter      *patterns.Filter
	saver       organize.Saver

	// Called with every batch result
	onBatch func(*types.SaveResult)

	mutex        sync.RWMutex
	pending      map[string]time.Time
	running      bool
	saved        int
	failed       int
	lastActivity time.Time
	logger       *log.Logger
}

// NewInbox creates an inbox from the save and watch settings of cfg.
// Extra directories are watched in addition to the configured ones.
func NewInbox(cfg *config.Config, saver organize.Saver, directories ...string) (*Inbox, error) {
	if cfg.Save.TargetDirectory == "" {
		return nil, errors.NewConfigError("inbox needs a target directory", "save.target_directory", errors.InvalidConfig, nil)
	}
	filter, err := patterns.NewFilter(cfg.Watch.Include, cfg.Watch.Exclude)
	if err != nil {
		return nil, errors.NewConfigError("invalid watch pattern", "watch", errors.InvalidConfig, err)
	}

	dirs := append(append([]string{}, cfg.Watch.Directories...), directories...)
	if len(dirs) == 0 {
		return nil, errors.NewConfigError("no directories to watch", "watch.directories", errors.InvalidConfig, nil)
	}

	return &Inbox{
		directories: dirs,
		target:      cfg.Save.TargetDirectory,
		action:      cfg.SaveAction(),
		variant:     cfg.SortVariant(),
		settle:      cfg.SettleInterval(),
		lockPath:    cfg.LockPath(),
		filter:      filter,
		saver:       saver,
		pending:     make(map[string]time.Time),
		logger:      log.LogWithFields(log.F("component", "inbox")),
	}, nil
}

// SetSettle changes how long a file must stay unchanged before it is saved
func (in *Inbox) SetSettle(d time.Duration) {
	in.mutex.Lock()
	defer in.mutex.Unlock()
	in.settle = d
}

// OnBatch registers a callback receiving every batch result
func (in *Inbox) OnBatch(cb func(*types.SaveResult)) {
	in.mutex.Lock()
	defer in.mutex.Unlock()
	in.onBatch = cb
}

// Status returns the current status of the inbox
func (in *Inbox) Status() InboxStatus {
	in.mutex.RLock()
	defer in.mutex.RUnlock()
	return InboxStatus{
		Running:          in.running,
		WatchDirectories: append([]string{}, in.directories...),
		LastActivity:     in.lastActivity,
		FilesSaved:       in.saved,
		FilesFailed:      in.failed,
		Pending:          len(in.pending),
	}
}

// Run watches until ctx is cancelled. Files already in the inbox are picked
// up as well. Only one inbox per lock file can run at a time.
func (in *Inbox) Run(ctx context.Context) error {
	lock := flock.New(in.lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock %s: %w", in.lockPath, err)
	}
	if !locked {
		return ErrAlreadyRunning
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			in.logger.With(log.F("error", err)).Warn("Failed to release lock")
		}
	}()

	watcher, err := New(in.filter)
	if err != nil {
		return err
	}
	for _, dir := range in.directories {
		if err := watcher.AddDirectory(dir); err != nil {
			return fmt.Errorf("error adding watch directory %s: %w", dir, err)
		}
	}
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("error starting watcher: %w", err)
	}
	defer watcher.Stop()

	in.mutex.Lock()
	in.running = true
	settle := in.settle
	in.mutex.Unlock()
	defer func() {
		in.mutex.Lock()
		in.running = false
		in.mutex.Unlock()
	}()

	in.scanExisting()

	ticker := time.NewTicker(tickInterval(settle))
	defer ticker.Stop()

	in.logger.With(log.F("directories", in.directories), log.F("target", in.target)).Info("Inbox running")
	for {
		select {
		case <-ctx.Done():
			in.logger.Info("Inbox stopped")
			return nil
		case ev, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			in.touch(ev.Path, ev.Timestamp)
		case now := <-ticker.C:
			in.flush(now)
		}
	}
}

func tickInterval(settle time.Duration) time.Duration {
	if d := settle / 2; d > 10*time.Millisecond {
		return d
	}
	return 10 * time.Millisecond
}

// scanExisting queues the files that were in the inbox before it started.
func (in *Inbox) scanExisting() {
	now := time.Now()
	for _, dir := range in.directories {
		entries, err := os.ReadDir(dir)
		if err != nil {
			in.logger.With(log.F("directory", dir), log.F("error", err)).Warn("Cannot scan inbox directory")
			continue
		}
		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if in.filter.Match(path) {
				in.touch(path, now)
			}
		}
	}
}

func (in *Inbox) touch(path string, at time.Time) {
	in.mutex.Lock()
	defer in.mutex.Unlock()
	in.pending[path] = at
	in.lastActivity = at
}

// flush saves every pending file that has been quiet for the settle time.
func (in *Inbox) flush(now time.Time) {
	in.mutex.Lock()
	var ready []string
	for path, last := range in.pending {
		if now.Sub(last) >= in.settle {
			ready = append(ready, path)
			delete(in.pending, path)
		}
	}
	cb := in.onBatch
	in.mutex.Unlock()

	if len(ready) == 0 {
		return
	}
	sort.Strings(ready)

	files := make([]types.UserFile, 0, len(ready))
	for _, path := range ready {
		if _, err := os.Lstat(path); err != nil {
			continue
		}
		files = append(files, types.NewUserFile(path))
	}
	if len(files) == 0 {
		return
	}

	result := in.saver.SaveFiles(files, in.target, in.action, in.variant)

	in.mutex.Lock()
	in.saved += len(result.SuccessfullySavedFiles)
	in.failed += len(result.Errors)
	if len(result.GlobalErrors) > 0 {
		in.failed += len(files)
	}
	in.mutex.Unlock()

	in.logger.With(
		log.F("saved", len(result.SuccessfullySavedFiles)),
		log.F("failed", len(result.Errors)),
		log.F("global_errors", result.GlobalErrors),
	).Info("Inbox batch saved")

	if cb != nil {
		cb(result)
	}
}
