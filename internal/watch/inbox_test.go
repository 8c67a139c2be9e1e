package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"filesaver/internal/config"
	"filesaver/internal/errors"
	"filesaver/internal/organize"
	"filesaver/pkg/testutils"
	"filesaver/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inboxConfig(t *testing.T, inbox, target string) *config.Config {
	t.Helper()
	cfg := config.NewTestConfig()
	cfg.Save.TargetDirectory = target
	cfg.Save.Action = "move"
	cfg.Watch.Directories = []string{inbox}
	cfg.Watch.LockFile = filepath.Join(t.TempDir(), "watch.lock")
	return cfg
}

func waitBatch(t *testing.T, batches <-chan *types.SaveResult) *types.SaveResult {
	t.Helper()
	select {
	case r := <-batches:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for inbox batch")
		return nil
	}
}

func TestInboxSavesSettledFiles(t *testing.T) {
	inboxDir := t.TempDir()
	target := t.TempDir()
	existing := testutils.CreateTestFile(t, inboxDir, "before.txt", "already here")

	in, err := NewInbox(inboxConfig(t, inboxDir, target), organize.New())
	require.NoError(t, err)
	in.SetSettle(100 * time.Millisecond)

	batches := make(chan *types.SaveResult, 8)
	in.OnBatch(func(r *types.SaveResult) { batches <- r })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- in.Run(ctx) }()

	first := waitBatch(t, batches)
	assert.Equal(t, []string{existing}, first.SuccessfullySavedFiles)
	assert.FileExists(t, filepath.Join(target, "before.txt"))

	testutils.CreateTestFile(t, inboxDir, ".hidden", "ignored")
	dropped := testutils.CreateTestFile(t, inboxDir, "dropped.jpg", "new")

	second := waitBatch(t, batches)
	assert.Equal(t, []string{dropped}, second.SuccessfullySavedFiles)
	assert.FileExists(t, filepath.Join(target, "dropped.jpg"))
	assert.FileExists(t, filepath.Join(inboxDir, ".hidden"))

	status := in.Status()
	assert.True(t, status.Running)
	assert.Equal(t, 2, status.FilesSaved)
	assert.Equal(t, 0, status.FilesFailed)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("inbox did not stop")
	}
	assert.False(t, in.Status().Running)
}

func TestInboxSingleInstance(t *testing.T) {
	inboxDir := t.TempDir()
	cfg := inboxConfig(t, inboxDir, t.TempDir())

	first, err := NewInbox(cfg, organize.New())
	require.NoError(t, err)
	second, err := NewInbox(cfg, organize.New())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- first.Run(ctx) }()

	require.Eventually(t, func() bool { return first.Status().Running }, 3*time.Second, 20*time.Millisecond)
	assert.ErrorIs(t, second.Run(context.Background()), ErrAlreadyRunning)

	cancel()
	require.NoError(t, <-done)
	_, err = os.Stat(cfg.Watch.LockFile)
	assert.NoError(t, err, "the lock file stays, only the lock is released")
}

func TestNewInboxValidation(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.Watch.Directories = []string{t.TempDir()}
	_, err := NewInbox(cfg, organize.New())
	require.Error(t, err)
	assert.True(t, errors.IsInvalidConfig(err))

	cfg.Save.TargetDirectory = t.TempDir()
	cfg.Watch.Directories = nil
	_, err = NewInbox(cfg, organize.New())
	require.Error(t, err)

	in, err := NewInbox(cfg, organize.New(), t.TempDir())
	require.NoError(t, err)
	assert.Len(t, in.Status().WatchDirectories, 1)
}
