package organize_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"filesaver/internal/config"
	"filesaver/internal/errors"
	"filesaver/internal/locale"
	"filesaver/internal/log"
	"filesaver/internal/organize"
	"filesaver/pkg/testutils"
	"filesaver/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedDates returns a preset date per path
type fixedDates map[string]time.Time

func (f fixedDates) CreationDate(path string) (time.Time, error) {
	if d, ok := f[path]; ok {
		return d, nil
	}
	return time.Time{}, fmt.Errorf("no date for %s", path)
}

func userFiles(paths ...string) []types.UserFile {
	files := make([]types.UserFile, len(paths))
	for i, p := range paths {
		files[i] = types.NewUserFile(p)
	}
	return files
}

func TestSaveFilesCopy(t *testing.T) {
	srcDir := t.TempDir()
	target := t.TempDir()
	a := testutils.CreateTestFile(t, srcDir, "a.txt", "alpha")
	b := testutils.CreateTestFile(t, srcDir, "b.txt", "beta")

	engine := organize.New()
	result := engine.SaveFiles(userFiles(a, b), target, types.Copy, nil)

	assert.Equal(t, []string{a, b}, result.SuccessfullySavedFiles)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.GlobalErrors)
	assert.Empty(t, result.RenamedFiles, "copy never rewrites paths")

	assert.FileExists(t, a, "copy keeps the source")
	content, err := os.ReadFile(filepath.Join(target, "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "beta", string(content))
}

func TestSaveFilesCopyPreservesPermissions(t *testing.T) {
	srcDir := t.TempDir()
	target := t.TempDir()
	script := testutils.CreateTestFile(t, srcDir, "run.sh", "#!/bin/sh\n")
	require.NoError(t, os.Chmod(script, 0750))

	result := organize.New().SaveFiles(userFiles(script), target, types.Copy, nil)
	require.Len(t, result.SuccessfullySavedFiles, 1)

	info, err := os.Stat(filepath.Join(target, "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0750), info.Mode().Perm())
}

func TestSaveFilesMove(t *testing.T) {
	srcDir := t.TempDir()
	target := t.TempDir()
	a := testutils.CreateTestFile(t, srcDir, "a.txt", "alpha")

	result := organize.New().SaveFiles(userFiles(a), target, types.Move, nil)

	dest := filepath.Join(target, "a.txt")
	assert.Equal(t, []string{a}, result.SuccessfullySavedFiles)
	assert.Equal(t, map[string]string{a: dest}, result.RenamedFiles)
	assert.NoFileExists(t, a, "move removes the source")
	assert.FileExists(t, dest)
}

func TestSaveFilesConflictIsIsolated(t *testing.T) {
	srcDir := t.TempDir()
	target := t.TempDir()
	a := testutils.CreateTestFile(t, srcDir, "file1.txt", "new")
	b := testutils.CreateTestFile(t, srcDir, "file2.txt", "two")
	existing := testutils.CreateTestFile(t, target, "file1.txt", "old")

	for _, action := range []types.SaveAction{types.Copy, types.Move} {
		t.Run(action.String(), func(t *testing.T) {
			result := organize.New().SaveFiles(userFiles(a, b), target, action, nil)

			assert.Equal(t, map[string]string{a: locale.German.Messages.DestinationExists}, result.Errors)
			assert.Equal(t, []string{b}, result.SuccessfullySavedFiles)
			assert.Empty(t, result.GlobalErrors)

			content, err := os.ReadFile(existing)
			require.NoError(t, err)
			assert.Equal(t, "old", string(content), "existing files are never overwritten")
			assert.FileExists(t, a)

			// reset for the next action
			require.NoError(t, os.Remove(filepath.Join(target, "file2.txt")))
			if action == types.Move {
				testutils.CreateTestFile(t, srcDir, "file2.txt", "two")
			}
		})
	}
}

func TestSaveFilesNamelessSource(t *testing.T) {
	srcDir := t.TempDir()
	target := t.TempDir()
	a := testutils.CreateTestFile(t, srcDir, "a.txt", "alpha")

	result := organize.New(organize.WithLocale(locale.English)).
		SaveFiles(userFiles("/", a), target, types.Copy, nil)

	assert.Equal(t, map[string]string{"/": "file has no name"}, result.Errors)
	assert.Equal(t, []string{a}, result.SuccessfullySavedFiles)
}

func TestSaveFilesMissingSourceReportsOSError(t *testing.T) {
	target := t.TempDir()
	missing := filepath.Join(t.TempDir(), "gone.txt")

	result := organize.New().SaveFiles(userFiles(missing), target, types.Copy, nil)

	require.Contains(t, result.Errors, missing)
	assert.Contains(t, result.Errors[missing], "no such file or directory")
	assert.Empty(t, result.SuccessfullySavedFiles)
	assert.NoFileExists(t, filepath.Join(target, "gone.txt"))
}

func TestSaveFilesSortedByCreationDate(t *testing.T) {
	srcDir := t.TempDir()
	target := t.TempDir()
	img := testutils.WriteExifJPEG(t, srcDir, "image-created-2023-05.jpg", "2023:05:22 09:30:00", "")

	result := organize.New().SaveFiles(userFiles(img), target, types.Copy, types.NewCreationDateSort("%Y_%m"))

	assert.Equal(t, []string{img}, result.SuccessfullySavedFiles)
	assert.FileExists(t, filepath.Join(target, "2023_05", "image-created-2023-05.jpg"))
}

func TestSaveFilesMoveSortedRecordsBucketPath(t *testing.T) {
	srcDir := t.TempDir()
	target := t.TempDir()
	a := testutils.CreateTestFile(t, srcDir, "a.jpg", "a")
	dates := fixedDates{a: time.Date(2024, time.March, 30, 12, 0, 0, 0, time.Local)}

	engine := organize.New(organize.WithDateSource(dates))
	result := engine.SaveFiles(userFiles(a), target, types.Move, types.NewCreationDateSort("%Y/%B"))

	assert.Equal(t, map[string]string{a: filepath.Join(target, "2024", "März", "a.jpg")}, result.RenamedFiles)
}

func TestSaveFilesUnwritableTargetIsGlobal(t *testing.T) {
	srcDir := t.TempDir()
	a := testutils.CreateTestFile(t, srcDir, "a.jpg", "a")
	b := testutils.CreateTestFile(t, srcDir, "b.jpg", "b")
	// a regular file where the target directory should be
	target := testutils.CreateTestFile(t, t.TempDir(), "target", "")
	dates := fixedDates{
		a: time.Date(2023, time.May, 1, 0, 0, 0, 0, time.Local),
		b: time.Date(2023, time.June, 1, 0, 0, 0, 0, time.Local),
	}

	result := organize.New(organize.WithDateSource(dates)).
		SaveFiles(userFiles(a, b), target, types.Move, types.NewCreationDateSort("%Y_%m"))

	assert.Equal(t, []string{locale.German.Messages.SortDirsFailed}, result.GlobalErrors)
	assert.Empty(t, result.SuccessfullySavedFiles)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.RenamedFiles)
	assert.FileExists(t, a, "no file is touched after a global error")
	assert.FileExists(t, b)
}

func TestSaveFilesGlobalMessages(t *testing.T) {
	srcDir := t.TempDir()
	a := testutils.CreateTestFile(t, srcDir, "a.jpg", "a")
	engine := organize.New(organize.WithDateSource(fixedDates{}), organize.WithLocale(locale.English))

	result := engine.SaveFiles(userFiles(a), t.TempDir(), types.Copy, types.NewCreationDateSort("%Y"))
	assert.Equal(t, []string{locale.English.Messages.DateUnavailable}, result.GlobalErrors)

	result = engine.SaveFiles(userFiles(a), t.TempDir(), types.Copy, types.NewCreationDateSort("../%Y"))
	assert.Equal(t, []string{locale.English.Messages.InvalidSortVariant}, result.GlobalErrors)
}

func TestSaveFilesParallelMatchesSequential(t *testing.T) {
	const n = 40
	makeBatch := func(t *testing.T) ([]types.UserFile, string) {
		srcDir := t.TempDir()
		target := t.TempDir()
		var paths []string
		for i := 0; i < n; i++ {
			paths = append(paths, testutils.CreateTestFile(t, srcDir, fmt.Sprintf("f%02d.txt", i), "x"))
		}
		// every fifth file conflicts
		for i := 0; i < n; i += 5 {
			testutils.CreateTestFile(t, target, fmt.Sprintf("f%02d.txt", i), "old")
		}
		return userFiles(paths...), target
	}

	seqFiles, seqTarget := makeBatch(t)
	seq := organize.New().SaveFiles(seqFiles, seqTarget, types.Move, nil)

	parFiles, parTarget := makeBatch(t)
	var mu sync.Mutex
	var seen int
	par := organize.New(
		organize.WithWorkers(8),
		organize.WithProgress(func(string, error) {
			mu.Lock()
			seen++
			mu.Unlock()
		}),
	).SaveFiles(parFiles, parTarget, types.Move, nil)

	assert.Equal(t, n, seen)
	require.Len(t, par.SuccessfullySavedFiles, len(seq.SuccessfullySavedFiles))
	assert.Len(t, par.Errors, len(seq.Errors))
	for i := range seq.SuccessfullySavedFiles {
		assert.Equal(t, filepath.Base(seq.SuccessfullySavedFiles[i]), filepath.Base(par.SuccessfullySavedFiles[i]),
			"saved files are reported in input order")
	}
}

func TestSaveFilesParallelSameNameKeepsFirst(t *testing.T) {
	const pairs = 200
	for round := 0; round < 5; round++ {
		root := t.TempDir()
		target := t.TempDir()
		var paths []string
		for i := 0; i < pairs; i++ {
			name := fmt.Sprintf("f%03d.txt", i)
			paths = append(paths,
				testutils.CreateTestFile(t, filepath.Join(root, "a"), name, "a"),
				testutils.CreateTestFile(t, filepath.Join(root, "b"), name, "b"),
			)
		}

		result := organize.New(organize.WithWorkers(16)).SaveFiles(userFiles(paths...), target, types.Copy, nil)

		require.Len(t, result.SuccessfullySavedFiles, pairs)
		require.Len(t, result.Errors, pairs)
		for i := 0; i < pairs; i++ {
			first, second := paths[2*i], paths[2*i+1]
			assert.Equal(t, first, result.SuccessfullySavedFiles[i])
			assert.Equal(t, locale.German.Messages.DestinationExists, result.Errors[second])

			content, err := os.ReadFile(filepath.Join(target, filepath.Base(first)))
			require.NoError(t, err)
			assert.Equal(t, "a", string(content))
		}
	}
}

func TestSaveFilesParallelSameNameAfterFailure(t *testing.T) {
	root := t.TempDir()
	target := t.TempDir()
	missing := filepath.Join(root, "a", "x.txt")
	present := testutils.CreateTestFile(t, filepath.Join(root, "b"), "x.txt", "b")
	other := testutils.CreateTestFile(t, root, "y.txt", "y")

	files := userFiles(missing, present, other)
	seq := organize.New().SaveFiles(files, t.TempDir(), types.Copy, nil)
	par := organize.New(organize.WithWorkers(4)).SaveFiles(files, target, types.Copy, nil)

	assert.Equal(t, []string{present, other}, seq.SuccessfullySavedFiles)
	assert.Equal(t, seq.SuccessfullySavedFiles, par.SuccessfullySavedFiles)
	assert.Contains(t, par.Errors, missing)
	assert.FileExists(t, filepath.Join(target, "x.txt"))
}

func TestSaveFilesAbortIsLoggedToEngineLogger(t *testing.T) {
	srcDir := t.TempDir()
	a := testutils.CreateTestFile(t, srcDir, "a.jpg", "a")
	var buf bytes.Buffer
	engine := organize.New(
		organize.WithDateSource(fixedDates{}),
		organize.WithLogger(log.NewLogger(log.WithOutput(&buf))),
	)

	result := engine.SaveFiles(userFiles(a), t.TempDir(), types.Copy, types.NewCreationDateSort("%Y"))

	require.Len(t, result.GlobalErrors, 1)
	assert.Contains(t, buf.String(), "Sorting failed, aborting batch")
	assert.Contains(t, buf.String(), "error_kind=\"metadata unavailable\"")
}

func TestSaveFilesDryRun(t *testing.T) {
	srcDir := t.TempDir()
	target := t.TempDir()
	a := testutils.CreateTestFile(t, srcDir, "a.jpg", "a")
	testutils.CreateTestFile(t, target, "taken.jpg", "old")
	b := testutils.CreateTestFile(t, srcDir, "taken.jpg", "new")

	engine := organize.New(organize.WithDryRun(true))
	assert.True(t, engine.IsDryRun())

	result := engine.SaveFiles(userFiles(a, b), target, types.Move, nil)
	assert.True(t, result.DryRun)
	assert.Equal(t, []string{a}, result.SuccessfullySavedFiles)
	assert.Contains(t, result.Errors, b, "conflicts are still reported")
	assert.FileExists(t, a)
	assert.NoFileExists(t, filepath.Join(target, "a.jpg"))

	engine.SetDryRun(false)
	assert.False(t, engine.IsDryRun())
}

func TestSaveFilesEmptyBatch(t *testing.T) {
	result := organize.New().SaveFiles(nil, t.TempDir(), types.Copy, types.NewCreationDateSort("%Y"))
	assert.False(t, result.Failed())
	assert.Empty(t, result.SuccessfullySavedFiles)
}

func TestPlaceFile(t *testing.T) {
	srcDir := t.TempDir()
	target := t.TempDir()
	engine := organize.New()

	t.Run("move single file", func(t *testing.T) {
		src := testutils.CreateTestFile(t, srcDir, "single_move.txt", "single move")
		dest := filepath.Join(target, "renamed.txt")

		require.NoError(t, engine.PlaceFile(src, dest, types.Move))
		assert.NoFileExists(t, src)
		assert.FileExists(t, dest)
	})

	t.Run("prevent duplicate placement", func(t *testing.T) {
		src := testutils.CreateTestFile(t, srcDir, "dup.txt", "first")
		dest := filepath.Join(target, "dup.txt")
		require.NoError(t, engine.PlaceFile(src, dest, types.Copy))

		err := engine.PlaceFile(src, dest, types.Move)
		require.Error(t, err)
		assert.True(t, errors.IsDestinationExists(err))
		assert.True(t, errors.Is(err, errors.ErrDestinationExists))
		assert.FileExists(t, src, "source stays after a refused move")
	})

	t.Run("missing destination directory", func(t *testing.T) {
		src := testutils.CreateTestFile(t, srcDir, "orphan.txt", "x")
		err := engine.PlaceFile(src, filepath.Join(target, "no", "such", "dir", "orphan.txt"), types.Copy)
		require.Error(t, err)
		assert.Equal(t, errors.FileNotFound, errors.KindOf(err))
	})
}

func TestNewWithConfig(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.Save.DryRun = true
	cfg.Save.Workers = 3

	engine := organize.NewWithConfig(cfg)
	assert.True(t, engine.IsDryRun())

	srcDir := t.TempDir()
	result := engine.SaveFiles(userFiles("/"), srcDir, types.Copy, nil)
	assert.Equal(t, map[string]string{"/": locale.English.Messages.NoFileName}, result.Errors,
		"the configured locale picks the messages")
}

func TestSaverFactory(t *testing.T) {
	defer organize.ResetSaverFactory()

	var created int
	organize.SetSaverFactory(func(opts ...organize.Option) organize.Saver {
		created++
		return organize.New(append(opts, organize.WithDryRun(true))...)
	})

	saver := organize.CurrentSaverFactory()
	assert.Equal(t, 1, created)
	result := saver.SaveFiles(nil, t.TempDir(), types.Copy, nil)
	assert.True(t, result.DryRun)

	organize.ResetSaverFactory()
	_, ok := organize.CurrentSaverFactory().(*organize.Engine)
	assert.True(t, ok)
}
