package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"filesaver/internal/organize"
	"filesaver/internal/patterns"
	"filesaver/pkg/types"
)

func saveCmd(a *app) *cobra.Command {
	var (
		target  string
		action  string
		sortFmt string
		workers int
		dryRun  bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "save FILE...",
		Short: "Copy or move files into a target directory",
		Long: `Copy or move files into a target directory.

Directories given as arguments contribute their top-level files, filtered by
the watch include/exclude patterns. With --sort, files are placed below
folders named by their creation date; the format understands %Y, %y, %m and
%B (localized month name), e.g. "%Y/%m %B".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("to") {
				cfg.Save.TargetDirectory = target
			}
			if cmd.Flags().Changed("action") {
				cfg.Save.Action = action
			}
			if cmd.Flags().Changed("sort") {
				cfg.Save.SortFormat = sortFmt
			}
			if cmd.Flags().Changed("workers") {
				cfg.Save.Workers = workers
			}
			if cmd.Flags().Changed("dry-run") {
				cfg.Save.DryRun = dryRun
			}
			if cfg.Save.TargetDirectory == "" {
				return fmt.Errorf("no target directory: pass --to or set save.target_directory")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			filter, err := patterns.NewFilter(cfg.Watch.Include, cfg.Watch.Exclude)
			if err != nil {
				return err
			}
			paths, err := expandArgs(args, filter)
			if err != nil {
				return err
			}
			files := make([]types.UserFile, len(paths))
			for i, p := range paths {
				files[i] = types.NewUserFile(p)
			}

			opts := organize.ConfigOptions(cfg)
			bar := newProgress(cmd.ErrOrStderr(), len(files), "Saving", !asJSON)
			if bar != nil {
				opts = append(opts, organize.WithProgress(func(string, error) { _ = bar.Add(1) }))
			}
			saver := organize.CurrentSaverFactory(opts...)

			result := saver.SaveFiles(files, cfg.Save.TargetDirectory, cfg.SaveAction(), cfg.SortVariant())
			if bar != nil {
				_ = bar.Finish()
			}

			if err := renderSaveResult(cmd.OutOrStdout(), result, paths, a.palette(), asJSON); err != nil {
				return err
			}
			if result.Failed() {
				return errBatchFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "to", "t", "", "Target directory")
	cmd.Flags().StringVarP(&action, "action", "a", "copy", "copy or move")
	cmd.Flags().StringVarP(&sortFmt, "sort", "s", "", "Sort into creation date folders using this format")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "Files placed concurrently")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be done without touching any file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}
