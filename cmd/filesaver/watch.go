package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"filesaver/internal/organize"
	"filesaver/internal/watch"
	"filesaver/pkg/types"
)

func watchCmd(a *app) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "watch [DIR...]",
		Short: "Save files dropped into inbox directories",
		Long: `Watch inbox directories and save every file once it stopped changing,
using the save settings of the configuration. Directories given as arguments
are watched in addition to watch.directories.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("to") {
				cfg.Save.TargetDirectory = target
			}

			inbox, err := watch.NewInbox(cfg, organize.CurrentSaverFactory(organize.ConfigOptions(cfg)...), args...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			palette := a.palette()
			inbox.OnBatch(func(result *types.SaveResult) {
				_ = renderSaveResult(out, result, nil, palette, false)
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(out, "Watching %v, saving to %s (Ctrl+C to stop)\n", inbox.Status().WatchDirectories, cfg.Save.TargetDirectory)
			return inbox.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&target, "to", "t", "", "Target directory")
	return cmd
}
