package main

import (
	"github.com/spf13/cobra"

	"filesaver/internal/trash"
	"filesaver/pkg/types"
)

func trashCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "trash FILE...",
		Short: "Send files to the trash",
		Long: `Send files to the trash. Uses the desktop trash unless trash.directory
is configured.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := make([]types.UserFile, len(args))
			for i, p := range args {
				files[i] = types.NewUserFile(p)
			}

			result := trash.NewRemover(trash.FromConfig(a.cfg)).Remove(files)
			if err := renderRemoveResult(cmd.OutOrStdout(), result, args, a.palette(), asJSON); err != nil {
				return err
			}
			if !result.Success {
				return errBatchFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}
