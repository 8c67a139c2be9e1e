package main

import (
	"errors"

	"github.com/spf13/cobra"

	"filesaver/internal/config"
	"filesaver/internal/log"
)

// errBatchFailed makes the process exit with status 1 after a report that
// contains failures.
var errBatchFailed = errors.New("batch finished with errors")

// app carries what the subcommands share
type app struct {
	configPath string
	debug      bool
	logJSON    bool
	locale     string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "filesaver",
		Short: "Copy, move and sort batches of files",
		Long: `filesaver places batches of files into a target directory, optionally
sorted into folders named after each file's creation date, and sends files
to the trash.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default ~/.config/filesaver/config.yaml)")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&a.logJSON, "log-json", false, "Write logs as JSON lines")
	flags.StringVar(&a.locale, "locale", "", "Language of month names and messages (de, en)")

	rootCmd.AddCommand(saveCmd(a))
	rootCmd.AddCommand(trashCmd(a))
	rootCmd.AddCommand(watchCmd(a))
	rootCmd.AddCommand(configCmd(a))

	return rootCmd
}

// load reads the configuration and applies the global flags on top of it
func (a *app) load(cmd *cobra.Command) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadConfigFile(a.configPath)
	} else {
		a.cfg, err = config.LoadConfig()
	}
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("locale") {
		a.cfg.Locale = a.locale
	}
	if cmd.Flags().Changed("debug") {
		a.cfg.Logging.Debug = a.debug
	}
	if cmd.Flags().Changed("log-json") {
		a.cfg.Logging.JSON = a.logJSON
	}

	log.SetOutput(cmd.ErrOrStderr())
	log.SetDebug(a.cfg.Logging.Debug)
	log.SetJSON(a.cfg.Logging.JSON)
	log.LogWithFields(log.F("command", cmd.Name()), log.F("locale", a.cfg.Locale)).Debug("Configuration loaded")
	return nil
}
