package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finsynth/internal/buildinfo"
	"github.com/cleared-dev/finsynth/internal/config"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath string
	verbose    bool
	logger     *slog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &options{logger: slog.Default()}

	rootCmd := &cobra.Command{
		Use:     "finsynth",
		Short:   "Financial statement synthesis from trial balances",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.FileName, "path to the project config file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newInitCommand(),
		newClassifyCommand(opts),
		newValidateCommand(opts),
		newSynthesizeCommand(opts),
		newBatchCommand(opts),
		newSchemaCommand(),
	)

	return rootCmd
}
