// FILE: cmd/configer/main.go
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev" // Overridden by ldflags

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliState holds what the persistent flags configure.
type cliState struct {
	verbose  bool
	lockPath string
	logger   *slog.Logger
}

func newRootCommand() *cobra.Command {
	state := &cliState{}

	rootCmd := &cobra.Command{
		Use:   "configer",
		Short: "Generate typed Go configuration from TOML or YAML settings",
		Long: `configer infers a typed schema from a default setting file and emits Go
structs for it. Generated code validates override files against that schema and
refuses to load once the default setting file changes without regeneration.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if state.verbose {
				level = slog.LevelDebug
			}
			state.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&state.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&state.lockPath, "lock", ".config.lock", "Path to the lock file")

	rootCmd.AddCommand(newCreateCommand(state))
	rootCmd.AddCommand(newUpdateCommand(state))
	rootCmd.AddCommand(newWatchCommand(state))
	rootCmd.AddCommand(newPrintCommand(state))
	rootCmd.AddCommand(newSaveCommand(state))

	return rootCmd
}
