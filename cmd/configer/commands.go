// FILE: cmd/configer/commands.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/lixenwraith/configer"
	"github.com/spf13/cobra"
)

const defaultSetting = "setting/default.toml"

func newCreateCommand(state *cliState) *cobra.Command {
	var setting, output, pkg string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Generate Go configuration types from a setting file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveSetting(cmd, setting)
			if err != nil {
				return err
			}

			lock, err := readLock(state.lockPath)
			if err != nil {
				return err
			}

			if err := generate(state, path, output, pkg); err != nil {
				return err
			}
			hash, err := configer.HashFile(path)
			if err != nil {
				return err
			}
			lock.Record(path, output, pkg, hash)
			if err := lock.Write(state.lockPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s from %s\n", output, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&setting, "setting", "s", defaultSetting, "Path to the default setting file [toml|yaml]")
	cmd.Flags().StringVarP(&output, "output", "o", "config_gen.go", "Path to the generated Go file")
	cmd.Flags().StringVarP(&pkg, "package", "p", "config", "Package name of the generated file")
	return cmd
}

func newUpdateCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Regenerate every recorded output whose setting file changed",
		RunE: func(cmd *cobra.Command, args []string) error {
			lock, err := readRecordedLock(state.lockPath)
			if err != nil {
				return err
			}

			dirty := false
			for _, entry := range lock.Entries() {
				updated, err := refresh(state, lock, entry, cmd.OutOrStdout())
				if err != nil {
					return err
				}
				dirty = dirty || updated
			}

			if dirty {
				return lock.Write(state.lockPath)
			}
			return nil
		},
	}
}

func newWatchCommand(state *cliState) *cobra.Command {
	opts := configer.DefaultWatchOptions()

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate recorded outputs whenever their setting files change",
		RunE: func(cmd *cobra.Command, args []string) error {
			lock, err := readRecordedLock(state.lockPath)
			if err != nil {
				return err
			}

			var settings []string
			for _, entry := range lock.Entries() {
				settings = append(settings, entry.Setting)
			}
			state.logger.Info("watching setting files", "count", len(settings))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := configer.NewWatcher(opts, settings...).WithLogger(state.logger)
			err = w.Run(ctx, func(path string) error {
				entry, ok := lock.Get(path)
				if !ok {
					return nil
				}
				updated, err := refresh(state, lock, entry, cmd.OutOrStdout())
				if err != nil || !updated {
					return err
				}
				return lock.Write(state.lockPath)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().DurationVar(&opts.PollInterval, "interval", opts.PollInterval, "Polling interval")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", opts.Debounce, "Quiet period before regenerating")
	return cmd
}

// refresh regenerates entry when its setting file no longer matches the recorded
// hash and records the new hash in lock. It reports whether anything was regenerated.
func refresh(state *cliState, lock *configer.LockFile, entry configer.LockEntry, out io.Writer) (bool, error) {
	r := lipgloss.NewRenderer(out)
	updated := r.NewStyle().Foreground(lipgloss.Color("226"))
	unchanged := r.NewStyle().Foreground(lipgloss.Color("46"))

	hash, err := configer.HashFile(entry.Setting)
	if err != nil {
		return false, err
	}
	if hash == entry.Hash {
		fmt.Fprintln(out, unchanged.Render("No changes in "+entry.Setting))
		return false, nil
	}

	pkg := entry.Package
	if pkg == "" {
		pkg = "config"
	}
	if err := generate(state, entry.Setting, entry.Output, pkg); err != nil {
		return false, err
	}
	lock.Record(entry.Setting, entry.Output, pkg, hash)
	fmt.Fprintln(out, updated.Render("Updated "+entry.Setting))
	return true, nil
}

func newPrintCommand(state *cliState) *cobra.Command {
	var setting string

	cmd := &cobra.Command{
		Use:   "print [override...]",
		Short: "Assemble a configuration and print what differs from the defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := assemble(cmd, state, setting, args)
			if err != nil {
				return err
			}
			return cfg.Pprint(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&setting, "setting", "s", defaultSetting, "Path to the default setting file [toml|yaml]")
	return cmd
}

func newSaveCommand(state *cliState) *cobra.Command {
	var setting, format, out string

	cmd := &cobra.Command{
		Use:   "save [override...]",
		Short: "Assemble a configuration and write it as a single setting file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := assemble(cmd, state, setting, args)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				f, err := configer.ParseFormat(format)
				if err != nil {
					return err
				}
				return cfg.Dump(cmd.OutOrStdout(), f)
			}
			if err := cfg.SaveAs(out, format); err != nil {
				return err
			}
			state.logger.Info("saved configuration", "path", out, "format", format)
			return nil
		},
	}

	cmd.Flags().StringVarP(&setting, "setting", "s", defaultSetting, "Path to the default setting file [toml|yaml]")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format [toml|yaml]")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output path, '-' for stdout")
	return cmd
}

// resolveSetting returns the flag value when it was given or exists, otherwise the
// discovered default setting file.
func resolveSetting(cmd *cobra.Command, setting string) (string, error) {
	if cmd.Flags().Changed("setting") {
		return setting, nil
	}
	if _, err := os.Stat(setting); err == nil {
		return setting, nil
	}
	return configer.DiscoverSetting(".", configer.DefaultDiscoveryOptions())
}

// readRecordedLock reads the lock file, which must exist.
func readRecordedLock(path string) (*configer.LockFile, error) {
	lock, err := configer.ReadLockFile(path)
	if err != nil {
		if errors.Is(err, configer.ErrConfigNotFound) {
			return nil, fmt.Errorf("no lock file at %s, run 'configer create' first", path)
		}
		return nil, err
	}
	return lock, nil
}

func readLock(path string) (*configer.LockFile, error) {
	lock, err := configer.ReadLockFile(path)
	if err != nil && !errors.Is(err, configer.ErrConfigNotFound) {
		return nil, err
	}
	return lock, nil
}

// generate infers the schema of setting and writes the Go source to output.
func generate(state *cliState, setting, output, pkg string) error {
	schema, err := configer.InferFile(setting)
	if err != nil {
		return err
	}
	state.logger.Debug("inferred schema", "setting", setting, "types", schema.Registry.Len()+1)

	return configer.WriteGo(schema, output, configer.EmitOptions{
		Package:     pkg,
		DefaultFile: filepath.ToSlash(setting),
	})
}

func assemble(cmd *cobra.Command, state *cliState, setting string, overrides []string) (*configer.Config, error) {
	path, err := resolveSetting(cmd, setting)
	if err != nil {
		return nil, err
	}
	schema, err := configer.InferFile(path)
	if err != nil {
		return nil, err
	}
	return configer.NewGenerator(schema).
		WithLogger(state.logger).
		UpdateBy(overrides...).
		Generate()
}
