package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aristath/tasker/internal/config"
)

const configInitLong = `Writes the defaults, with any --store and --backend overrides, to the
--config path or .tasker/config.json. An existing file is only replaced with
--force, and its settings are kept unless overridden.`

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(opts))
	return cmd
}

func newConfigInitCmd(opts *options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file",
		Long:  configInitLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				_, projectPath, err := config.DefaultPaths()
				if err != nil {
					return err
				}
				path = projectPath
			}

			cfg := config.DefaultConfig()
			_, err := os.Stat(path)
			switch {
			case err == nil && !force:
				return fmt.Errorf("%s already exists (use --force to replace it)", path)
			case err == nil:
				if cfg, err = config.Load("", path); err != nil {
					return err
				}
			case !errors.Is(err, os.ErrNotExist):
				return fmt.Errorf("config file: %w", err)
			}

			applyOverrides(cfg, opts)
			if err := config.Save(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing config file")
	return cmd
}
