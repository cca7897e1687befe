package main

import (
	"fmt"
	"os"

	"logviewer/internal/config"
	"logviewer/internal/log"

	"github.com/spf13/cobra"
)

func (c *cli) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(c.configInitCmd(), c.configThemesCmd())
	return cmd
}

func (c *cli) configInitCmd() *cobra.Command {
	var (
		themeName string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Long:  `Write the default configuration to --config, or to $HOME/.config/logviewer/config.yaml. A path ending in .toml is still written as YAML.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.cfgFile
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}

			cfg := config.New()
			if themeName != "" {
				if !knownTheme(themeName) {
					return fmt.Errorf("unknown theme %q", themeName)
				}
				cfg.ApplyTheme(themeName)
			}
			if err := config.SaveConfig(cfg, path); err != nil {
				return err
			}
			c.logger.With(log.F("path", path), log.F("theme", cfg.Theme.Name)).Info("Configuration written")
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&themeName, "theme", "", "theme to store (see 'config themes')")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (c *cli) configThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the built-in themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListThemes() {
				marker := " "
				if name == c.cfg.Theme.Name {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
			}
			return nil
		},
	}
}

func knownTheme(name string) bool {
	for _, t := range config.ListThemes() {
		if t == name {
			return true
		}
	}
	return false
}
