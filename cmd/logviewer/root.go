package main

import (
	"fmt"

	"logviewer/internal/config"
	"logviewer/internal/gui"
	"logviewer/internal/log"
	"logviewer/internal/viewer"

	"github.com/spf13/cobra"
)

// cli holds the state shared by every command: flags, the loaded
// configuration and the trace log.
type cli struct {
	cfgFile string
	debug   bool
	dir     string
	watch   bool

	cfg    *config.Config
	logger *log.Logger
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:     "logviewer [directory]",
		Short:   "Browse a directory and view, highlight and validate its files",
		Long:    `logviewer shows a directory tree next to the text of the selected file. It can syntax-highlight the text, jump to a line and validate XML files against an XSD schema.`,
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				c.cfg.Viewer.DefaultDirectory = args[0]
			}
			if gui.IsGUIAvailable() {
				return c.runGUI()
			}
			c.logger.Info("No display available, starting the terminal UI")
			return c.runTUI()
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.config/logviewer/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&c.debug, "debug", false, "write debug lines to the trace log")
	rootCmd.PersistentFlags().StringVar(&c.dir, "dir", "", "directory to open at startup")
	rootCmd.PersistentFlags().BoolVar(&c.watch, "watch", false, "log filesystem changes in the selected directory")

	rootCmd.AddCommand(c.tuiCmd())
	rootCmd.AddCommand(c.guiCmd())
	rootCmd.AddCommand(c.validateCmd())
	rootCmd.AddCommand(c.showCmd())
	rootCmd.AddCommand(c.configCmd())

	return rootCmd
}

// setup loads the configuration, applies the flags on top of it and opens
// the trace log.
func (c *cli) setup(cmd *cobra.Command) error {
	var err error
	if c.cfgFile != "" {
		c.cfg, err = config.LoadConfigFile(c.cfgFile)
	} else {
		c.cfg, err = config.LoadConfig()
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\nUsing default settings.\n", err)
		c.cfg = config.New()
	}

	if c.debug {
		c.cfg.Log.Debug = true
	}
	if c.watch {
		c.cfg.Watch.Enabled = true
	}
	if c.dir != "" {
		c.cfg.Viewer.DefaultDirectory = c.dir
	}

	opts := []log.Option{log.WithFile(c.cfg.Log.File), log.WithLevel("info")}
	if c.cfg.Log.Debug {
		opts = append(opts, log.WithLevel("debug"))
	}
	if c.cfg.Log.JSON {
		opts = append(opts, log.WithJSON())
	}
	c.logger = log.NewLogger(opts...)
	c.logger.With(log.F("version", version), log.F("command", cmd.Name())).Debug("Starting")
	return nil
}

func (c *cli) teardown() {
	if c.logger != nil {
		_ = c.logger.Close()
	}
}

// newController builds the controller and opens the startup directory.
// A startup directory that cannot be opened is reported in the status
// pane rather than aborting.
func (c *cli) newController() *viewer.Controller {
	ctrl := viewer.New(viewer.OptionsFromConfig(c.cfg, c.logger))
	if dir := c.cfg.Viewer.DefaultDirectory; dir != "" {
		_ = ctrl.Dispatch(viewer.ActionSelectDirectory, dir)
	}
	return ctrl
}
