package main

import (
	"logviewer/internal/gui"
	"logviewer/internal/tui"

	"github.com/spf13/cobra"
)

func (c *cli) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [directory]",
		Short: "Start the terminal user interface",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				c.cfg.Viewer.DefaultDirectory = args[0]
			}
			return c.runTUI()
		},
	}
}

func (c *cli) guiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui [directory]",
		Short: "Launch the graphical user interface",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				c.cfg.Viewer.DefaultDirectory = args[0]
			}
			return c.runGUI()
		},
	}
}

func (c *cli) runTUI() error {
	ctrl := c.newController()
	defer ctrl.Close()
	return tui.Run(tui.New(ctrl, c.cfg))
}

func (c *cli) runGUI() error {
	ctrl := c.newController()
	defer ctrl.Close()

	ui, err := gui.NewFactory(c.cfg, ctrl, c.logger).Create()
	if err != nil {
		return err
	}
	return ui.Run()
}
