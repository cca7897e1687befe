package main

import (
	"fmt"

	"logviewer/internal/validate"

	"github.com/spf13/cobra"
)

func (c *cli) validateCmd() *cobra.Command {
	var report string

	cmd := &cobra.Command{
		Use:   "validate <xml> <xsd>",
		Short: "Validate an XML file against an XSD schema",
		Long:  `Validate an XML file against an XSD schema and print the result the way the status pane shows it.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := c.cfg.Validation.Report
			if report != "" {
				mode = report
			}
			v := validate.New(validate.WithMode(mode), validate.WithLogger(c.logger))

			result := v.Validate(args[0], args[1])
			for _, msg := range result.Messages {
				fmt.Fprintln(cmd.OutOrStdout(), msg)
			}
			if !result.OK {
				cmd.SilenceUsage = true
				return fmt.Errorf("%s is not valid", args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&report, "report", "", "issues to print: all or last (default from config)")
	return cmd
}
