package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"logviewer/internal/errors"
	"logviewer/internal/highlight"
	"logviewer/internal/model"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/cobra"
)

func (c *cli) showCmd() *cobra.Command {
	var (
		line    string
		number  bool
		color   bool
		styleID string
	)

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print a file the way the text pane shows it",
		Long:  `Print a file through the same size and encoding checks as the viewer. With --line only that line is printed, clamped to the file.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := model.New(c.cfg.Viewer.MaxReadableSize)
			if err := m.SetFileName(args[0]); err != nil {
				cmd.SilenceUsage = true
				return errors.Wrap(err, "cannot show file")
			}
			doc := highlight.NewDocument(m.FileName(), m.FileContents())
			out := cmd.OutOrStdout()

			if line != "" {
				index, ok, err := highlight.ParseLine(line)
				if err != nil {
					return err
				}
				if ok {
					marked := doc.MarkBlock(index)
					fmt.Fprintf(out, "%d: %s\n", marked+1, doc.Blocks()[marked].Text)
					return nil
				}
			}

			if color {
				if styleID == "" {
					styleID = c.cfg.Highlight.Style
				}
				return printColored(out, m.FileName(), doc.Text(), styleID)
			}
			blocks := doc.Blocks()
			// A final newline ends the last line rather than starting a new one
			if n := len(blocks); n > 1 && blocks[n-1].Text == "" {
				blocks = blocks[:n-1]
			}
			for i, b := range blocks {
				if number {
					fmt.Fprintf(out, "%6d  %s\n", i+1, b.Text)
				} else {
					fmt.Fprintln(out, b.Text)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&line, "line", "l", "", "print only this line (1-based)")
	cmd.Flags().BoolVarP(&number, "number", "n", false, "prefix lines with their number")
	cmd.Flags().BoolVar(&color, "color", false, "colorize with the chroma lexer for the file name")
	cmd.Flags().StringVar(&styleID, "style", "", "chroma style for --color (default from config)")
	return cmd
}

// printColored writes text through chroma's 256-colour terminal formatter,
// picking the lexer from the file name.
func printColored(w io.Writer, path, text, style string) error {
	if err := quick.Highlight(w, text, filepath.Base(path), "terminal256", style); err != nil {
		return err
	}
	if strings.HasSuffix(text, "\n") {
		return nil
	}
	_, err := fmt.Fprintln(w)
	return err
}
