package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/treelint/treelint/pkg/config"
	"github.com/treelint/treelint/pkg/errors"
	"github.com/treelint/treelint/pkg/report"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the compiled configuration as a report",
	Long: `Report renders the compiled configuration (directory mappings, structure
rules, template expansions) as a Markdown document, a JSON summary or a
directory tree sketch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFile(resolvedConfigPath())
		if err != nil {
			pterm.Error.Println(err)
			return err
		}

		switch reportFormat {
		case "markdown":
			fmt.Print(renderMarkdown(report.Markdown(cfg)))
		case "json":
			fmt.Println(report.JSON(cfg))
		case "tree":
			fmt.Print(renderMarkdown(report.Tree(cfg)))
		default:
			err := errors.Newf(errors.ErrInvalidInput, "unknown report format %q", reportFormat)
			pterm.Error.Println(err)
			return err
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "markdown", "Report format (markdown, json, tree)")
}
