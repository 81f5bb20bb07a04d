package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/treelint/treelint/pkg/config"
	"github.com/treelint/treelint/pkg/errors"
	"github.com/treelint/treelint/pkg/logging"
	"github.com/treelint/treelint/pkg/scan"
)

var checkCmd = &cobra.Command{
	Use:   "check PATH...",
	Short: "Validate explicit paths without scanning the whole tree",
	Long: `Check validates each given repository-relative path segment by segment.
All issues across all paths are collected and reported at once, which makes
check suitable for pre-commit hooks. Completeness (missing required entries)
cannot be detected this way; use scan for that.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.GetLogger("cmd.check")

		flags, err := resolveFlags(cmd)
		if err != nil {
			pterm.Error.Println(err)
			return err
		}

		cfg, err := config.LoadFile(resolvedConfigPath())
		if err != nil {
			pterm.Error.Println(err)
			return err
		}

		logger.Info().Strs("paths", args).Msg("Checking paths")

		issues := scan.CheckPaths(repoRoot, cfg, flags, args)
		for _, issue := range issues {
			fmt.Println(formatIssue(issue))
		}

		if len(issues) > 0 {
			err := errors.Newf(errors.ErrInvalidInput, "%d of %d paths have issues", len(issues), len(args))
			pterm.Error.Println(err)
			return err
		}

		pterm.Success.Printfln("%d paths are valid", len(args))
		return nil
	},
}
