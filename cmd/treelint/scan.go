package main

import (
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/treelint/treelint/pkg/config"
	"github.com/treelint/treelint/pkg/logging"
	"github.com/treelint/treelint/pkg/scan"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Validate the full repository structure",
	Long: `Scan walks every mapped directory of the repository and validates each
entry against the active structure rules. The scan fails on the first
unspecified entry, forbidden entry, missing required entry or missing
companion file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.GetLogger("cmd.scan")
		start := time.Now()

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

		logger.Info().
			Str("repoRoot", repoRoot).
			Int("jobs", flags.Jobs).
			Msg("Starting full scan")

		if err := scan.FullScan(cmd.Context(), repoRoot, cfg, flags); err != nil {
			pterm.Error.Println(err)
			return err
		}

		logging.LogDuration(start, "full scan")
		pterm.Success.Println("repository structure is valid")
		return nil
	},
}
