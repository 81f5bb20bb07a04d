package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/treelint/treelint/internal/version"
	"github.com/treelint/treelint/pkg/config"
	"github.com/treelint/treelint/pkg/logging"
	"github.com/treelint/treelint/pkg/scan"
)

var (
	verbosity      int
	repoRoot       string
	configPath     string
	followSymlinks bool
	includeHidden  bool
	jobs           int

	rootCmd = &cobra.Command{
		Use:   "treelint",
		Short: "Ensure clean repository structure for your projects",
		Long: `treelint validates that a directory tree's structure conforms to a
declarative policy: named structure rules assign required, optional and
forbidden patterns to directories, with rule recursion for arbitrarily deep
trees, conditional sub-rules and companion-file requirements.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVarP(&repoRoot, "repo-root", "r", ".", "Path to the repository root")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file (default <repo-root>/.treelint.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&followSymlinks, "follow-symlinks", "L", false, "Follow symlinks when scanning the repository")
	rootCmd.PersistentFlags().BoolVarP(&includeHidden, "include-hidden", "H", true, "Include hidden files and directories when scanning")
	rootCmd.PersistentFlags().IntVarP(&jobs, "jobs", "j", 1, "Worker pool size for the full scan (0 = CPU count)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(reportCmd)
}

// resolveFlags layers the repository settings file under explicit CLI flags.
func resolveFlags(cmd *cobra.Command) (scan.Flags, error) {
	settings, err := config.LoadSettings(repoRoot)
	if err != nil {
		return scan.Flags{}, err
	}

	flags := scan.Flags{
		FollowSymlinks: settings.FollowSymlinks,
		IncludeHidden:  settings.IncludeHidden,
		Jobs:           settings.Jobs,
	}
	if cmd.Flags().Changed("follow-symlinks") {
		flags.FollowSymlinks = followSymlinks
	}
	if cmd.Flags().Changed("include-hidden") {
		flags.IncludeHidden = includeHidden
	}
	if cmd.Flags().Changed("jobs") {
		flags.Jobs = jobs
	}
	return flags, nil
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return repoRoot + "/.treelint.yaml"
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("treelint version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `To load completions:

Bash:
  $ source <(treelint completion bash)

Zsh:
  $ treelint completion zsh > "${fpath[1]}/_treelint"

Fish:
  $ treelint completion fish | source

PowerShell:
  PS> treelint completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			if err := cmd.Root().GenBashCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate bash completion")
			}
		case "zsh":
			if err := cmd.Root().GenZshCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate zsh completion")
			}
		case "fish":
			if err := cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true); err != nil {
				log.Error().Err(err).Msg("Failed to generate fish completion")
			}
		case "powershell":
			if err := cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate powershell completion")
			}
		}
	},
}
