package scan

import (
	"path/filepath"
	"strings"

	"github.com/woozymasta/pathrules"

	"github.com/treelint/treelint/pkg/logging"
	"github.com/treelint/treelint/pkg/rules"
)

// IgnorePredicate reports whether a repository-relative path is excluded by
// gitignore-style rules.
type IgnorePredicate func(relPath string, isDir bool) bool

// loadGitignore builds the ignore predicate from the repository root's
// .gitignore, or nil when there is none.
func loadGitignore(root string) IgnorePredicate {
	logger := logging.GetLogger("scan.gitignore")

	ignoreRules, err := pathrules.LoadRulesFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	matcher, err := pathrules.NewMatcher(ignoreRules, pathrules.MatcherOptions{})
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to compile .gitignore, ignoring it")
		return nil
	}
	logger.Debug().Int("rules", len(ignoreRules)).Msg("Loaded .gitignore")
	return matcher.Excluded
}

// skipEntry decides whether an entry is excluded from matching. Skipped
// entries produce neither matches nor unspecified-entry errors.
func skipEntry(e entry, cfg *rules.Config, gitIgnore IgnorePredicate, flags Flags) bool {
	switch {
	case !flags.FollowSymlinks && e.IsSymlink:
		return true
	case !flags.IncludeHidden && strings.HasPrefix(e.Name, "."):
		return true
	case e.Name == ".gitignore" && !e.IsDir:
		return true
	case e.Name == ".git" && e.IsDir:
		return true
	case gitIgnore != nil && gitIgnore(e.relPath(), e.IsDir):
		return true
	case e.IsDir && ownedByMapping(e, cfg):
		return true
	case selfConfigFile(e, cfg):
		return true
	}
	return false
}

// ownedByMapping defers a nested mapped directory to that mapping's own
// top-level traversal, preventing double validation.
func ownedByMapping(e entry, cfg *rules.Config) bool {
	_, ok := cfg.DirectoryMap[rules.RelDirToMapDir(e.relPath())]
	return ok
}

// selfConfigFile skips stray copies of the self-registered configuration
// file below the root. The root copy is matched by the synthetic rule
// injected during self-registration.
func selfConfigFile(e entry, cfg *rules.Config) bool {
	return cfg.ConfigFileName != "" && e.Name == cfg.ConfigFileName && e.RelDir != ""
}
