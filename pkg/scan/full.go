package scan

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/treelint/treelint/pkg/errors"
	"github.com/treelint/treelint/pkg/logging"
	"github.com/treelint/treelint/pkg/rules"
)

// FullScan validates the whole repository tree against the configuration.
//
// Every mapped directory is traversed recursively; mapped directories are
// independent and run on a worker pool bounded by flags.Jobs. The first
// violation aborts the scan.
func FullScan(ctx context.Context, root string, cfg *rules.Config, flags Flags) error {
	logger := logging.GetLogger("scan.full")

	if _, ok := cfg.DirectoryMap["/"]; !ok {
		return errors.New(errors.ErrMissingMapping, "config does not have a root mapping")
	}

	jobs := flags.Jobs
	if jobs == 0 {
		jobs = runtime.NumCPU()
	}
	logger.Debug().
		Str("root", root).
		Int("jobs", jobs).
		Int("mappings", len(cfg.DirectoryMap)).
		Msg("Starting full scan")

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for mapDir := range cfg.DirectoryMap {
		g.Go(func() error {
			return scanMapDir(ctx, root, mapDir, cfg, flags)
		})
	}
	return g.Wait()
}

// scanMapDir traverses one mapped directory with its own backlog instance.
func scanMapDir(ctx context.Context, root, mapDir string, cfg *rules.Config, flags Flags) error {
	logger := logging.GetLogger("scan.full")

	ruleNames := cfg.DirectoryMap[mapDir]
	if rules.IsIgnored(ruleNames) {
		logger.Debug().Str("mapDir", mapDir).Msg("Subtree ignored by mapping")
		return nil
	}

	relDir := rules.MapDirToRelDir(mapDir)
	backlog := rules.BuildBacklog(cfg, ruleNames)
	gitIgnore := loadGitignore(root)

	if err := walk(ctx, root, relDir, cfg, backlog, gitIgnore, flags); err != nil {
		return err
	}
	return missingRequiredError(backlog)
}

func walk(
	ctx context.Context,
	root, relDir string,
	cfg *rules.Config,
	backlog []*rules.Entry,
	gitIgnore IgnorePredicate,
	flags Flags,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	children, err := listDir(root, relDir, flags)
	if err != nil {
		return err
	}

	for _, child := range children {
		if skipEntry(child, cfg, gitIgnore, flags) {
			continue
		}

		matches, err := rules.FindMatches(backlog, child.Name, child.IsDir)
		if err != nil {
			code := errors.GetErrorCode(err)
			return errors.Wrapf(err, code, "at %q", child.relPath())
		}

		for _, match := range matches {
			if child.IsDir {
				childBacklog := rules.ChildBacklog(cfg, match)
				if err := walk(ctx, root, child.relPath(), cfg, childBacklog, gitIgnore, flags); err != nil {
					return err
				}
				if err := missingRequiredError(childBacklog); err != nil {
					code := errors.GetErrorCode(err)
					return errors.Wrapf(err, code, "in %q", child.relPath())
				}
			} else if len(match.Companions) > 0 {
				if err := checkCompanions(root, child, match); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// checkCompanions probes the filesystem for every companion file derived
// from a matched file entry.
func checkCompanions(root string, child entry, match *rules.Entry) error {
	companions, err := rules.CompanionNames(match, child.Name)
	if err != nil {
		return err
	}
	for _, companion := range companions {
		companionPath := filepath.Join(root, filepath.FromSlash(child.RelDir), companion)
		if _, err := os.Stat(companionPath); err != nil {
			return errors.Newf(errors.ErrCompanionMissing,
				"companion %q of %q does not exist", companion, child.relPath())
		}
	}
	return nil
}

// missingRequiredError reports Required entries whose scope finished with a
// zero match count, split into files and directories.
func missingRequiredError(backlog []*rules.Entry) error {
	files, dirs := rules.MissingRequired(backlog)
	if len(files) == 0 && len(dirs) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("matching entries for required patterns missing:")
	if len(files) > 0 {
		b.WriteString("\nfiles:")
		for _, pattern := range files {
			b.WriteString("\n  - '" + pattern + "'")
		}
	}
	if len(dirs) > 0 {
		b.WriteString("\ndirectories:")
		for _, pattern := range dirs {
			b.WriteString("\n  - '" + pattern + "/'")
		}
	}
	return errors.New(errors.ErrMissingRequired, b.String())
}
