package scan

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/treelint/treelint/pkg/errors"
	"github.com/treelint/treelint/pkg/logging"
	"github.com/treelint/treelint/pkg/rules"
)

// Issue is one validation finding for an explicitly checked path.
type Issue struct {
	Code    errors.ErrorCode
	Path    string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s", i.Code, i.Message)
}

// segment is one step of an incremental path walk.
type segment struct {
	RelDir string // path before this segment, "" at the top
	Name   string
	IsDir  bool // false only for the terminal segment of a file path
}

// splitIncremental splits a slash-separated path into incremental segments,
// growing by one directory per step: "path/to/file" yields ("", "path",
// dir), ("path", "to", dir), ("path/to", "file", file).
func splitIncremental(p string) []segment {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	segments := make([]segment, 0, len(parts))
	for i, part := range parts {
		segments = append(segments, segment{
			RelDir: strings.Join(parts[:i], "/"),
			Name:   part,
			IsDir:  i < len(parts)-1,
		})
	}
	return segments
}

// CheckPaths validates each path independently and returns every issue
// found. Unlike the full scan it never aborts; a caller such as a pre-commit
// hook reports all problems at once.
func CheckPaths(root string, cfg *rules.Config, flags Flags, paths []string) []Issue {
	var issues []Issue
	for _, p := range paths {
		if issue := CheckPath(root, cfg, flags, p); issue != nil {
			issues = append(issues, *issue)
		}
	}
	return issues
}

// CheckPath validates a single repository-relative path segment by segment,
// without enumerating the rest of the tree. It reports unspecified,
// forbidden and missing-companion findings; it cannot observe completeness,
// so missing required entries go undetected here.
func CheckPath(root string, cfg *rules.Config, flags Flags, p string) *Issue {
	logger := logging.GetLogger("scan.diff")

	p = path.Clean(strings.Trim(p, "/"))
	if p == "." || p == "" {
		return nil
	}

	mapDir := enclosingMapDir(cfg, p)
	logger.Debug().Str("path", p).Str("mapDir", mapDir).Msg("Checking path")

	ruleNames := cfg.DirectoryMap[mapDir]
	if rules.IsIgnored(ruleNames) {
		return nil
	}
	backlog := rules.BuildBacklog(cfg, ruleNames)
	if len(backlog) == 0 {
		return nil
	}

	mapRelDir := rules.MapDirToRelDir(mapDir)
	rel := strings.TrimPrefix(strings.TrimPrefix(p, mapRelDir), "/")

	for _, seg := range splitIncremental(rel) {
		e := entry{
			Name:   seg.Name,
			RelDir: path.Join(mapRelDir, seg.RelDir),
			IsDir:  seg.IsDir,
		}
		if skipEntry(e, cfg, nil, flags) {
			return nil
		}

		matches, err := rules.FindMatches(backlog, seg.Name, seg.IsDir)
		if err != nil {
			return &Issue{
				Code:    errors.GetErrorCode(err),
				Path:    p,
				Message: fmt.Sprintf("%v (map dir %q)", err, mapDir),
			}
		}

		if seg.IsDir {
			// Matched directory entries rebuild the backlog for the next
			// level, all matches contributing (union semantics).
			var next []*rules.Entry
			for _, match := range matches {
				next = append(next, rules.ChildBacklog(cfg, match)...)
			}
			backlog = next
			continue
		}

		if root != "" {
			if issue := companionIssue(root, cfg, e, matches, p); issue != nil {
				return issue
			}
		}
	}
	return nil
}

// companionIssue runs the companion check for the terminal file segment.
func companionIssue(root string, cfg *rules.Config, e entry, matches []*rules.Entry, p string) *Issue {
	for _, match := range matches {
		companions, err := rules.CompanionNames(match, e.Name)
		if err != nil {
			return &Issue{Code: errors.GetErrorCode(err), Path: p, Message: err.Error()}
		}
		for _, companion := range companions {
			companionPath := filepath.Join(root, filepath.FromSlash(e.RelDir), companion)
			if _, err := os.Stat(companionPath); err != nil {
				return &Issue{
					Code:    errors.ErrCompanionMissing,
					Path:    p,
					Message: fmt.Sprintf("companion %q of %q does not exist", companion, p),
				}
			}
		}
	}
	return nil
}

// enclosingMapDir returns the DirectoryMap key with the longest matching
// prefix of the path, defaulting to the root mapping.
func enclosingMapDir(cfg *rules.Config, p string) string {
	mapDir := "/"
	for _, seg := range splitIncremental(p) {
		if !seg.IsDir {
			continue
		}
		candidate := rules.RelDirToMapDir(path.Join(seg.RelDir, seg.Name))
		if _, ok := cfg.DirectoryMap[candidate]; ok {
			mapDir = candidate
		}
	}
	return mapDir
}
