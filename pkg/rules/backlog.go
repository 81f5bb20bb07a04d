package rules

import (
	"github.com/treelint/treelint/pkg/errors"
)

// BuildBacklog materializes a fresh backlog for one tree level from the given
// rule names, concatenating each named rule's entries in order. Every entry
// is an independent copy with a zeroed match count; compiled patterns and
// static fields are shared with the canonical configuration.
func BuildBacklog(cfg *Config, ruleNames []string) []*Entry {
	var backlog []*Entry
	for _, name := range ruleNames {
		if name == RuleIgnore {
			continue
		}
		for _, entry := range cfg.StructureRules[name] {
			backlog = append(backlog, cloneEntry(entry))
		}
	}
	return backlog
}

// ChildBacklog builds the backlog governing the inside of a matched directory
// entry: the entry's use_rule target (if any) followed by its if_exists
// entries, all as fresh copies.
func ChildBacklog(cfg *Config, entry *Entry) []*Entry {
	backlog := BuildBacklog(cfg, useRuleNames(entry))
	for _, nested := range entry.IfExists {
		backlog = append(backlog, cloneEntry(nested))
	}
	return backlog
}

func useRuleNames(entry *Entry) []string {
	if entry.UseRule == "" {
		return nil
	}
	return []string{entry.UseRule}
}

func cloneEntry(entry *Entry) *Entry {
	clone := *entry
	clone.MatchCount = 0
	return &clone
}

// IsIgnored reports whether a directory mapping excludes its subtree from
// validation entirely.
func IsIgnored(ruleNames []string) bool {
	return len(ruleNames) == 1 && ruleNames[0] == RuleIgnore
}

// FindMatches returns every backlog entry matching the path segment.
//
// A match requires full-string pattern equality and matching entry type. All
// matches are collected; overlapping rules each count and, for directories,
// each recurse independently. A Forbidden match fails immediately, before any
// count is incremented. No match at all is an UNSPECIFIED_ENTRY error; the
// caller decides whether that is fatal or a recorded issue.
func FindMatches(backlog []*Entry, segment string, isDir bool) ([]*Entry, error) {
	var matches []*Entry
	for _, entry := range backlog {
		if entry.IsDir == isDir && entry.Pattern.MatchString(segment) {
			matches = append(matches, entry)
		}
	}

	if len(matches) == 0 {
		if isDir {
			segment += "/"
		}
		return nil, errors.Newf(errors.ErrUnspecifiedEntry,
			"found unspecified entry %q", segment)
	}

	for _, entry := range matches {
		if entry.Requirement == Forbidden {
			if isDir {
				segment += "/"
			}
			return nil, errors.Newf(errors.ErrForbiddenEntry,
				"found forbidden entry %q (pattern %q)", segment, entry.PatternText)
		}
	}

	for _, entry := range matches {
		entry.MatchCount++
	}
	return matches, nil
}

// MissingRequired returns the patterns of Required entries that never
// matched, split into files and directories.
func MissingRequired(backlog []*Entry) (files, dirs []string) {
	for _, entry := range backlog {
		if entry.Requirement == Required && entry.MatchCount == 0 {
			if entry.IsDir {
				dirs = append(dirs, entry.PatternText)
			} else {
				files = append(files, entry.PatternText)
			}
		}
	}
	return files, dirs
}
