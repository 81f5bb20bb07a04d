package rules

import "regexp"

// RuleIgnore is the builtin rule name that excludes a mapped subtree from
// validation entirely.
const RuleIgnore = "ignore"

// Requirement classifies how the scanner treats matches of an entry.
type Requirement int

const (
	// Optional entries may match any number of times, including zero.
	Optional Requirement = iota
	// Required entries must match at least once in their scope.
	Required
	// Forbidden entries fail the scan on their first match.
	Forbidden
)

// String returns the YAML verb for the requirement.
func (r Requirement) String() string {
	switch r {
	case Required:
		return "require"
	case Forbidden:
		return "forbid"
	default:
		return "allow"
	}
}

// Entry is one pattern-governed rule entry.
//
// Entries owned by a Config are canonical and immutable after compilation.
// Scanners operate on backlog copies produced by BuildBacklog and
// ChildBacklog; only those copies carry live match counts.
type Entry struct {
	// Pattern is the compiled pattern, anchored for full-segment matching.
	Pattern *regexp.Regexp

	// PatternText is the pattern as written in the configuration, used in
	// error messages and reports.
	PatternText string

	// IsDir reports whether the pattern governs a directory.
	IsDir bool

	// Requirement is the entry's requirement mode.
	Requirement Requirement

	// UseRule names the structure rule activated inside a matched directory.
	// Empty for file entries. Inline use_rule is restricted to self-recursion.
	UseRule string

	// IfExists holds nested entries activated only inside a matched
	// directory.
	IfExists []*Entry

	// Companions lists companion filename templates for file entries.
	// Placeholders of the form {{name}} are bound to the pattern's named
	// capture groups at match time.
	Companions []string

	// MatchCount counts matches during one traversal. It is meaningful only
	// on backlog copies and is zeroed whenever a fresh backlog is built.
	MatchCount int
}

// StructureRuleMap maps rule names to their ordered entry lists.
type StructureRuleMap map[string][]*Entry

// DirectoryMap maps slash-bounded repository paths ("/" for the root) to the
// ordered rule names active at their top level.
type DirectoryMap map[string][]string

// Config is a compiled configuration. It is immutable after compilation and
// safe for concurrent reads.
type Config struct {
	StructureRules StructureRuleMap
	DirectoryMap   DirectoryMap

	// ConfigFileName is the self-registered configuration file name, set when
	// the configuration was loaded from a file on disk. Empty otherwise.
	ConfigFileName string
}
