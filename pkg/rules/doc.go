// Package rules implements the structure-rule data model and matching engine.
//
// A configuration maps repository directories to named structure rules, where
// each rule is an ordered list of pattern entries. Patterns are regular
// expressions matched full-string against a single path segment at the level
// where the entry is active.
//
// # Entry Verbs
//
// Entries are written in YAML with one pattern verb each:
//
//   - `require: 'README\.md'` - entry must match at least once
//   - `allow: '.*\.py'` - entry may match
//   - `forbid: 'CMakeLists\.txt'` - any match fails the scan
//   - `p: '...'` - neutral verb, combined with `required: true|false`
//
// A trailing slash marks a directory pattern (`require: 'src/'`). Directory
// entries may carry `use_rule` (self-recursion into the same rule) or
// `if_exists` (inline entries that activate only inside the matched
// directory). File entries may carry `requires_companion`, a list of filename
// templates whose `{{name}}` placeholders are bound to the pattern's named
// capture groups.
//
// # Backlogs
//
// Scanning a directory level operates on a backlog: a fresh list of entry
// copies built from the active rule names. Copies own their match counts but
// share compiled patterns, so one rule can be active at arbitrarily many
// nesting depths without count interference.
package rules
