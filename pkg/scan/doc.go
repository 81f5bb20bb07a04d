// Package scan validates directory trees against a compiled rules.Config.
//
// Two scanners share the backlog-matching engine from pkg/rules:
//
//   - FullScan walks every mapped directory recursively and fails fast on the
//     first violation, including required entries that never matched.
//   - CheckPaths validates explicit paths segment by segment without
//     enumerating the tree, collecting issues instead of failing. It cannot
//     observe completeness, so it never reports missing required entries.
//
// Distinct mapped directories share no mutable state (each owns its own
// backlog copies), so the full scan can process them in parallel.
package scan
