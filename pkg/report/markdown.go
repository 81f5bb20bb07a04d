// Package report renders a compiled configuration as human- or
// machine-readable documents.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/treelint/treelint/pkg/rules"
)

// Markdown renders the configuration as a Markdown document describing the
// directory mappings and every structure rule.
func Markdown(cfg *rules.Config) string {
	var b strings.Builder

	b.WriteString("# Repository Structure Report\n\n")
	b.WriteString(fmt.Sprintf("Generated on: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))
	b.WriteString("This document describes the enforced repository structure rules and directory mappings.\n\n")

	b.WriteString("## Directory Mappings\n\n")
	b.WriteString("| Directory | Applied Rules |\n")
	b.WriteString("|-----------|---------------|\n")
	for _, directory := range sortedKeys(cfg.DirectoryMap) {
		names := make([]string, 0, len(cfg.DirectoryMap[directory]))
		for _, name := range cfg.DirectoryMap[directory] {
			names = append(names, "`"+name+"`")
		}
		b.WriteString(fmt.Sprintf("| `%s` | %s |\n", directory, strings.Join(names, ", ")))
	}
	b.WriteString("\n")

	b.WriteString("## Rule Details\n\n")
	for _, name := range sortedRuleNames(cfg.StructureRules) {
		writeRuleSection(&b, name, cfg.StructureRules[name])
	}

	b.WriteString("---\n\n")
	b.WriteString("*This report was automatically generated from the repository structure configuration.*\n")
	return b.String()
}

// Tree renders a directory-tree visualization of the mapped directories.
func Tree(cfg *rules.Config) string {
	var b strings.Builder
	b.WriteString("# Repository Structure Tree\n\n```\nrepository/\n")

	for _, directory := range sortedKeys(cfg.DirectoryMap) {
		if directory == "/" {
			continue
		}
		b.WriteString(fmt.Sprintf("├── %s/\n", rules.MapDirToRelDir(directory)))
		for _, name := range cfg.DirectoryMap[directory] {
			if name != rules.RuleIgnore {
				b.WriteString(fmt.Sprintf("│   └── [Rule: %s]\n", name))
			}
		}
	}

	b.WriteString("```\n\n*Tree shows directory structure with applied rules*\n")
	return b.String()
}

func writeRuleSection(b *strings.Builder, name string, entries []*rules.Entry) {
	b.WriteString(fmt.Sprintf("### Rule: `%s`\n\n", name))

	groups := []struct {
		title  string
		filter func(*rules.Entry) bool
	}{
		{"Required Files", func(e *rules.Entry) bool { return !e.IsDir && e.Requirement == rules.Required }},
		{"Optional Files", func(e *rules.Entry) bool { return !e.IsDir && e.Requirement == rules.Optional }},
		{"Required Directories", func(e *rules.Entry) bool { return e.IsDir && e.Requirement == rules.Required }},
		{"Optional Directories", func(e *rules.Entry) bool { return e.IsDir && e.Requirement == rules.Optional }},
		{"Forbidden Entries", func(e *rules.Entry) bool { return e.Requirement == rules.Forbidden }},
	}

	for _, group := range groups {
		var matched []*rules.Entry
		for _, entry := range entries {
			if group.filter(entry) {
				matched = append(matched, entry)
			}
		}
		if len(matched) == 0 {
			continue
		}

		b.WriteString(fmt.Sprintf("#### %s\n\n", group.title))
		for _, entry := range matched {
			pattern := entry.PatternText
			if entry.IsDir {
				pattern += "/"
			}
			b.WriteString(fmt.Sprintf("- `%s`\n", pattern))
			if entry.UseRule != "" {
				b.WriteString(fmt.Sprintf("  - *Uses rule: `%s`*\n", entry.UseRule))
			}
			if len(entry.IfExists) > 0 {
				b.WriteString(fmt.Sprintf("  - *Contains %d conditional entries*\n", len(entry.IfExists)))
			}
			for _, companion := range entry.Companions {
				b.WriteString(fmt.Sprintf("  - *Requires companion: `%s`*\n", companion))
			}
		}
		b.WriteString("\n")
	}
}

func sortedKeys(m rules.DirectoryMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedRuleNames(m rules.StructureRuleMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
