package report

import (
	"github.com/ohler55/ojg/oj"

	"github.com/treelint/treelint/pkg/rules"
)

// JSON renders the configuration as an indented JSON summary.
func JSON(cfg *rules.Config) string {
	summary := map[string]interface{}{
		"directory_map":   directoryMapSummary(cfg),
		"structure_rules": structureRulesSummary(cfg),
	}
	return oj.JSON(summary, 2)
}

func directoryMapSummary(cfg *rules.Config) map[string]interface{} {
	mappings := map[string]interface{}{}
	for directory, names := range cfg.DirectoryMap {
		mappings[directory] = names
	}
	return mappings
}

func structureRulesSummary(cfg *rules.Config) map[string]interface{} {
	summary := map[string]interface{}{}
	for name, entries := range cfg.StructureRules {
		summary[name] = entriesSummary(entries)
	}
	return summary
}

func entriesSummary(entries []*rules.Entry) []interface{} {
	out := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		item := map[string]interface{}{
			"pattern":     entry.PatternText,
			"is_dir":      entry.IsDir,
			"requirement": entry.Requirement.String(),
		}
		if entry.UseRule != "" {
			item["use_rule"] = entry.UseRule
		}
		if len(entry.IfExists) > 0 {
			item["if_exists"] = entriesSummary(entry.IfExists)
		}
		if len(entry.Companions) > 0 {
			item["requires_companion"] = entry.Companions
		}
		out = append(out, item)
	}
	return out
}
