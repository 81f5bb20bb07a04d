package rules

import (
	"fmt"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/treelint/treelint/pkg/errors"
	"github.com/treelint/treelint/pkg/logging"
)

// patternCache caches compiled patterns across rules and template expansions.
// Template expansion tends to produce many identical patterns.
var patternCache, _ = lru.New[string, *regexp.Regexp](512)

// compilePattern compiles a segment pattern with full-string anchoring while
// preserving capture groups.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if re, ok := patternCache.Get(pattern); ok {
		return re, nil
	}

	re, err := regexp.Compile(`\A(?:` + pattern + `)\z`)
	if err != nil {
		return nil, err
	}
	patternCache.Add(pattern, re)
	return re, nil
}

// Compile turns a decoded configuration document into a Config.
//
// The document is the nested map/list structure produced by the configuration
// loader; shape violations that the schema validator would have rejected are
// reported as CONFIG_PARSE errors.
func Compile(doc map[string]interface{}) (*Config, error) {
	logger := logging.GetLogger("rules.compile")

	if len(doc) == 0 {
		return nil, errors.New(errors.ErrConfigParse, "empty configuration")
	}

	structureRules, err := parseStructureRules(doc["structure_rules"])
	if err != nil {
		return nil, err
	}

	directoryMap, err := parseDirectoryMap(doc["directory_map"])
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		StructureRules: structureRules,
		DirectoryMap:   directoryMap,
	}

	// Templates are expanded in place and appended as synthetic structure
	// rules referenced from the directory map.
	if err := expandTemplates(doc["templates"], doc["directory_map"], cfg); err != nil {
		return nil, err
	}

	if err := validateDirectoryMapRules(cfg); err != nil {
		return nil, err
	}

	logger.Debug().
		Int("structureRules", len(cfg.StructureRules)).
		Int("directoryMappings", len(cfg.DirectoryMap)).
		Msg("Configuration compiled")

	return cfg, nil
}

// SelfRegister injects a synthetic Required file rule for the configuration
// file's own name into the root mapping, so that CLI scans accept (and
// expect) the file they were configured from.
func (c *Config) SelfRegister(name string) error {
	if _, ok := c.StructureRules[name]; ok {
		return errors.Newf(errors.ErrConfigParse,
			"conflicting structure rule for %q - do not add the config manually", name)
	}

	pattern := regexp.QuoteMeta(name)
	re, err := compilePattern(pattern)
	if err != nil {
		return errors.Wrapf(err, errors.ErrStructureRule, "bad pattern %q", pattern)
	}

	c.ConfigFileName = name
	c.StructureRules[name] = []*Entry{{
		Pattern:     re,
		PatternText: pattern,
		Requirement: Required,
	}}
	if _, ok := c.DirectoryMap["/"]; ok {
		c.DirectoryMap["/"] = append(c.DirectoryMap["/"], name)
	}
	return nil
}

func parseStructureRules(raw interface{}) (StructureRuleMap, error) {
	rules := StructureRuleMap{}
	if raw == nil {
		return rules, nil
	}

	rulesYAML, ok := asMap(raw)
	if !ok {
		return nil, errors.New(errors.ErrConfigParse, "structure_rules must be a map")
	}

	for name, entriesRaw := range rulesYAML {
		entries, err := parseEntryList(entriesRaw, name)
		if err != nil {
			return nil, err
		}
		rules[name] = entries
	}

	if err := validateUseRules(rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func parseEntryList(raw interface{}, ruleName string) ([]*Entry, error) {
	list, ok := asList(raw)
	if !ok {
		return nil, errors.Newf(errors.ErrConfigParse,
			"rule %q must hold a list of entries", ruleName)
	}

	var entries []*Entry
	for _, item := range list {
		entryYAML, ok := asMap(item)
		if !ok {
			return nil, errors.Newf(errors.ErrConfigParse,
				"entry in rule %q must be a map", ruleName)
		}
		entry, err := parseEntry(entryYAML, ruleName)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// patternVerbs are the alternative keys carrying the entry pattern, in
// precedence order.
var patternVerbs = []string{"p", "require", "allow", "forbid"}

func parseEntry(entryYAML map[string]interface{}, ruleName string) (*Entry, error) {
	var pattern, verb string
	for _, v := range patternVerbs {
		if raw, ok := entryYAML[v]; ok {
			s, ok := asString(raw)
			if !ok {
				return nil, errors.Newf(errors.ErrConfigParse,
					"pattern %q in rule %q must be a string", v, ruleName)
			}
			pattern, verb = s, v
			break
		}
	}
	if verb == "" {
		return nil, errors.Newf(errors.ErrStructureRule,
			"entry in rule %q has no pattern (one of p/require/allow/forbid)", ruleName)
	}

	entry := &Entry{
		IsDir:       strings.HasSuffix(pattern, "/"),
		Requirement: parseRequirement(entryYAML, verb),
	}
	entry.PatternText = strings.TrimSuffix(pattern, "/")

	re, err := compilePattern(entry.PatternText)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStructureRule,
			"bad pattern %q, failed to compile", entry.PatternText)
	}
	entry.Pattern = re

	if raw, ok := entryYAML["use_rule"]; ok {
		s, _ := asString(raw)
		if !entry.IsDir {
			return nil, errors.Newf(errors.ErrStructureRule,
				"use_rule on file entry %q in rule %q", entry.PatternText, ruleName)
		}
		entry.UseRule = s
	}

	if raw, ok := entryYAML["if_exists"]; ok {
		if !entry.IsDir {
			return nil, errors.Newf(errors.ErrStructureRule,
				"if_exists on file entry %q in rule %q", entry.PatternText, ruleName)
		}
		nested, err := parseEntryList(raw, ruleName)
		if err != nil {
			return nil, err
		}
		entry.IfExists = nested
	}

	if raw, ok := entryYAML["requires_companion"]; ok {
		if entry.IsDir {
			return nil, errors.Newf(errors.ErrStructureRule,
				"requires_companion on directory entry %q in rule %q", entry.PatternText, ruleName)
		}
		list, ok := asList(raw)
		if !ok {
			return nil, errors.Newf(errors.ErrConfigParse,
				"requires_companion of %q in rule %q must be a list", entry.PatternText, ruleName)
		}
		for _, item := range list {
			s, ok := asString(item)
			if !ok {
				return nil, errors.Newf(errors.ErrConfigParse,
					"companion template of %q in rule %q must be a string", entry.PatternText, ruleName)
			}
			entry.Companions = append(entry.Companions, s)
		}
	}

	return entry, nil
}

// parseRequirement normalizes the verb and the optional `required` flag into
// the single requirement enum. The verb is parsing sugar, not a runtime
// concept.
func parseRequirement(entryYAML map[string]interface{}, verb string) Requirement {
	if verb == "forbid" {
		return Forbidden
	}
	if raw, ok := entryYAML["required"]; ok {
		if b, ok := raw.(bool); ok && !b {
			return Optional
		}
		return Required
	}
	if verb == "allow" {
		return Optional
	}
	return Required
}

// validateUseRules checks inline use_rule references: they must resolve and
// may only name the rule they are defined under (self-recursion).
func validateUseRules(rules StructureRuleMap) error {
	var check func(ruleName string, entries []*Entry) error
	check = func(ruleName string, entries []*Entry) error {
		for _, entry := range entries {
			if entry.UseRule != "" {
				if _, ok := rules[entry.UseRule]; !ok {
					return errors.Newf(errors.ErrUseRule,
						"use_rule %q in entry %q is not a valid rule key",
						entry.UseRule, entry.PatternText)
				}
				if entry.UseRule != ruleName {
					return errors.Newf(errors.ErrUseRule,
						"use_rule %q in entry %q is not recursive",
						entry.UseRule, entry.PatternText)
				}
			}
			if err := check(ruleName, entry.IfExists); err != nil {
				return err
			}
		}
		return nil
	}

	for name, entries := range rules {
		if err := check(name, entries); err != nil {
			return err
		}
	}
	return nil
}

func parseDirectoryMap(raw interface{}) (DirectoryMap, error) {
	mapping := DirectoryMap{}
	if raw == nil {
		return mapping, nil
	}

	mapYAML, ok := asMap(raw)
	if !ok {
		return nil, errors.New(errors.ErrConfigParse, "directory_map must be a map")
	}

	for directory, value := range mapYAML {
		if !strings.HasPrefix(directory, "/") || !strings.HasSuffix(directory, "/") {
			return nil, errors.Newf(errors.ErrDirectoryStructure,
				"directory %q must start and end with '/'", directory)
		}

		list, ok := asList(value)
		if !ok {
			return nil, errors.Newf(errors.ErrConfigParse,
				"directory map for %q must hold a list", directory)
		}

		mapping[directory] = []string{}
		for _, item := range list {
			itemYAML, ok := asMap(item)
			if !ok {
				return nil, errors.Newf(errors.ErrConfigParse,
					"directory map entry for %q must be a map", directory)
			}
			// use_template entries are handled by the template expander.
			if raw, ok := itemYAML["use_rule"]; ok {
				s, ok := asString(raw)
				if !ok {
					return nil, errors.Newf(errors.ErrConfigParse,
						"use_rule for %q must be a string", directory)
				}
				mapping[directory] = append(mapping[directory], s)
			}
		}
	}

	return mapping, nil
}

// validateDirectoryMapRules checks that every bound rule name resolves to a
// structure rule or a builtin.
func validateDirectoryMapRules(cfg *Config) error {
	for directory, ruleNames := range cfg.DirectoryMap {
		for _, name := range ruleNames {
			if name == RuleIgnore {
				continue
			}
			if _, ok := cfg.StructureRules[name]; !ok {
				return errors.Newf(errors.ErrUseRule,
					"directory mapping %q uses non-existing rule %q", directory, name)
			}
		}
	}
	return nil
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok
}

func asList(v interface{}) ([]interface{}, bool) {
	l, ok := v.([]interface{})
	return l, ok
}

func asString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	default:
		return fmt.Sprintf("%v", v), v != nil
	}
}
