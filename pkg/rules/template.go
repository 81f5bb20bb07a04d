package rules

import (
	"fmt"
	"strings"

	"github.com/treelint/treelint/pkg/errors"
)

// expandTemplates processes every use_template binding in the directory map,
// generating one synthetic structure rule per binding and referencing it from
// the bound directory.
func expandTemplates(templatesRaw, directoryMapRaw interface{}, cfg *Config) error {
	if directoryMapRaw == nil {
		return nil
	}
	mapYAML, ok := asMap(directoryMapRaw)
	if !ok {
		return errors.New(errors.ErrConfigParse, "directory_map must be a map")
	}

	templatesYAML := map[string]interface{}{}
	if templatesRaw != nil {
		if templatesYAML, ok = asMap(templatesRaw); !ok {
			return errors.New(errors.ErrConfigParse, "templates must be a map")
		}
	}

	for directory, value := range mapYAML {
		list, ok := asList(value)
		if !ok {
			continue
		}
		for _, item := range list {
			itemYAML, ok := asMap(item)
			if !ok {
				continue
			}
			if _, ok := itemYAML["use_template"]; !ok {
				continue
			}
			if err := expandTemplateBinding(itemYAML, directory, templatesYAML, cfg); err != nil {
				return err
			}
		}
	}
	return nil
}

// expandTemplateBinding generates the synthetic rule for one
// {use_template, parameters} directory-map entry.
func expandTemplateBinding(
	binding map[string]interface{},
	directory string,
	templatesYAML map[string]interface{},
	cfg *Config,
) error {
	templateName, _ := asString(binding["use_template"])
	templateRaw, ok := templatesYAML[templateName]
	if !ok {
		return errors.Newf(errors.ErrTemplate,
			"template %q not found in templates", templateName)
	}
	templateEntries, ok := asList(templateRaw)
	if !ok {
		return errors.Newf(errors.ErrTemplate,
			"template %q must hold a list of entries", templateName)
	}

	parameters, err := parseTemplateParameters(binding["parameters"], templateName)
	if err != nil {
		return err
	}

	// One expansion pass per round-robin index: every parameter contributes
	// values[i mod len(values)], shorter value lists wrap around.
	rounds := 0
	for _, values := range parameters {
		if len(values) > rounds {
			rounds = len(values)
		}
	}

	var expandedYAML []interface{}
	for i := 0; i < rounds; i++ {
		entries := templateEntries
		for key, values := range parameters {
			entries = substituteEntries(entries, key, values[i%len(values)])
		}
		expandedYAML = append(expandedYAML, entries...)
	}

	ruleName := templateRuleName(directory, templateName)
	entries, err := parseEntryList(expandedYAML, ruleName)
	if err != nil {
		return err
	}

	cfg.StructureRules[ruleName] = entries
	cfg.DirectoryMap[directory] = append(cfg.DirectoryMap[directory], ruleName)
	return nil
}

func parseTemplateParameters(raw interface{}, templateName string) (map[string][]string, error) {
	parameters := map[string][]string{}
	if raw == nil {
		return parameters, nil
	}

	paramsYAML, ok := asMap(raw)
	if !ok {
		return nil, errors.Newf(errors.ErrTemplate,
			"parameters of template %q must be a map", templateName)
	}
	for key, value := range paramsYAML {
		list, ok := asList(value)
		if !ok {
			return nil, errors.Newf(errors.ErrTemplate,
				"parameter %q of template %q must be a list", key, templateName)
		}
		var values []string
		for _, item := range list {
			s, _ := asString(item)
			values = append(values, s)
		}
		if len(values) == 0 {
			return nil, errors.Newf(errors.ErrTemplate,
				"parameter %q of template %q has no values", key, templateName)
		}
		parameters[key] = values
	}
	return parameters, nil
}

// substituteEntries returns a copy of the raw template entries with every
// {{key}} placeholder in the pattern fields replaced, recursively through
// nested if_exists lists.
func substituteEntries(entries []interface{}, key, value string) []interface{} {
	placeholder := fmt.Sprintf("{{%s}}", key)

	substituted := make([]interface{}, 0, len(entries))
	for _, item := range entries {
		entryYAML, ok := asMap(item)
		if !ok {
			substituted = append(substituted, item)
			continue
		}

		copied := make(map[string]interface{}, len(entryYAML))
		for k, v := range entryYAML {
			copied[k] = v
		}
		for _, verb := range patternVerbs {
			if raw, ok := copied[verb]; ok {
				if s, ok := asString(raw); ok {
					copied[verb] = strings.ReplaceAll(s, placeholder, value)
				}
				break
			}
		}
		if nested, ok := asList(copied["if_exists"]); ok {
			copied["if_exists"] = substituteEntries(nested, key, value)
		}
		substituted = append(substituted, copied)
	}
	return substituted
}

// templateRuleName derives the deterministic name of a synthetic rule from
// the owning directory and template name, keeping repeated compilations
// stable.
func templateRuleName(directory, templateName string) string {
	return fmt.Sprintf("__template_rule_%s_%s", MapDirToRelDir(directory), templateName)
}
