package rules

import (
	"strings"

	"github.com/treelint/treelint/pkg/errors"
)

// CompanionNames derives the concrete companion filenames for a file entry
// matched against the given segment, substituting the pattern's named capture
// groups into each {{name}} placeholder.
func CompanionNames(entry *Entry, segment string) ([]string, error) {
	if len(entry.Companions) == 0 {
		return nil, nil
	}

	submatch := entry.Pattern.FindStringSubmatch(segment)
	if submatch == nil {
		return nil, errors.Newf(errors.ErrInternal,
			"segment %q no longer matches pattern %q", segment, entry.PatternText)
	}

	captures := map[string]string{}
	for i, name := range entry.Pattern.SubexpNames() {
		if name != "" && i < len(submatch) {
			captures[name] = submatch[i]
		}
	}

	names := make([]string, 0, len(entry.Companions))
	for _, template := range entry.Companions {
		name := template
		for group, value := range captures {
			name = strings.ReplaceAll(name, "{{"+group+"}}", value)
		}
		if strings.Contains(name, "{{") {
			return nil, errors.Newf(errors.ErrStructureRule,
				"companion template %q of pattern %q references unknown capture groups",
				template, entry.PatternText)
		}
		names = append(names, name)
	}
	return names, nil
}
