// Test Type: Unit Test
// Description: Tests for the rules package - companion name derivation

package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treelint/treelint/pkg/errors"
	"github.com/treelint/treelint/pkg/rules"
)

func companionConfig(t *testing.T, pattern string, companions []interface{}) *rules.Config {
	t.Helper()
	return compileDoc(t,
		map[string]interface{}{
			"base": []interface{}{
				entryDoc(map[string]interface{}{
					"require":            pattern,
					"requires_companion": companions,
				}),
			},
		},
		rootMap("base"),
	)
}

func TestCompanionNames(t *testing.T) {
	cfg := companionConfig(t, `(?P<base>\w+)\.cpp`,
		[]interface{}{"{{base}}.h", "{{base}}_test.cpp"})
	entry := cfg.StructureRules["base"][0]

	names, err := rules.CompanionNames(entry, "widget.cpp")
	require.NoError(t, err)
	assert.Equal(t, []string{"widget.h", "widget_test.cpp"}, names)
}

func TestCompanionNames_NoCompanions(t *testing.T) {
	cfg := compileDoc(t,
		map[string]interface{}{
			"base": []interface{}{
				entryDoc(map[string]interface{}{"require": `README\.md`}),
			},
		},
		rootMap("base"),
	)

	names, err := rules.CompanionNames(cfg.StructureRules["base"][0], "README.md")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCompanionNames_UnknownGroup(t *testing.T) {
	cfg := companionConfig(t, `(?P<base>\w+)\.cpp`, []interface{}{"{{stem}}.h"})

	_, err := rules.CompanionNames(cfg.StructureRules["base"][0], "widget.cpp")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStructureRule))
}

func TestCompanionNames_SegmentMismatch(t *testing.T) {
	cfg := companionConfig(t, `(?P<base>\w+)\.cpp`, []interface{}{"{{base}}.h"})

	_, err := rules.CompanionNames(cfg.StructureRules["base"][0], "widget.py")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
}
