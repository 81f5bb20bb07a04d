// Test Type: Unit Test
// Description: Tests for the rules package - map directory key conversions

package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/treelint/treelint/pkg/rules"
)

func TestRelDirToMapDir(t *testing.T) {
	assert.Equal(t, "/", rules.RelDirToMapDir(""))
	assert.Equal(t, "/", rules.RelDirToMapDir("/"))
	assert.Equal(t, "/src/", rules.RelDirToMapDir("src"))
	assert.Equal(t, "/src/lib/", rules.RelDirToMapDir("src/lib"))
	assert.Equal(t, "/src/", rules.RelDirToMapDir("/src/"))
}

func TestMapDirToRelDir(t *testing.T) {
	assert.Equal(t, "", rules.MapDirToRelDir("/"))
	assert.Equal(t, "", rules.MapDirToRelDir(""))
	assert.Equal(t, "src", rules.MapDirToRelDir("/src/"))
	assert.Equal(t, "src/lib", rules.MapDirToRelDir("/src/lib/"))
}
