// Test Type: Integration Test
// Description: Tests for the scan package - full repository scans

package scan_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treelint/treelint/pkg/config"
	"github.com/treelint/treelint/pkg/errors"
	"github.com/treelint/treelint/pkg/rules"
	"github.com/treelint/treelint/pkg/scan"
)

// writeTree materializes a repository tree. Paths ending in "/" become
// directories, everything else becomes a file with throwaway content.
func writeTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		abs := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(p, "/")))
		if strings.HasSuffix(p, "/") {
			require.NoError(t, os.MkdirAll(abs, 0755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0755))
		require.NoError(t, os.WriteFile(abs, []byte("content\n"), 0644))
	}
}

func loadConfig(t *testing.T, document string) *rules.Config {
	t.Helper()
	cfg, err := config.LoadString(document)
	require.NoError(t, err)
	return cfg
}

func fullScan(t *testing.T, root string, cfg *rules.Config) error {
	t.Helper()
	return scan.FullScan(context.Background(), root, cfg, scan.DefaultFlags())
}

const basicDocument = `
structure_rules:
  base:
    - require: 'README\.md'
    - allow: '.*\.txt'
    - forbid: 'CMakeLists\.txt'
directory_map:
  /:
    - use_rule: base
`

func TestFullScan_Basic(t *testing.T) {
	cfg := loadConfig(t, basicDocument)

	t.Run("conforming_tree", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "README.md", "notes.txt")
		assert.NoError(t, fullScan(t, root, cfg))
	})

	t.Run("required_only", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "README.md")
		assert.NoError(t, fullScan(t, root, cfg))
	})

	t.Run("unspecified_entry", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "README.md", "main.py")
		err := fullScan(t, root, cfg)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnspecifiedEntry))
		assert.Contains(t, err.Error(), "main.py")
	})

	t.Run("forbidden_entry", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "README.md", "CMakeLists.txt")
		err := fullScan(t, root, cfg)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrForbiddenEntry))
	})

	t.Run("missing_required", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "notes.txt")
		err := fullScan(t, root, cfg)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrMissingRequired))
		assert.Contains(t, err.Error(), `README\.md`)
	})

	t.Run("empty_repo_fails_required", func(t *testing.T) {
		err := fullScan(t, t.TempDir(), cfg)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrMissingRequired))
	})
}

func TestFullScan_OverlappingRules(t *testing.T) {
	cfg := loadConfig(t, `
structure_rules:
  base:
    - require: '.*\.md'
    - require: 'README\.md'
directory_map:
  /:
    - use_rule: base
`)

	root := t.TempDir()
	writeTree(t, root, "README.md")
	assert.NoError(t, fullScan(t, root, cfg),
		"one file satisfies every pattern it matches")
}

func TestFullScan_Recursion(t *testing.T) {
	cfg := loadConfig(t, `
structure_rules:
  source:
    - allow: '.*\.go'
    - allow: '.*/'
      use_rule: source
directory_map:
  /:
    - use_rule: source
`)

	t.Run("nested_ok", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "main.go", "pkg/deep/nested/util.go")
		assert.NoError(t, fullScan(t, root, cfg))
	})

	t.Run("violation_deep_in_tree", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "pkg/deep/nested/util.py")
		err := fullScan(t, root, cfg)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnspecifiedEntry))
		assert.Contains(t, err.Error(), "pkg/deep/nested/util.py")
	})
}

func TestFullScan_IfExists(t *testing.T) {
	cfg := loadConfig(t, `
structure_rules:
  base:
    - allow: 'docs/'
      if_exists:
        - require: 'index\.md'
        - allow: '.*\.md'
directory_map:
  /:
    - use_rule: base
`)

	t.Run("absent_directory_ok", func(t *testing.T) {
		assert.NoError(t, fullScan(t, t.TempDir(), cfg))
	})

	t.Run("present_and_complete", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "docs/index.md", "docs/guide.md")
		assert.NoError(t, fullScan(t, root, cfg))
	})

	t.Run("present_but_incomplete", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "docs/guide.md")
		err := fullScan(t, root, cfg)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrMissingRequired))
		assert.Contains(t, err.Error(), "docs")
	})
}

func TestFullScan_Mappings(t *testing.T) {
	cfg := loadConfig(t, `
structure_rules:
  root_rule:
    - require: 'README\.md'
  doc_rule:
    - allow: '.*\.md'
directory_map:
  /:
    - use_rule: root_rule
  /docs/:
    - use_rule: doc_rule
  /third_party/:
    - use_rule: ignore
`)

	t.Run("nested_mapping_owns_subtree", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "README.md", "docs/guide.md")
		assert.NoError(t, fullScan(t, root, cfg),
			"docs/ needs no rule in the root mapping")
	})

	t.Run("nested_mapping_enforced", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "README.md", "docs/script.py")
		err := fullScan(t, root, cfg)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnspecifiedEntry))
	})

	t.Run("ignored_subtree", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "README.md", "docs/", "third_party/vendored/anything.bin")
		assert.NoError(t, fullScan(t, root, cfg))
	})
}

func TestFullScan_MissingRootMapping(t *testing.T) {
	cfg := loadConfig(t, `
structure_rules:
  base:
    - allow: '.*'
directory_map:
  /src/:
    - use_rule: base
`)

	err := fullScan(t, t.TempDir(), cfg)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMissingMapping))
}

func TestFullScan_Companions(t *testing.T) {
	cfg := loadConfig(t, `
structure_rules:
  source:
    - allow: '(?P<base>\w+)\.cpp'
      requires_companion:
        - '{{base}}.h'
    - allow: '\w+\.h'
directory_map:
  /:
    - use_rule: source
`)

	t.Run("companion_present", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "widget.cpp", "widget.h")
		assert.NoError(t, fullScan(t, root, cfg))
	})

	t.Run("companion_missing", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "engine.cpp")
		err := fullScan(t, root, cfg)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrCompanionMissing))
		assert.Contains(t, err.Error(), "engine.h")
	})
}

func TestFullScan_Skips(t *testing.T) {
	cfg := loadConfig(t, basicDocument)

	t.Run("git_artifacts", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "README.md", ".git/HEAD", ".gitignore")
		assert.NoError(t, fullScan(t, root, cfg))
	})

	t.Run("gitignored_entries", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "README.md", "build/output.bin", "scratch.log")
		require.NoError(t, os.WriteFile(
			filepath.Join(root, ".gitignore"),
			[]byte("build/\n*.log\n"),
			0644,
		))
		assert.NoError(t, fullScan(t, root, cfg))
	})

	t.Run("hidden_entries_excluded", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "README.md", ".hidden.py")
		flags := scan.DefaultFlags()
		flags.IncludeHidden = false
		assert.NoError(t, scan.FullScan(context.Background(), root, cfg, flags))
	})

	t.Run("hidden_entries_included_by_default", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "README.md", ".hidden.py")
		err := fullScan(t, root, cfg)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnspecifiedEntry))
	})

	t.Run("symlinks_skipped_by_default", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "README.md")
		require.NoError(t, os.Symlink(
			filepath.Join(root, "README.md"),
			filepath.Join(root, "link.py"),
		))
		assert.NoError(t, fullScan(t, root, cfg))
	})
}

func TestFullScan_SelfRegisteredConfig(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "README.md", "sub/")
	configPath := filepath.Join(root, ".treelint.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
structure_rules:
  base:
    - require: 'README\.md'
    - allow: 'sub/'
      if_exists:
        - allow: '.*\.md'
directory_map:
  /:
    - use_rule: base
`), 0644))

	cfg, err := config.LoadFile(configPath)
	require.NoError(t, err)

	t.Run("root_copy_required", func(t *testing.T) {
		assert.NoError(t, fullScan(t, root, cfg))
	})

	t.Run("stray_copy_skipped", func(t *testing.T) {
		writeTree(t, root, "sub/.treelint.yaml")
		assert.NoError(t, fullScan(t, root, cfg))
	})
}

func TestFullScan_Parallel(t *testing.T) {
	cfg := loadConfig(t, `
structure_rules:
  any:
    - allow: '.*'
    - allow: '.*/'
      use_rule: any
directory_map:
  /:
    - use_rule: any
  /a/:
    - use_rule: any
  /b/:
    - use_rule: any
  /c/:
    - use_rule: any
`)

	root := t.TempDir()
	writeTree(t, root,
		"top.txt",
		"a/one.txt", "a/deep/two.txt",
		"b/three.txt",
		"c/four.txt",
	)

	flags := scan.DefaultFlags()
	flags.Jobs = 4
	assert.NoError(t, scan.FullScan(context.Background(), root, cfg, flags))
}

func TestFullScan_Cancelled(t *testing.T) {
	cfg := loadConfig(t, basicDocument)
	root := t.TempDir()
	writeTree(t, root, "README.md")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := scan.FullScan(ctx, root, cfg, scan.DefaultFlags())
	assert.ErrorIs(t, err, context.Canceled)
}
