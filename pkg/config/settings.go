package config

import (
	_ "embed"
	goerrors "errors"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/treelint/treelint/pkg/errors"
	"github.com/treelint/treelint/pkg/logging"
)

//go:embed embedded/defaults.toml
var defaultSettings []byte

// rawBytesProvider implements a koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, goerrors.New("not implemented")
}

// Settings holds tool-level scan defaults, overridable per repository
// through .treelint.toml and per invocation through CLI flags.
type Settings struct {
	FollowSymlinks bool `koanf:"follow_symlinks"`
	IncludeHidden  bool `koanf:"include_hidden"`
	Jobs           int  `koanf:"jobs"`
}

// settingsFileNames are probed in the repository root, first hit wins.
var settingsFileNames = []string{".treelint.toml", "treelint.toml"}

// LoadSettings loads tool settings for a repository: embedded defaults first,
// then the repository's settings file if one exists.
func LoadSettings(repoRoot string) (Settings, error) {
	logger := logging.GetLogger("config.settings")

	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultSettings}, toml.Parser()); err != nil {
		return Settings{}, errors.Wrap(err, errors.ErrInternal, "failed to load default settings")
	}

	for _, filename := range settingsFileNames {
		path := filepath.Join(repoRoot, filename)
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return Settings{}, errors.Wrapf(err, errors.ErrConfigParse,
					"failed to load settings from %q", path)
			}
			logger.Debug().Str("path", path).Msg("Loaded repository settings")
			break
		}
	}

	var settings Settings
	if err := k.Unmarshal("scan", &settings); err != nil {
		return Settings{}, errors.Wrap(err, errors.ErrConfigParse, "bad settings")
	}
	return settings, nil
}
