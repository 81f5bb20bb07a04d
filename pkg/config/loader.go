package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/treelint/treelint/pkg/errors"
	"github.com/treelint/treelint/pkg/logging"
	"github.com/treelint/treelint/pkg/rules"
)

// LoadFile reads, validates and compiles a structure configuration file.
// The configuration file self-registers under its base name so that scans
// accept the file they were configured from.
func LoadFile(path string) (*rules.Config, error) {
	logger := logging.GetLogger("config.loader")
	logger.Debug().Str("path", path).Msg("Loading configuration file")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess,
			"failed to read configuration file %q", path)
	}

	cfg, err := compileDocument(data)
	if err != nil {
		return nil, err
	}

	if err := cfg.SelfRegister(filepath.Base(path)); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadString validates and compiles a structure configuration given as YAML
// text. No self-registration takes place.
func LoadString(document string) (*rules.Config, error) {
	return compileDocument([]byte(document))
}

func compileDocument(data []byte) (*rules.Config, error) {
	doc, err := decodeYAML(data)
	if err != nil {
		return nil, err
	}
	if err := ValidateSchema(doc); err != nil {
		return nil, err
	}
	return rules.Compile(doc)
}

func decodeYAML(data []byte) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "bad YAML document")
	}
	if len(doc) == 0 {
		return nil, errors.New(errors.ErrConfigParse, "empty configuration")
	}
	return doc, nil
}
