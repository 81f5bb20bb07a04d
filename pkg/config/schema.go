package config

import (
	"bytes"
	_ "embed"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/treelint/treelint/pkg/errors"
)

//go:embed treelint.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = errors.Wrap(err, errors.ErrInternal, "bad embedded schema")
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("treelint.schema.json", doc); err != nil {
			schemaErr = errors.Wrap(err, errors.ErrInternal, "bad embedded schema")
			return
		}
		schema, schemaErr = compiler.Compile("treelint.schema.json")
	})
	return schema, schemaErr
}

// ValidateSchema rejects structurally invalid configuration documents before
// compilation.
func ValidateSchema(doc map[string]interface{}) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(normalize(doc)); err != nil {
		return errors.Wrap(err, errors.ErrConfigParse, "bad config")
	}
	return nil
}

// normalize converts YAML-decoded values into the JSON-shaped values the
// schema validator expects.
func normalize(v interface{}) interface{} {
	switch value := v.(type) {
	case map[string]interface{}:
		normalized := make(map[string]interface{}, len(value))
		for k, item := range value {
			normalized[k] = normalize(item)
		}
		return normalized
	case []interface{}:
		normalized := make([]interface{}, len(value))
		for i, item := range value {
			normalized[i] = normalize(item)
		}
		return normalized
	case int:
		return float64(value)
	case int64:
		return float64(value)
	default:
		return value
	}
}
