package config

import (
	_ "embed"
	"strings"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

// Schema returns the JSON schema configuration documents are checked against.
func Schema() string {
	return schemaJSON
}

// validateDocument checks a decoded configuration document against the
// embedded schema and reports every violation at once.
func validateDocument(doc map[string]any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return errors.Wrap(err, "failed to validate config")
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}

	return errors.Wrapf(ErrInvalidConfig, "config does not match schema: %s", strings.Join(problems, "; "))
}
