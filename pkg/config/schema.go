package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "handover.schema.json"

// ValidationError reports a config value that does not fit the schema.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid config: %v", e.Err)
	}
	return fmt.Sprintf("invalid config: %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

var compiled = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})

// ValidateMap checks raw config data against the embedded schema.
func ValidateMap(raw map[string]any) error {
	sch, err := compiled()
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	// Round-trip through JSON so values from TOML and YAML parsers take
	// the types the validator expects.
	data, err := json.Marshal(raw)
	if err != nil {
		return &ValidationError{Err: err}
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return &ValidationError{Err: err}
	}

	if err := sch.Validate(inst); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &ValidationError{Field: fieldOf(verr), Err: err}
		}
		return &ValidationError{Err: err}
	}
	return nil
}

// fieldOf names the deepest failing location as a dotted path.
func fieldOf(verr *jsonschema.ValidationError) string {
	for len(verr.Causes) > 0 {
		verr = verr.Causes[0]
	}
	return strings.Join(verr.InstanceLocation, ".")
}

// Schema returns the JSON schema that config files are validated against.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}
