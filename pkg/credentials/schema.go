package credentials

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed credential.schema.json
var credentialSchemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(credentialSchemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("failed to parse embedded credential schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("credential.schema.json", doc); err != nil {
			schemaErr = fmt.Errorf("failed to register credential schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("credential.schema.json")
	})
	return schema, schemaErr
}

// Validate checks a spec against the engine's credential document schema.
// Callers treat a failure as a warning: the importer still submits whatever
// was staged, the engine is the final authority.
func Validate(spec Spec) error {
	compiled, err := compiledSchema()
	if err != nil {
		return err
	}
	raw, err := marshalForValidation(spec)
	if err != nil {
		return err
	}
	if err := compiled.Validate(raw); err != nil {
		return fmt.Errorf("credential %s does not match the import schema: %w", spec.ID, err)
	}
	return nil
}

// marshalForValidation round-trips the spec through JSON so the validator
// sees exactly the document that will be written to disk.
func marshalForValidation(spec Spec) (any, error) {
	data, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credential %s: %w", spec.ID, err)
	}
	raw, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to reparse credential %s: %w", spec.ID, err)
	}
	return raw, nil
}
