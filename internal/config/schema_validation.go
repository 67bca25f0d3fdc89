package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	crossrunschema "github.com/crossrun/crossrun/schema"
)

var (
	schemaOnce sync.Once
	runSchema  *jsonschema.Schema
	schemaErr  error
)

func loadRunSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("run.v1.json", bytes.NewReader(crossrunschema.RunV1Schema)); err != nil {
			schemaErr = fmt.Errorf("add run schema resource: %w", err)
			return
		}
		runSchema, schemaErr = compiler.Compile("run.v1.json")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile run schema: %w", schemaErr)
		}
	})
	if schemaErr != nil {
		return nil, schemaErr
	}
	return runSchema, nil
}

func validateAgainstSchema(doc map[string]any) error {
	schema, err := loadRunSchema()
	if err != nil {
		return fmt.Errorf("load run schema: %w", err)
	}

	normalized, err := normalizeForSchema(doc)
	if err != nil {
		return fmt.Errorf("prepare manifest for schema validation: %w", err)
	}

	if err := schema.Validate(normalized); err != nil {
		if vErr, ok := err.(*jsonschema.ValidationError); ok {
			return fmt.Errorf("schema validation failed: %s", flattenValidationError(vErr))
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func normalizeForSchema(doc map[string]any) (any, error) {
	buf := &bytes.Buffer{}
	encoder := json.NewEncoder(buf)
	if err := encoder.Encode(doc); err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(buf.Bytes()))
	decoder.UseNumber()
	var out any
	if err := decoder.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenValidationError(err *jsonschema.ValidationError) string {
	leaf := err
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	location := strings.TrimPrefix(leaf.InstanceLocation, "/")
	if location == "" {
		location = "manifest"
	}
	return fmt.Sprintf("%s: %s", location, leaf.Message)
}
