package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

const schemaResource = "httpstub-fixture.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Schema returns the JSON Schema (draft 2020-12) describing fixture files.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

// SchemaError is a single schema violation.
type SchemaError struct {
	// Field is the dotted location in the document, empty for the root.
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// CheckFile validates the raw document at path against the fixture schema.
// It reports structural problems with their location in the file, before
// the document is decoded into a Fixture.
func CheckFile(path string) error {
	data, err := readFile(path)
	if err != nil {
		return err
	}
	if err := ValidateSchema(data, FormatOf(path)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ValidateSchema validates a raw fixture document. Violations are returned
// joined, one *SchemaError each.
func ValidateSchema(data []byte, format Format) error {
	schema, err := fixtureSchema()
	if err != nil {
		return err
	}

	doc, err := decodeDocument(data, format)
	if err != nil {
		return err
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	var vErr *jsonschema.ValidationError
	if !errors.As(err, &vErr) {
		return err
	}

	var errs []error
	collectSchemaErrors(vErr, &errs)
	return errors.Join(errs...)
}

func fixtureSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaResource, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaResource)
	})
	return compiledSchema, schemaErr
}

// decodeDocument decodes data into plain JSON values. YAML documents are
// converted to JSON and back so the validator sees consistent types.
func decodeDocument(data []byte, format Format) (any, error) {
	if format == FormatYAML {
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
		b, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
		data = b
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		if format == FormatYAML {
			return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return doc, nil
}

// collectSchemaErrors keeps the leaf causes, which carry the precise location.
func collectSchemaErrors(err *jsonschema.ValidationError, errs *[]error) {
	if len(err.Causes) == 0 {
		*errs = append(*errs, &SchemaError{
			Field:   fieldFromPointer(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, errs)
	}
}

// fieldFromPointer converts a JSON Pointer to dot notation.
func fieldFromPointer(ptr string) string {
	if ptr == "" || ptr == "/" {
		return ""
	}
	ptr = strings.TrimPrefix(ptr, "/")
	return strings.ReplaceAll(ptr, "/", ".")
}
