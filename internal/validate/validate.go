// Package validate checks request bodies against embedded JSON Schemas.
package validate

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/rfoley/todo-api/internal/domain"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

var (
	credentialsSchema = mustCompile("schemas/credentials.schema.json")
	todoCreateSchema  = mustCompile("schemas/todo_create.schema.json")
	todoUpdateSchema  = mustCompile("schemas/todo_update.schema.json")
)

func mustCompile(name string) *jsonschema.Schema {
	data, err := schemaFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("read schema %s: %v", name, err))
	}
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		panic(fmt.Sprintf("add schema %s: %v", name, err))
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("compile schema %s: %v", name, err))
	}
	return schema
}

// Credentials validates a signup/login body: email format plus password of at
// least 6 characters.
func Credentials(body []byte) error {
	return validateBody(credentialsSchema, body)
}

// TodoCreate validates a todo creation body: required title of at least 3
// characters.
func TodoCreate(body []byte) error {
	return validateBody(todoCreateSchema, body)
}

// TodoUpdate validates a partial todo update body. Both fields are optional;
// a title, when present, must be at least 3 characters.
func TodoUpdate(body []byte) error {
	return validateBody(todoUpdateSchema, body)
}

func validateBody(schema *jsonschema.Schema, body []byte) error {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("%w: request body is not valid JSON", domain.ErrInvalidInput)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, schemaErrorMessage(err))
	}
	return nil
}

// schemaErrorMessage digs out the most specific cause of a validation failure
// so callers see "length must be >= 3" rather than the full cause tree.
func schemaErrorMessage(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if ve.InstanceLocation != "" {
		return fmt.Sprintf("%s: %s", ve.InstanceLocation, ve.Message)
	}
	return ve.Message
}
