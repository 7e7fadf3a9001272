package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const elementSchemaURL = "https://todoai.schemas.local/task-suggestion-element.schema.json"

// elementSchema is what a decoded array element must satisfy before coercion.
// Only a string title is required. Optional fields of any type are coerced
// afterwards, so they are not constrained here.
const elementSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["title"],
  "properties": {
    "title": {"type": "string"}
  }
}`

var (
	schemaOnce        sync.Once
	compiledElement   *jsonschema.Schema
	formatInstruction string
)

func loadSchemas() {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(elementSchemaURL, strings.NewReader(elementSchema)); err != nil {
		panic(fmt.Sprintf("task suggestion schema load failed: %v", err))
	}
	compiled, err := c.Compile(elementSchemaURL)
	if err != nil {
		panic(fmt.Sprintf("task suggestion schema compile failed: %v", err))
	}
	compiledElement = compiled

	reflector := &invopop.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		ExpandedStruct:            true,
	}
	item := reflector.Reflect(&TaskSuggestion{})
	item.Version = ""
	array := map[string]any{
		"type":     "array",
		"minItems": 1,
		"items":    item,
	}
	out, err := json.MarshalIndent(array, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("task suggestion schema marshal failed: %v", err))
	}
	formatInstruction = string(out)
}

// validateElement reports whether a decoded JSON value has the task shape
func validateElement(v any) error {
	schemaOnce.Do(loadSchemas)
	return compiledElement.Validate(v)
}

// FormatInstructions returns the JSON schema the task prompt asks the model
// to follow.
func FormatInstructions() string {
	schemaOnce.Do(loadSchemas)
	return formatInstruction
}
