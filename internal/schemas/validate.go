// Package schemas provides JSON Schema validation for the fact inventory.
// The sanitizer is the trust boundary; this validation is a belt-and-braces
// diagnostic that a sanitized inventory matches the published shape. It is
// never on the request's critical path.
package schemas

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/career-docs/internal/types"
)

//go:embed inventory_schema.json
var inventorySchemaJSON []byte

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// ValidationError represents a schema validation failure with field paths
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("inventory schema validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateInventory checks a sanitized inventory against the published
// inventory schema. A well-behaved sanitizer makes this unfailable; a
// non-nil result indicates a bug in the sanitization layer, not bad model
// output.
func ValidateInventory(inv types.FactInventory) error {
	data, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}
	return ValidateInventoryJSON(data)
}

// ValidateInventoryJSON validates raw inventory JSON against the schema.
func ValidateInventoryJSON(data []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(inventorySchemaJSON)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return ve
}
