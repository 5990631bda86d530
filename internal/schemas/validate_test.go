package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-docs/internal/facts"
	"github.com/jonathan/career-docs/internal/types"
)

func TestValidateInventory_EmptyInventory(t *testing.T) {
	assert.NoError(t, ValidateInventory(types.EmptyInventory()))
}

func TestValidateInventory_SanitizedOutputAlwaysValid(t *testing.T) {
	// Whatever garbage the model returns, the sanitizer's output must
	// satisfy the published schema.
	inputs := []string{
		"I cannot help with that.",
		`{"skills": [{"skill": "Docker", "confidence": "bogus"}], "companies": ["  Acme ", 42]}`,
		`{"achievements": [{"description": "Shipped", "metrics": ""}]}`,
		`{"credentials": [{"name": "MSc"}]}`,
		"```json\n{\"skills\": [{\"skill\": \"Go\", \"source\": \"cv.txt\", \"confidence\": \"explicit\"}]}\n```",
	}

	for _, input := range inputs {
		inv := facts.Sanitize(input)
		assert.NoError(t, ValidateInventory(inv), "input %q", input)
	}
}

func TestValidateInventoryJSON_RejectsWrongShapes(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing keys", `{"skills": []}`},
		{"null list", `{"skills": null, "achievements": [], "credentials": [], "companies": []}`},
		{"bad confidence", `{"skills": [{"skill": "Go", "source": "cv", "context": "", "confidence": "certain"}], "achievements": [], "credentials": [], "companies": []}`},
		{"empty metrics string", `{"skills": [], "achievements": [{"description": "x", "metrics": "", "source": "cv"}], "credentials": [], "companies": []}`},
		{"extra key", `{"skills": [], "achievements": [], "credentials": [], "companies": [], "notes": "hi"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInventoryJSON([]byte(tt.data))
			require.Error(t, err)
		})
	}
}

func TestValidationError_ListsFields(t *testing.T) {
	err := ValidateInventoryJSON([]byte(`{"skills": "nope", "achievements": [], "credentials": [], "companies": []}`))
	require.Error(t, err)

	ve, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.NotEmpty(t, ve.Errors)
	assert.Contains(t, ve.Error(), "skills")
}
