package facts

import (
	"encoding/json"

	"github.com/jonathan/career-docs/internal/types"
)

// FormatInventory serializes an inventory to the stable textual form used
// in generation prompts: pretty-printed JSON, deterministic for a given
// inventory value, with no information loss. Sanitizing the output yields
// the original inventory back.
func FormatInventory(inv types.FactInventory) string {
	data, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		// FactInventory contains only strings and slices; marshal cannot
		// fail for a value of this type.
		return "{}"
	}
	return string(data)
}
