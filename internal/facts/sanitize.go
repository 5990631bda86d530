// Package facts implements the fact inventory pipeline: extraction of
// verifiable claims from candidate documents and sanitization of the raw
// model output into a well-typed inventory.
package facts

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/career-docs/internal/llm"
	"github.com/jonathan/career-docs/internal/types"
)

// UnknownSource is the provenance placeholder for entries whose source
// document could not be determined from the raw output.
const UnknownSource = "unknown source"

// Sanitize turns raw extractor output into a well-formed FactInventory.
// It is the trust boundary between the model and everything downstream:
// total over all string inputs, it never returns an error. A single code
// fence wrapper is stripped, then the text must parse as a JSON object;
// on any parse failure the canonical empty inventory is returned. Array
// elements missing their mandatory field are dropped, all other fields are
// re-typed defensively, and enum fields default to their most conservative
// member on mismatch.
func Sanitize(raw string) types.FactInventory {
	inv, _ := parseInventory(raw)
	return inv
}

// parseInventory is Sanitize plus a parse-failure signal for callers that
// track extraction state. The returned inventory is always structurally
// valid, even when err is non-nil.
func parseInventory(raw string) (types.FactInventory, error) {
	inv := types.EmptyInventory()

	text := llm.CleanJSONBlock(raw)
	if text == "" {
		return inv, &ParseError{Message: "empty extraction output"}
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return inv, &ParseError{Message: "extraction output is not a JSON object", Cause: err}
	}

	inv.Skills = sanitizeSkills(payload["skills"])
	inv.Achievements = sanitizeAchievements(payload["achievements"])
	inv.Credentials = sanitizeCredentials(payload["credentials"])
	inv.Companies = sanitizeCompanies(payload["companies"])
	return inv, nil
}

// elements splits a raw array into per-element raw messages. A missing key
// or a value that is not an array yields nil: the outer container type must
// be right for any of its contents to be considered.
func elements(raw json.RawMessage) []json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

// record parses a raw element as a JSON object. Non-record elements
// (strings, numbers, nested arrays) are dropped by returning nil.
func record(raw json.RawMessage) map[string]any {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

// stringField returns the named field only when it is specifically a string.
func stringField(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok
}

// optionalString coerces an optional field: a non-string value is treated
// as absent, never converted.
func optionalString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// sourceField returns the entry's provenance, defaulting to the unknown
// placeholder when missing or blank.
func sourceField(m map[string]any) string {
	if s, ok := stringField(m, "source"); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return UnknownSource
}

func sanitizeSkills(raw json.RawMessage) []types.ExtractedSkill {
	out := []types.ExtractedSkill{}
	for _, item := range elements(raw) {
		m := record(item)
		if m == nil {
			continue
		}
		skill, ok := stringField(m, "skill")
		if !ok || strings.TrimSpace(skill) == "" {
			continue
		}

		confidence := types.Confidence(strings.ToLower(strings.TrimSpace(optionalString(m, "confidence"))))
		if !types.ValidConfidence(confidence) {
			// Anything unrecognized collapses to the weakest claim,
			// never to a stronger one.
			confidence = types.ConfidenceMentioned
		}

		out = append(out, types.ExtractedSkill{
			Skill:      skill,
			Source:     sourceField(m),
			Context:    optionalString(m, "context"),
			Confidence: confidence,
		})
	}
	return out
}

func sanitizeAchievements(raw json.RawMessage) []types.ExtractedAchievement {
	out := []types.ExtractedAchievement{}
	for _, item := range elements(raw) {
		m := record(item)
		if m == nil {
			continue
		}
		description, ok := stringField(m, "description")
		if !ok || strings.TrimSpace(description) == "" {
			continue
		}

		achievement := types.ExtractedAchievement{
			Description: description,
			Source:      sourceField(m),
		}
		// Metrics survive only as a non-empty string supplied by the model;
		// absence is preserved, not synthesized.
		if metrics := optionalString(m, "metrics"); strings.TrimSpace(metrics) != "" {
			achievement.Metrics = metrics
		}
		out = append(out, achievement)
	}
	return out
}

func sanitizeCredentials(raw json.RawMessage) []types.ExtractedCredential {
	out := []types.ExtractedCredential{}
	for _, item := range elements(raw) {
		m := record(item)
		if m == nil {
			continue
		}
		name, ok := stringField(m, "name")
		if !ok || strings.TrimSpace(name) == "" {
			continue
		}

		credType := types.CredentialType(strings.ToLower(strings.TrimSpace(optionalString(m, "type"))))
		if !types.ValidCredentialType(credType) {
			// The weakest claim class, never "degree".
			credType = types.CredentialTitle
		}

		out = append(out, types.ExtractedCredential{
			Type:   credType,
			Name:   name,
			Source: sourceField(m),
		})
	}
	return out
}

func sanitizeCompanies(raw json.RawMessage) []string {
	out := []string{}
	for _, item := range elements(raw) {
		var name string
		if err := json.Unmarshal(item, &name); err != nil {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		// Insertion order preserved; duplicates are allowed because the
		// source never guarantees uniqueness and none is imposed here.
		out = append(out, name)
	}
	return out
}
