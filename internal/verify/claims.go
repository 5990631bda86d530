// Package verify provides post-generation diagnostics on produced prose.
// The claim contract itself is enforced by the generation prompt; these
// checks surface likely violations as non-blocking warnings for logging
// and debugging, never as hard errors.
package verify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/career-docs/internal/types"
)

// Violation flags a claim in generated prose that could not be traced to
// the evidence base.
type Violation struct {
	Type    string `json:"type"`
	Claim   string `json:"claim"`
	Details string `json:"details"`
}

// numberPattern matches numeric claims: percentages, counts, durations.
// Bare small ordinals like "one" or "first" are intentionally out of scope.
var numberPattern = regexp.MustCompile(`\d[\d,.]*\s*(%|percent)?`)

// NumericClaims returns the numeric tokens found in text, in order of
// appearance, with surrounding whitespace trimmed.
func NumericClaims(text string) []string {
	matches := numberPattern.FindAllString(text, -1)
	claims := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimSpace(m)
		if m != "" {
			claims = append(claims, m)
		}
	}
	return claims
}

// CheckNumbers reports numeric claims in the generated text that do not
// appear verbatim in the evidence base: the inventory, the source
// documents, and the job description. The posting counts as evidence
// because prose legitimately echoes its numbers ("5 years of Go"). The
// generator is forbidden from interpolating or rounding numbers, so every
// number it emits should be findable here.
func CheckNumbers(generated string, inv types.FactInventory, docs []types.Document, jobDescription string) []Violation {
	evidence := evidenceText(inv, docs, jobDescription)

	var violations []Violation
	seen := make(map[string]bool)
	for _, claim := range NumericClaims(generated) {
		normalized := normalizeNumber(claim)
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		if !strings.Contains(evidence, normalized) {
			violations = append(violations, Violation{
				Type:    "unsupported_number",
				Claim:   claim,
				Details: fmt.Sprintf("number %q does not appear in the fact inventory or source documents", claim),
			})
		}
	}
	return violations
}

// CheckCredentials reports degree or certification names asserted in the
// text that are absent from the inventory's credentials list. It only
// fires when the inventory is non-empty; on the document-only fallback
// path there is no credential list to check against.
func CheckCredentials(generated string, inv types.FactInventory) []Violation {
	if inv.IsEmpty() {
		return nil
	}

	known := make(map[string]bool, len(inv.Credentials))
	for _, cred := range inv.Credentials {
		known[strings.ToLower(strings.TrimSpace(cred.Name))] = true
	}

	lower := strings.ToLower(generated)
	var violations []Violation
	for _, marker := range credentialMarkers {
		if !strings.Contains(lower, marker) {
			continue
		}
		if !anyCredentialMentioned(lower, known) {
			violations = append(violations, Violation{
				Type:    "unsupported_credential",
				Claim:   marker,
				Details: fmt.Sprintf("text asserts a credential (%q) but no inventory credential is mentioned", marker),
			})
		}
		break // one warning per document is enough
	}
	return violations
}

// credentialMarkers are phrasings that typically introduce a credential claim.
var credentialMarkers = []string{
	"certified in",
	"certification in",
	"holds a degree",
	"degree in",
	"ph.d",
	"phd in",
	"master's in",
	"bachelor's in",
}

func anyCredentialMentioned(lowerText string, known map[string]bool) bool {
	for name := range known {
		if name != "" && strings.Contains(lowerText, name) {
			return true
		}
	}
	return false
}

// evidenceText flattens the evidence base into one searchable string.
func evidenceText(inv types.FactInventory, docs []types.Document, jobDescription string) string {
	var sb strings.Builder

	for _, s := range inv.Skills {
		sb.WriteString(s.Context)
		sb.WriteString("\n")
	}
	for _, a := range inv.Achievements {
		sb.WriteString(a.Description)
		sb.WriteString("\n")
		sb.WriteString(a.Metrics)
		sb.WriteString("\n")
	}
	for _, doc := range docs {
		sb.WriteString(doc.Content)
		sb.WriteString("\n")
	}
	sb.WriteString(jobDescription)
	sb.WriteString("\n")
	// Thousands separators are stripped so "1,000" and "1000" compare equal.
	return strings.ReplaceAll(sb.String(), ",", "")
}

// normalizeNumber strips separators and trailing percent wording so "1,000"
// matches "1000" and "40 percent" matches "40%... " sources loosely.
func normalizeNumber(claim string) string {
	n := strings.TrimSpace(claim)
	n = strings.TrimSuffix(n, "percent")
	n = strings.TrimSuffix(n, "%")
	n = strings.ReplaceAll(n, ",", "")
	return strings.TrimSpace(n)
}
