// Package types provides type definitions for structured data used throughout the career-docs system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Confidence ranks how strongly a skill is evidenced in the source text.
type Confidence string

const (
	// ConfidenceExplicit means the skill is directly stated in the source.
	ConfidenceExplicit Confidence = "explicit"
	// ConfidenceDemonstrated means the skill is shown through described work.
	ConfidenceDemonstrated Confidence = "demonstrated"
	// ConfidenceMentioned means the skill is referenced without elaboration.
	// This is the most conservative tier and the default for anything unclear.
	ConfidenceMentioned Confidence = "mentioned"
)

// CredentialType classifies a credential claim.
type CredentialType string

const (
	// CredentialDegree is an academic degree.
	CredentialDegree CredentialType = "degree"
	// CredentialCertification is a professional certification.
	CredentialCertification CredentialType = "certification"
	// CredentialTitle is a job title or role. This is the weakest claim class
	// and the default for anything unclear.
	CredentialTitle CredentialType = "title"
)

// ExtractedSkill is a single skill claim with its evidentiary context.
type ExtractedSkill struct {
	Skill      string     `json:"skill"`
	Source     string     `json:"source"`
	Context    string     `json:"context"`
	Confidence Confidence `json:"confidence"`
}

// ExtractedAchievement is a concrete accomplishment claim. Metrics is present
// only when the source supplied a non-empty value; it is never synthesized.
type ExtractedAchievement struct {
	Description string `json:"description"`
	Metrics     string `json:"metrics,omitempty"`
	Source      string `json:"source"`
}

// ExtractedCredential is a degree, certification, or title claim.
type ExtractedCredential struct {
	Type   CredentialType `json:"type"`
	Name   string         `json:"name"`
	Source string         `json:"source"`
}

// FactInventory is the sanitized record of every claim the system is
// permitted to assert about a candidate. It is the single source of truth
// for downstream generation: prose must not claim anything not traceable
// to an entry here (or, when the inventory is empty, to the raw documents).
type FactInventory struct {
	Skills       []ExtractedSkill       `json:"skills"`
	Achievements []ExtractedAchievement `json:"achievements"`
	Credentials  []ExtractedCredential  `json:"credentials"`
	Companies    []string               `json:"companies"`
}

// EmptyInventory returns the canonical empty inventory: all four fields are
// empty non-nil slices, so downstream code and JSON output stay unconditional.
func EmptyInventory() FactInventory {
	return FactInventory{
		Skills:       []ExtractedSkill{},
		Achievements: []ExtractedAchievement{},
		Credentials:  []ExtractedCredential{},
		Companies:    []string{},
	}
}

// IsEmpty reports whether the inventory contains no facts at all.
func (inv FactInventory) IsEmpty() bool {
	return len(inv.Skills) == 0 &&
		len(inv.Achievements) == 0 &&
		len(inv.Credentials) == 0 &&
		len(inv.Companies) == 0
}

// FactCount returns the total number of entries across all four lists.
func (inv FactInventory) FactCount() int {
	return len(inv.Skills) + len(inv.Achievements) + len(inv.Credentials) + len(inv.Companies)
}

// ValidConfidence reports whether c is one of the three closed-set tiers.
func ValidConfidence(c Confidence) bool {
	switch c {
	case ConfidenceExplicit, ConfidenceDemonstrated, ConfidenceMentioned:
		return true
	}
	return false
}

// ValidCredentialType reports whether t is one of the closed-set classes.
func ValidCredentialType(t CredentialType) bool {
	switch t {
	case CredentialDegree, CredentialCertification, CredentialTitle:
		return true
	}
	return false
}
