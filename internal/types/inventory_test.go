package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyInventory(t *testing.T) {
	inv := EmptyInventory()

	assert.NotNil(t, inv.Skills)
	assert.NotNil(t, inv.Achievements)
	assert.NotNil(t, inv.Credentials)
	assert.NotNil(t, inv.Companies)
	assert.True(t, inv.IsEmpty())
	assert.Equal(t, 0, inv.FactCount())
}

func TestFactCount(t *testing.T) {
	inv := FactInventory{
		Skills:       []ExtractedSkill{{Skill: "Go", Source: "cv.txt", Confidence: ConfidenceExplicit}},
		Achievements: []ExtractedAchievement{{Description: "Cut latency", Source: "cv.txt"}},
		Companies:    []string{"Acme", "Initech"},
	}

	assert.False(t, inv.IsEmpty())
	assert.Equal(t, 4, inv.FactCount())
}

func TestValidConfidence(t *testing.T) {
	assert.True(t, ValidConfidence(ConfidenceExplicit))
	assert.True(t, ValidConfidence(ConfidenceDemonstrated))
	assert.True(t, ValidConfidence(ConfidenceMentioned))
	assert.False(t, ValidConfidence("certain"))
	assert.False(t, ValidConfidence(""))
}

func TestValidCredentialType(t *testing.T) {
	assert.True(t, ValidCredentialType(CredentialDegree))
	assert.True(t, ValidCredentialType(CredentialCertification))
	assert.True(t, ValidCredentialType(CredentialTitle))
	assert.False(t, ValidCredentialType("award"))
}

func TestParseDocumentType(t *testing.T) {
	assert.Equal(t, DocumentCV, ParseDocumentType("cv"))
	assert.Equal(t, DocumentCV, ParseDocumentType(" CV "))
	assert.Equal(t, DocumentExperience, ParseDocumentType("experience"))
	assert.Equal(t, DocumentOther, ParseDocumentType("other"))
	assert.Equal(t, DocumentOther, ParseDocumentType("resume"))
	assert.Equal(t, DocumentOther, ParseDocumentType(""))
}
