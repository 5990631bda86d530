package facts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-docs/internal/types"
)

func TestSanitize_WellFormedOutput(t *testing.T) {
	raw := `{
		"skills": [
			{"skill": "Docker", "source": "resume.pdf", "context": "Built and deployed 3 microservices using Docker containers", "confidence": "demonstrated"}
		],
		"achievements": [
			{"description": "Deployed 3 microservices", "metrics": "3 microservices", "source": "resume.pdf"}
		],
		"credentials": [
			{"type": "degree", "name": "BSc Computer Science", "source": "resume.pdf"}
		],
		"companies": ["Acme Corp"]
	}`

	inv := Sanitize(raw)

	require.Len(t, inv.Skills, 1)
	assert.Equal(t, "Docker", inv.Skills[0].Skill)
	assert.Equal(t, "resume.pdf", inv.Skills[0].Source)
	assert.Equal(t, types.ConfidenceDemonstrated, inv.Skills[0].Confidence)

	require.Len(t, inv.Achievements, 1)
	assert.Equal(t, "3 microservices", inv.Achievements[0].Metrics)

	require.Len(t, inv.Credentials, 1)
	assert.Equal(t, types.CredentialDegree, inv.Credentials[0].Type)

	assert.Equal(t, []string{"Acme Corp"}, inv.Companies)
}

func TestSanitize_Totality(t *testing.T) {
	// No input may make Sanitize panic or return an invalid structure.
	inputs := []string{
		"",
		"   \n\t ",
		"I cannot help with that.",
		"null",
		"true",
		"42",
		`"just a string"`,
		`["an", "array"]`,
		`{"skills": "not an array"}`,
		`{"skills": {"skill": "not wrapped in an array"}}`,
		`{"skills": [{"skill":`,
		"```json\n{truncated",
		"```json\n```json\n{\"skills\": []}\n```\n```",
		`{"unexpected": {"deeply": ["nested", {"junk": null}]}}`,
		strings.Repeat("{", 1000),
		"\x00\xff garbage bytes",
	}

	for _, input := range inputs {
		inv := Sanitize(input)
		assert.NotNil(t, inv.Skills, "input %q", input)
		assert.NotNil(t, inv.Achievements, "input %q", input)
		assert.NotNil(t, inv.Credentials, "input %q", input)
		assert.NotNil(t, inv.Companies, "input %q", input)
	}
}

func TestSanitize_RefusalYieldsEmptyInventory(t *testing.T) {
	inv := Sanitize("I cannot help with that.")
	assert.True(t, inv.IsEmpty())
	assert.Equal(t, types.EmptyInventory(), inv)
}

func TestSanitize_FenceStripping(t *testing.T) {
	raw := "```json\n{\"skills\": [{\"skill\": \"Go\", \"source\": \"cv.txt\", \"confidence\": \"explicit\"}], \"achievements\": [], \"credentials\": [], \"companies\": []}\n```"

	inv := Sanitize(raw)

	require.Len(t, inv.Skills, 1)
	assert.Equal(t, "Go", inv.Skills[0].Skill)
}

func TestSanitize_ConservativeConfidenceDefault(t *testing.T) {
	tests := []struct {
		name       string
		confidence string
		want       types.Confidence
	}{
		{"bogus value", `"confidence": "bogus"`, types.ConfidenceMentioned},
		{"missing", `"irrelevant": 1`, types.ConfidenceMentioned},
		{"wrong type", `"confidence": 3`, types.ConfidenceMentioned},
		{"case and padding normalized", `"confidence": " Explicit "`, types.ConfidenceExplicit},
		{"valid demonstrated", `"confidence": "demonstrated"`, types.ConfidenceDemonstrated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"skills": [{"skill": "Go", ` + tt.confidence + `}]}`
			inv := Sanitize(raw)
			require.Len(t, inv.Skills, 1)
			assert.Equal(t, tt.want, inv.Skills[0].Confidence)
		})
	}
}

func TestSanitize_ConservativeCredentialTypeDefault(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    types.CredentialType
	}{
		{"missing type", `{"name": "AWS Solutions Architect"}`, types.CredentialTitle},
		{"bogus type", `{"name": "AWS Solutions Architect", "type": "diploma"}`, types.CredentialTitle},
		{"never upgraded to degree", `{"name": "Staff Engineer", "type": ""}`, types.CredentialTitle},
		{"valid certification", `{"name": "AWS Solutions Architect", "type": "certification"}`, types.CredentialCertification},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Sanitize(`{"credentials": [` + tt.payload + `]}`)
			require.Len(t, inv.Credentials, 1)
			assert.Equal(t, tt.want, inv.Credentials[0].Type)
		})
	}
}

func TestSanitize_DropsElementsMissingMandatoryFields(t *testing.T) {
	raw := `{
		"skills": [
			{"source": "cv.txt", "confidence": "explicit"},
			{"skill": 42},
			{"skill": "  "},
			"not a record",
			{"skill": "Kubernetes"}
		],
		"achievements": [
			{"metrics": "40%"},
			{"description": 7},
			{"description": "Shipped the payments migration"}
		],
		"credentials": [
			{"type": "degree"},
			{"name": "MSc", "type": "degree"}
		]
	}`

	inv := Sanitize(raw)

	require.Len(t, inv.Skills, 1)
	assert.Equal(t, "Kubernetes", inv.Skills[0].Skill)

	require.Len(t, inv.Achievements, 1)
	assert.Equal(t, "Shipped the payments migration", inv.Achievements[0].Description)

	require.Len(t, inv.Credentials, 1)
	assert.Equal(t, "MSc", inv.Credentials[0].Name)
}

func TestSanitize_MetricsOmittedWhenAbsentOrEmpty(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"absent", `{"description": "Led migration"}`},
		{"empty string", `{"description": "Led migration", "metrics": ""}`},
		{"whitespace only", `{"description": "Led migration", "metrics": "  "}`},
		{"wrong type", `{"description": "Led migration", "metrics": 40}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Sanitize(`{"achievements": [` + tt.payload + `]}`)
			require.Len(t, inv.Achievements, 1)
			assert.Empty(t, inv.Achievements[0].Metrics)

			// The serialized form must carry no metrics key at all.
			assert.NotContains(t, FormatInventory(inv), `"metrics"`)
		})
	}
}

func TestSanitize_SourceDefaultsToPlaceholder(t *testing.T) {
	inv := Sanitize(`{"skills": [{"skill": "Go"}], "achievements": [{"description": "Shipped it", "source": "  "}]}`)

	require.Len(t, inv.Skills, 1)
	assert.Equal(t, UnknownSource, inv.Skills[0].Source)
	require.Len(t, inv.Achievements, 1)
	assert.Equal(t, UnknownSource, inv.Achievements[0].Source)
}

func TestSanitize_Companies(t *testing.T) {
	raw := `{"companies": ["  Acme Corp ", "", "   ", 42, null, "Initech", "Acme Corp"]}`

	inv := Sanitize(raw)

	// Trimmed, non-strings and blanks dropped, order preserved, duplicates allowed.
	assert.Equal(t, []string{"Acme Corp", "Initech", "Acme Corp"}, inv.Companies)
}

func TestSanitize_WrongContainerTypesTreatedAsAbsent(t *testing.T) {
	raw := `{
		"skills": {"skill": "Go"},
		"achievements": "none",
		"credentials": 3,
		"companies": {"name": "Acme"}
	}`

	inv := Sanitize(raw)
	assert.True(t, inv.IsEmpty())
}

func TestSanitize_IdempotentThroughFormatter(t *testing.T) {
	raw := `{
		"skills": [
			{"skill": "Docker", "source": "resume.pdf", "context": "deployed containers", "confidence": "demonstrated"},
			{"skill": "Go", "confidence": "weird"}
		],
		"achievements": [
			{"description": "Cut deploy time", "metrics": "from 40m to 5m", "source": "resume.pdf"},
			{"description": "Mentored juniors"}
		],
		"credentials": [{"name": "BSc", "type": "degree"}],
		"companies": ["Acme Corp", "Acme Corp"]
	}`

	first := Sanitize(raw)
	second := Sanitize(FormatInventory(first))

	assert.Equal(t, first, second)
}

func TestSanitize_EndToEndScenario(t *testing.T) {
	// The extraction output expected for a document reading
	// "Built and deployed 3 microservices using Docker containers at Acme Corp".
	raw := `{
		"skills": [{"skill": "Docker", "source": "experience.txt", "context": "Built and deployed 3 microservices using Docker containers", "confidence": "demonstrated"}],
		"achievements": [{"description": "Built and deployed 3 microservices", "metrics": "3 microservices", "source": "experience.txt"}],
		"credentials": [],
		"companies": ["Acme Corp"]
	}`

	inv := Sanitize(raw)

	require.Len(t, inv.Skills, 1)
	assert.Equal(t, "Docker", inv.Skills[0].Skill)
	assert.Equal(t, "experience.txt", inv.Skills[0].Source)
	assert.Contains(t, []types.Confidence{types.ConfidenceDemonstrated, types.ConfidenceExplicit}, inv.Skills[0].Confidence)
	assert.Equal(t, []string{"Acme Corp"}, inv.Companies)

	// No invented metric anywhere in the inventory.
	assert.NotContains(t, FormatInventory(inv), "40%")
}
