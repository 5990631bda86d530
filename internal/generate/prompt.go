// Package generate builds claim-constrained prompts and runs the streamed
// generation call that produces the final prose artifact.
package generate

import (
	"fmt"
	"strings"

	"github.com/jonathan/career-docs/internal/facts"
	"github.com/jonathan/career-docs/internal/prompts"
	"github.com/jonathan/career-docs/internal/types"
)

// DocKind selects which prose artifact is produced. The claim rules are
// identical for every kind; only the style template differs.
type DocKind string

// Supported document kinds
const (
	KindCoverLetter      DocKind = "cover_letter"
	KindExecutiveSummary DocKind = "executive_summary"
	KindInterviewPrep    DocKind = "interview_prep"
)

// Language selects the output language. It affects prompt instructions
// only; the inventory contract is language-independent.
type Language string

// Supported output languages
const (
	LanguageEnglish Language = "en"
	LanguageDanish  Language = "da"
)

// Input carries everything the generator needs for one request.
type Input struct {
	Kind               DocKind `validate:"required,oneof=cover_letter executive_summary interview_prep"`
	Profile            types.Profile
	Documents          []types.Document
	Inventory          types.FactInventory
	JobTitle           string   `validate:"required"`
	JobDescription     string   `validate:"required"`
	Language           Language `validate:"required,oneof=en da"`
	CustomInstructions string
}

// Normalize fills defaulted fields in place.
func (in *Input) Normalize() {
	if in.Kind == "" {
		in.Kind = KindCoverLetter
	}
	if in.Language == "" {
		in.Language = LanguageEnglish
	}
	in.JobTitle = strings.TrimSpace(in.JobTitle)
	in.JobDescription = strings.TrimSpace(in.JobDescription)
}

// artifactName is the human name of each kind, used in the prompt's final
// instruction.
func (k DocKind) artifactName() string {
	switch k {
	case KindExecutiveSummary:
		return "executive summary"
	case KindInterviewPrep:
		return "interview preparation brief"
	default:
		return "cover letter"
	}
}

// systemKey maps a kind to its generation.json style template.
func (k DocKind) systemKey() string {
	switch k {
	case KindExecutiveSummary:
		return "executive-summary-system"
	case KindInterviewPrep:
		return "interview-prep-system"
	default:
		return "cover-letter-system"
	}
}

// documentBuckets groups candidate documents for prompt structuring.
type documentBuckets struct {
	Resume      []types.Document
	Experience  []types.Document
	Transcripts []types.Document
}

func bucketDocuments(docs []types.Document) documentBuckets {
	var b documentBuckets
	for _, doc := range docs {
		if strings.TrimSpace(doc.Content) == "" {
			continue
		}
		switch doc.Type {
		case types.DocumentCV:
			b.Resume = append(b.Resume, doc)
		case types.DocumentExperience:
			b.Experience = append(b.Experience, doc)
		default:
			b.Transcripts = append(b.Transcripts, doc)
		}
	}
	return b
}

// BuildPrompt constructs the system instruction and user prompt for one
// generation request. The system instruction combines the kind's style
// template with the non-negotiable claim rules; custom instructions go into
// the user prompt's style section, where the claim rules explicitly take
// precedence over them.
func BuildPrompt(in Input) (system, user string) {
	system = prompts.Generation.MustGet(in.Kind.systemKey()) +
		"\n\n" + prompts.Generation.MustGet("claim-rules")

	user = prompts.Format(prompts.Generation.MustGet("user"), map[string]string{
		"JobTitle":       in.JobTitle,
		"JobDescription": in.JobDescription,
		"FactSection":    factSection(in.Inventory),
		"Documents":      documentSection(in.Profile, in.Documents),
		"Style":          styleSection(in),
		"Artifact":       in.Kind.artifactName(),
	})
	return system, user
}

// factSection embeds the inventory, or frames the document-only fallback
// when extraction produced nothing.
func factSection(inv types.FactInventory) string {
	if inv.IsEmpty() {
		return prompts.Generation.MustGet("fallback-preamble")
	}
	return prompts.Generation.MustGet("inventory-preamble") +
		"\n" + facts.FormatInventory(inv)
}

func documentSection(profile types.Profile, docs []types.Document) string {
	var sb strings.Builder

	if name := strings.TrimSpace(profile.Name); name != "" {
		fmt.Fprintf(&sb, "Candidate: %s\n", name)
	}
	if summary := strings.TrimSpace(profile.Summary); summary != "" {
		fmt.Fprintf(&sb, "\n## PROFILE SUMMARY\n%s\n", summary)
	}

	buckets := bucketDocuments(docs)
	writeBucket(&sb, "RESUME", buckets.Resume)
	writeBucket(&sb, "SUPPORTING EXPERIENCE", buckets.Experience)
	writeBucket(&sb, "INTERVIEW TRANSCRIPTS & OTHER MATERIALS", buckets.Transcripts)

	if sb.Len() == 0 {
		return "(no documents provided)"
	}
	return strings.TrimSpace(sb.String())
}

func writeBucket(sb *strings.Builder, heading string, docs []types.Document) {
	if len(docs) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n## %s\n", heading)
	for _, doc := range docs {
		fmt.Fprintf(sb, "\n[%s]\n%s\n", doc.Name, strings.TrimSpace(doc.Content))
	}
}

// styleSection carries the language instruction and any user-supplied
// custom instructions. Custom instructions may override style guidance but
// sit below the claim rules, which the system instruction marks as
// overriding everything else.
func styleSection(in Input) string {
	var parts []string

	switch in.Language {
	case LanguageDanish:
		parts = append(parts, prompts.Generation.MustGet("language-da"))
	default:
		parts = append(parts, prompts.Generation.MustGet("language-en"))
	}

	if custom := strings.TrimSpace(in.CustomInstructions); custom != "" {
		parts = append(parts, "Additional instructions from the candidate (style only; the claim rules above always win on conflict):\n"+custom)
	}

	return strings.Join(parts, "\n\n")
}
