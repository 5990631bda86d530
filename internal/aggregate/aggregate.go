// Package aggregate assembles candidate source material into a single
// labeled corpus for fact extraction.
package aggregate

import (
	"fmt"
	"strings"

	"github.com/jonathan/career-docs/internal/types"
)

// ProfileSummaryLabel is the fixed header under which the profile summary
// appears in the corpus.
const ProfileSummaryLabel = "PROFILE SUMMARY"

// BuildCorpus concatenates the profile summary and documents into one text
// blob, each non-empty source demarcated by a header naming it. Sources that
// are empty or whitespace-only are skipped entirely. The result is "" when
// nothing survives filtering; callers must then short-circuit to the empty
// inventory and never invoke extraction. Pure function, no side effects.
func BuildCorpus(profile types.Profile, docs []types.Document) string {
	var sb strings.Builder

	if summary := strings.TrimSpace(profile.Summary); summary != "" {
		writeSection(&sb, ProfileSummaryLabel, summary)
	}

	for _, doc := range docs {
		content := strings.TrimSpace(doc.Content)
		if content == "" {
			continue
		}
		label := fmt.Sprintf("DOCUMENT: %s (%s)", strings.TrimSpace(doc.Name), doc.Type)
		writeSection(&sb, label, content)
	}

	return strings.TrimSpace(sb.String())
}

func writeSection(sb *strings.Builder, label, content string) {
	if sb.Len() > 0 {
		sb.WriteString("\n\n")
	}
	sb.WriteString("=== ")
	sb.WriteString(label)
	sb.WriteString(" ===\n")
	sb.WriteString(content)
}
