// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/career-docs/internal/types"
	"github.com/jonathan/career-docs/internal/verify"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

// PrintInventory outputs a human-readable summary of the fact inventory.
func (p *Printer) PrintInventory(inv types.FactInventory) {
	if inv.IsEmpty() {
		p.printBox("FACT INVENTORY", "No facts extracted; generation will\nuse documents directly.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total facts: %d\n", inv.FactCount()))

	if len(inv.Skills) > 0 {
		sb.WriteString("\nSkills:\n")
		count := min(len(inv.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			s := inv.Skills[i]
			sb.WriteString(fmt.Sprintf("  • %s (%s)\n", truncate(s.Skill, 35), s.Confidence))
		}
		if len(inv.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(inv.Skills)-maxItemsToShow))
		}
	}

	if len(inv.Achievements) > 0 {
		sb.WriteString("\nAchievements:\n")
		count := min(len(inv.Achievements), 3)
		for i := 0; i < count; i++ {
			a := inv.Achievements[i]
			sb.WriteString(fmt.Sprintf("  • %s\n", truncate(a.Description, 48)))
			if a.Metrics != "" {
				sb.WriteString(fmt.Sprintf("    %s\n", truncate(a.Metrics, 46)))
			}
		}
		if len(inv.Achievements) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(inv.Achievements)-3))
		}
	}

	if len(inv.Credentials) > 0 {
		sb.WriteString("\nCredentials:\n")
		count := min(len(inv.Credentials), 3)
		for i := 0; i < count; i++ {
			c := inv.Credentials[i]
			sb.WriteString(fmt.Sprintf("  • %s (%s)\n", truncate(c.Name, 40), c.Type))
		}
		if len(inv.Credentials) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(inv.Credentials)-3))
		}
	}

	if len(inv.Companies) > 0 {
		companies := strings.Join(inv.Companies, ", ")
		sb.WriteString(fmt.Sprintf("\nCompanies: %s\n", truncate(companies, 42)))
	}

	p.printBox("FACT INVENTORY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintViolations outputs any claim warnings found in the generated text.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintViolations(violations []verify.Violation) {
	if len(violations) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO CLAIM WARNINGS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d warnings:\n\n", len(violations)))

	for i, v := range violations {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", v.Type))
		sb.WriteString(fmt.Sprintf("  %s\n", truncate(v.Details, 45)))
		if i < len(violations)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("CLAIM WARNINGS", sb.String())
}
