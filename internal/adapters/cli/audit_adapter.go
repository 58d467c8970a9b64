// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// all audit and fix logic to services.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/simplibiz/sbdoctor/internal/ports/primary"
)

// ModeCheck and ModeFix label the two run modes on rendered reports.
const (
	ModeCheck = "check"
	ModeFix   = "fix"
)

// AuditAdapter renders audit reports and fix outcomes.
type AuditAdapter struct {
	out io.Writer
}

// NewAuditAdapter creates a new AuditAdapter writing to the given output.
func NewAuditAdapter(out io.Writer) *AuditAdapter {
	return &AuditAdapter{out: out}
}

// RenderReport prints the banner, per-probe progress lines, and the summary.
func (a *AuditAdapter) RenderReport(report *primary.Report) {
	fmt.Fprintln(a.out, "=== SimpliBiz Supabase Configuration Validator ===")
	fmt.Fprintf(a.out, "Mode: %s\n\n", strings.ToUpper(report.Mode))

	for _, pr := range report.Probes {
		glyph := color.New(color.FgGreen).Sprint("✓")
		if probeErrored(pr) {
			glyph = color.New(color.FgRed).Sprint("✗")
		}
		fmt.Fprintf(a.out, "%s %s check complete. Found %d issue(s).\n", glyph, pr.Probe, len(pr.Issues))
	}

	fmt.Fprintln(a.out, "\n=== Summary ===")
	fmt.Fprintf(a.out, "Total issues found: %d\n", len(report.Issues))

	if len(report.Issues) == 0 {
		fmt.Fprintln(a.out, "\nYour Supabase configuration looks good! No issues found.")
		return
	}

	fmt.Fprintln(a.out, "\nIssues found:")
	for i, issue := range report.Issues {
		fmt.Fprintf(a.out, "%d. %s\n", i+1, issue.Description)
	}

	if report.Mode == ModeCheck {
		fmt.Fprintln(a.out, "\nTo fix these issues, run: sbdoctor fix")
	}
}

// RenderFixResults prints one line per remediation attempt.
func (a *AuditAdapter) RenderFixResults(results []primary.FixResult) {
	if len(results) == 0 {
		fmt.Fprintln(a.out, "No issues to fix!")
		return
	}

	fmt.Fprintln(a.out, "\nApplying fixes...")
	for _, r := range results {
		switch {
		case r.Skipped:
			fmt.Fprintf(a.out, "%s Skipped (no automatic remedy): %s\n",
				color.New(color.FgYellow).Sprint("-"), r.Issue.Description)
		case r.Err != nil:
			fmt.Fprintf(a.out, "%s Failed to fix: %s - %v\n",
				color.New(color.FgRed).Sprint("✗"), r.Issue.Description, r.Err)
		default:
			fmt.Fprintf(a.out, "%s Fixed: %s\n",
				color.New(color.FgGreen).Sprint("✓"), r.Issue.Description)
		}
	}

	fmt.Fprintln(a.out, "\nAll fixes attempted. Re-run 'sbdoctor check' to verify.")
}

// RenderJSON emits the report as indented JSON for machine consumption.
func (a *AuditAdapter) RenderJSON(report *primary.Report) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func probeErrored(pr primary.ProbeResult) bool {
	for _, issue := range pr.Issues {
		if issue.Kind == primary.IssueError {
			return true
		}
	}
	return false
}
