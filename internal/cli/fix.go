package cli

import (
	"github.com/spf13/cobra"

	cliadapter "github.com/simplibiz/sbdoctor/internal/adapters/cli"
)

// FixCmd returns the fix command: audit, then remediate every repairable
// issue in discovery order. Remediation failures are reported per issue and
// never abort the pass; the exit code stays zero so re-runs are scriptable.
func FixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fix",
		Short: "Audit the backend configuration and apply the suggested remedies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			audit, fixer, err := buildServices(cmd)
			if err != nil {
				return err
			}

			report := audit.RunAudit(cmd.Context())
			report.Mode = cliadapter.ModeFix

			adapter := cliadapter.NewAuditAdapter(cmd.OutOrStdout())
			adapter.RenderReport(report)

			results := fixer.Apply(cmd.Context(), report.Issues)
			adapter.RenderFixResults(results)
			return nil
		},
	}
}
