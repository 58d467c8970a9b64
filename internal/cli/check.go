package cli

import (
	"github.com/spf13/cobra"

	cliadapter "github.com/simplibiz/sbdoctor/internal/adapters/cli"
)

// CheckCmd returns the check command: audit only, no state changes.
func CheckCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Audit the backend configuration without changing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, jsonOut)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the report as JSON instead of the human format")

	return cmd
}

func runCheck(cmd *cobra.Command, jsonOut bool) error {
	audit, _, err := buildServices(cmd)
	if err != nil {
		return err
	}

	report := audit.RunAudit(cmd.Context())
	report.Mode = cliadapter.ModeCheck

	adapter := cliadapter.NewAuditAdapter(cmd.OutOrStdout())
	if jsonOut {
		return adapter.RenderJSON(report)
	}
	adapter.RenderReport(report)
	return nil
}
