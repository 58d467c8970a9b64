// Package cli builds the cobra command tree for sbdoctor.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/simplibiz/sbdoctor/internal/adapters/supabase"
	"github.com/simplibiz/sbdoctor/internal/app"
	"github.com/simplibiz/sbdoctor/internal/config"
	"github.com/simplibiz/sbdoctor/internal/ports/primary"
	"github.com/simplibiz/sbdoctor/internal/version"
)

// RootCmd builds the sbdoctor root command. Running it bare performs a
// check; remediation requires the explicit fix subcommand.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sbdoctor",
		Short:   "Audit and repair the SimpliBiz Supabase backend configuration",
		Version: version.String(),
		Long: `sbdoctor audits the SimpliBiz Supabase backend and can repair what it finds:
the products table schema, its row-level security policies, and the
product-images storage bucket with its policies.

Credentials come from REACT_APP_SUPABASE_URL and REACT_APP_SUPABASE_ANON_KEY,
optionally via a .env file in the current directory. SQL runs through a
server-side exec_sql(query text) RPC, which the deployment must expose with
sufficient privilege for DDL and policy changes.

Examples:
  sbdoctor check          # Report issues without changing anything
  sbdoctor fix            # Report issues, then apply the suggested remedies`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, false)
		},
	}

	cmd.PersistentFlags().Duration("timeout", config.DefaultTimeout, "HTTP timeout for backend calls")

	cmd.AddCommand(CheckCmd())
	cmd.AddCommand(FixCmd())

	return cmd
}

// buildServices loads credentials and wires the audit and fix services onto
// one backend client. Called from RunE so that usage errors never touch the
// network.
func buildServices(cmd *cobra.Command) (primary.AuditService, primary.FixService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout <= 0 {
		timeout = cfg.Timeout
	}

	backend := supabase.NewClient(cfg.SupabaseURL, cfg.AnonKey, timeout)
	return app.NewAuditService(backend), app.NewFixService(backend), nil
}
