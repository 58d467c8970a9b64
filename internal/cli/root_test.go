package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/simplibiz/sbdoctor/internal/config"
)

// chdir stands in for t.Chdir, which needs Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(prev) })
}

// clearCredentials guarantees no credentials leak in from the test
// environment or a stray .env file.
func clearCredentials(t *testing.T) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv(config.EnvSupabaseURL, "")
	t.Setenv(config.EnvAnonKey, "")
	os.Unsetenv(config.EnvSupabaseURL)
	os.Unsetenv(config.EnvAnonKey)
}

func TestUnknownModeIsUsageError(t *testing.T) {
	clearCredentials(t)

	cmd := RootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"verify"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected a usage error for an unknown mode")
	}
	if !strings.Contains(err.Error(), "verify") {
		t.Errorf("error %q should name the rejected argument", err)
	}
}

func TestBareInvocationDefaultsToCheck(t *testing.T) {
	clearCredentials(t)

	cmd := RootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})

	// With no credentials the default check must fail at startup, before
	// any backend call.
	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected a startup error without credentials")
	}
	if !strings.Contains(err.Error(), config.EnvSupabaseURL) {
		t.Errorf("error %q should point at the missing credentials", err)
	}
}

func TestCheckWithoutCredentialsFails(t *testing.T) {
	clearCredentials(t)

	for _, mode := range []string{"check", "fix"} {
		t.Run(mode, func(t *testing.T) {
			cmd := RootCmd()
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&out)
			cmd.SetArgs([]string{mode})

			if err := cmd.Execute(); err == nil {
				t.Fatal("expected a startup error without credentials")
			}
		})
	}
}
