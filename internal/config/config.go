// Package config loads the Supabase credentials the doctor runs with.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables carrying the backend credentials. The names match
// the SimpliBiz frontend build so both can share one .env file.
const (
	EnvSupabaseURL = "REACT_APP_SUPABASE_URL"
	EnvAnonKey     = "REACT_APP_SUPABASE_ANON_KEY"
)

// DefaultTimeout is the default per-request HTTP timeout.
const DefaultTimeout = 30 * time.Second

// Config holds everything needed to reach the backend.
type Config struct {
	SupabaseURL string
	AnonKey     string
	Timeout     time.Duration
}

// Load reads credentials from the environment, after merging a .env file
// from the current directory if one exists. Values already present in the
// process environment take precedence over the dotfile.
func Load() (*Config, error) {
	// Missing .env is fine; the environment alone may be complete.
	_ = godotenv.Load()

	url := strings.TrimSpace(os.Getenv(EnvSupabaseURL))
	key := strings.TrimSpace(os.Getenv(EnvAnonKey))
	if url == "" || key == "" {
		return nil, fmt.Errorf("Supabase environment variables not found: set %s and %s (or provide them in a .env file)",
			EnvSupabaseURL, EnvAnonKey)
	}

	return &Config{
		SupabaseURL: url,
		AnonKey:     key,
		Timeout:     DefaultTimeout,
	}, nil
}
