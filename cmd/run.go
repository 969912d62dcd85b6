package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/studybuddy/studybuddy/internal/app"
	"github.com/studybuddy/studybuddy/internal/authtoken"
	"github.com/studybuddy/studybuddy/internal/studyapi"
)

// runApp builds the backend client, opens the attempt history, and
// launches the TUI.
func runApp(cmd *cobra.Command) error {
	_ = godotenv.Load()

	cfg, err := studyapi.ConfigFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	token, err := authtoken.Resolve(cfg.Token, cfg.TokenFile)
	if err != nil {
		return fmt.Errorf("resolve token: %w", err)
	}
	if token == "" {
		fmt.Fprintln(os.Stderr, "No access token stored; the backend will reject requests.")
		fmt.Fprintln(os.Stderr, "Sign in with: studybuddy auth login")
	}

	opts := app.Options{
		API: studyapi.New(cfg, token),
	}

	st, err := openStore(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "History database unavailable:", err)
		fmt.Fprintln(os.Stderr, "Quiz attempts will not be recorded.")
	} else {
		defer st.Close()
		opts.Attempts = st.AttemptRepo()
	}

	return app.Run(opts)
}

// newAPIClient builds a backend client from the environment, including the
// stored token if any.
func newAPIClient() (*studyapi.Client, error) {
	_ = godotenv.Load()

	cfg, err := studyapi.ConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	token, err := authtoken.Resolve(cfg.Token, cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("resolve token: %w", err)
	}
	return studyapi.New(cfg, token), nil
}
