package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/studybuddy/studybuddy/internal/authtoken"
	"github.com/studybuddy/studybuddy/internal/studyapi"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the backend access token",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store an access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := promptCredentials(cmd)
		if err != nil {
			return err
		}
		api, err := newAPIClient()
		if err != nil {
			return err
		}
		token, err := api.Login(cmd.Context(), creds)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		fmt.Println("Signed in.")
		return storeToken(token)
	},
}

var authSignupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and store its access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := promptCredentials(cmd)
		if err != nil {
			return err
		}
		api, err := newAPIClient()
		if err != nil {
			return err
		}
		token, err := api.Signup(cmd.Context(), creds)
		if err != nil {
			return fmt.Errorf("signup: %w", err)
		}
		fmt.Println("Account created.")
		return storeToken(token)
	},
}

var authSetTokenCmd = &cobra.Command{
	Use:   "set-token [token]",
	Short: "Store an access token directly",
	Long:  "Store an access token obtained elsewhere. With no argument the token is read from stdin, which keeps it out of shell history.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var token string
		if len(args) == 1 {
			token = args[0]
		} else {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read token: %w", err)
			}
			token = string(data)
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return fmt.Errorf("no token given")
		}

		if info, err := authtoken.Inspect(token); err != nil {
			fmt.Println("Warning: token does not decode as a JWT; storing it anyway.")
		} else if info.Expired(time.Now()) {
			fmt.Println("Warning: token is already expired.")
		}
		return storeToken(token)
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored token's identity and expiry",
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		cfg, err := studyapi.ConfigFromEnv()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		token, err := authtoken.Resolve(cfg.Token, cfg.TokenFile)
		if err != nil {
			return err
		}
		if token == "" {
			fmt.Println("Not signed in. Run: studybuddy auth login")
			return nil
		}

		info, err := authtoken.Inspect(token)
		if err != nil {
			return err
		}

		if info.Subject != "" {
			fmt.Printf("Signed in as:  %s\n", info.Subject)
		}
		if info.Issuer != "" {
			fmt.Printf("Issued by:     %s\n", info.Issuer)
		}
		if !info.IssuedAt.IsZero() {
			fmt.Printf("Issued:        %s\n", info.IssuedAt.Local().Format("2006-01-02 15:04"))
		}
		switch {
		case info.ExpiresAt.IsZero():
			fmt.Println("Expires:       never")
		case info.Expired(time.Now()):
			fmt.Printf("Expires:       %s (EXPIRED, sign in again)\n",
				info.ExpiresAt.Local().Format("2006-01-02 15:04"))
		default:
			fmt.Printf("Expires:       %s\n", info.ExpiresAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Delete the stored access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := tokenPath()
		if err != nil {
			return err
		}
		if err := authtoken.Clear(path); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

// promptCredentials collects email and password, preferring the --email
// flag and prompting for the rest.
func promptCredentials(cmd *cobra.Command) (studyapi.Credentials, error) {
	email, _ := cmd.Flags().GetString("email")
	scanner := bufio.NewScanner(os.Stdin)

	if email == "" {
		fmt.Print("Email: ")
		if !scanner.Scan() {
			return studyapi.Credentials{}, fmt.Errorf("input closed")
		}
		email = strings.TrimSpace(scanner.Text())
	}
	if email == "" {
		return studyapi.Credentials{}, fmt.Errorf("email is required")
	}

	password, err := readPassword(scanner)
	if err != nil {
		return studyapi.Credentials{}, err
	}
	if password == "" {
		return studyapi.Credentials{}, fmt.Errorf("password is required")
	}

	return studyapi.Credentials{Email: email, Password: password}, nil
}

// readPassword reads a password without echo when stdin is a terminal and
// falls back to a plain line read when it is not (piped input, tests).
func readPassword(scanner *bufio.Scanner) (string, error) {
	fmt.Print("Password: ")
	if fd := os.Stdin.Fd(); term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	if !scanner.Scan() {
		return "", fmt.Errorf("input closed")
	}
	return strings.TrimSpace(scanner.Text()), nil
}

// tokenPath is where auth subcommands write and clear the token, honoring
// STUDYBUDDY_TOKEN_FILE.
func tokenPath() (string, error) {
	_ = godotenv.Load()
	if p := os.Getenv("STUDYBUDDY_TOKEN_FILE"); p != "" {
		return p, nil
	}
	return authtoken.DefaultPath()
}

func storeToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := authtoken.Save(path, token); err != nil {
		return err
	}
	fmt.Println("Token stored at", path)
	return nil
}

func init() {
	authLoginCmd.Flags().String("email", "", "Account email (prompted when omitted)")
	authSignupCmd.Flags().String("email", "", "Account email (prompted when omitted)")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authSignupCmd)
	authCmd.AddCommand(authSetTokenCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
}
