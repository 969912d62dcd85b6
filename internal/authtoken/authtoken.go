// Package authtoken stores and inspects the bearer token used against
// the StudyBuddy backend. The token is issued by the backend on login
// and kept in a plain file so every command can pick it up.
package authtoken

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolve returns the bearer token in priority order:
// 1. the token value itself (STUDYBUDDY_TOKEN)
// 2. the file at tokenFile (STUDYBUDDY_TOKEN_FILE)
// 3. the file at DefaultPath
// A missing token file is not an error; the backend rejects
// unauthenticated requests on its own.
func Resolve(token, tokenFile string) (string, error) {
	if t := strings.TrimSpace(token); t != "" {
		return t, nil
	}

	path := tokenFile
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return "", err
		}
	}
	return Load(path)
}

// Load reads the token stored at path. A missing file yields an empty
// token and no error.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token to path, creating parent directories as needed.
// The file is user-readable only.
func Save(path, token string) error {
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimSpace(token)+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing an absent file is a no-op.
func Clear(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// DefaultPath resolves the token file path in priority order:
// 1. $XDG_CONFIG_HOME/studybuddy/token
// 2. ~/.config/studybuddy/token
func DefaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "studybuddy", "token"), nil
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
