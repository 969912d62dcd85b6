package authtoken

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")

	if err := Save(path, "  tok-123  "); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "tok-123" {
		t.Errorf("Load = %q, want %q", got, "tok-123")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}

	if err := Clear(path); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got, err := Load(path); err != nil || got != "" {
		t.Errorf("Load after Clear = %q, %v; want empty, nil", got, err)
	}
	// Clearing twice stays quiet.
	if err := Clear(path); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "" {
		t.Errorf("Load = %q, want empty", got)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "token")
	if err := Save(filePath, "from-file"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	tests := []struct {
		name      string
		token     string
		tokenFile string
		want      string
	}{
		{"env token wins", "from-env", filePath, "from-env"},
		{"whitespace token falls through", "   ", filePath, "from-file"},
		{"token file", "", filePath, "from-file"},
		{"missing file yields empty", "", filepath.Join(dir, "absent"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.token, tt.tokenFile)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultPathHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")

	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	want := filepath.Join("/tmp/xdg-config", "studybuddy", "token")
	if got != want {
		t.Errorf("DefaultPath = %q, want %q", got, want)
	}
}

func signedToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestInspect(t *testing.T) {
	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	expiry := issued.Add(24 * time.Hour)

	raw := signedToken(t, jwt.RegisteredClaims{
		Subject:   "user-42",
		Issuer:    "studybuddy",
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(expiry),
	})

	info, err := Inspect(raw)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.Subject != "user-42" {
		t.Errorf("Subject = %q, want %q", info.Subject, "user-42")
	}
	if info.Issuer != "studybuddy" {
		t.Errorf("Issuer = %q, want %q", info.Issuer, "studybuddy")
	}
	if !info.IssuedAt.Equal(issued) {
		t.Errorf("IssuedAt = %v, want %v", info.IssuedAt, issued)
	}
	if !info.ExpiresAt.Equal(expiry) {
		t.Errorf("ExpiresAt = %v, want %v", info.ExpiresAt, expiry)
	}

	if info.Expired(expiry.Add(-time.Minute)) {
		t.Error("token reported expired before expiry")
	}
	if !info.Expired(expiry.Add(time.Minute)) {
		t.Error("token not reported expired after expiry")
	}
}

func TestInspectWithoutExpiry(t *testing.T) {
	raw := signedToken(t, jwt.RegisteredClaims{Subject: "user-42"})

	info, err := Inspect(raw)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if !info.ExpiresAt.IsZero() {
		t.Errorf("ExpiresAt = %v, want zero", info.ExpiresAt)
	}
	if info.Expired(time.Now().Add(100 * 365 * 24 * time.Hour)) {
		t.Error("token without exp claim reported expired")
	}
}

func TestInspectRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "   ", "not-a-jwt", "a.b"} {
		if _, err := Inspect(raw); err == nil {
			t.Errorf("Inspect(%q) accepted garbage", raw)
		}
	}
}
