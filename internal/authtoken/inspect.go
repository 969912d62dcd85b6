package authtoken

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Info holds the claims of a stored access token. The backend signs
// tokens with a secret this client never sees, so claims are read
// without signature verification and are informational only.
type Info struct {
	// Subject is the account id the token was issued for.
	Subject string
	// Issuer identifies the backend that minted the token.
	Issuer string
	// IssuedAt is when the token was minted. Zero when absent.
	IssuedAt time.Time
	// ExpiresAt is when the backend stops accepting the token.
	// Zero when absent.
	ExpiresAt time.Time
}

// Expired reports whether the token's expiry has passed. Tokens
// without an expiry claim never report expired.
func (i Info) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !i.ExpiresAt.After(now)
}

// Inspect decodes the claims of an access token without verifying its
// signature.
func Inspect(token string) (Info, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Info{}, fmt.Errorf("no token stored")
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Info{}, fmt.Errorf("decode token: %w", err)
	}

	info := Info{
		Subject: claims.Subject,
		Issuer:  claims.Issuer,
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
