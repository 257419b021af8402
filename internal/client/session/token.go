package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenKind string

const (
	TokenOpaque TokenKind = "opaque"
	TokenJWT    TokenKind = "jwt"
)

// TokenInfo is what the profile screen shows about the current token.
type TokenInfo struct {
	Kind      TokenKind
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry that is not after now.
// Opaque tokens never expire client-side.
func (i TokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !i.ExpiresAt.After(now)
}

// DescribeToken inspects token for display. The signature is NOT verified;
// the result must never be used for authorization decisions.
func DescribeToken(token string) TokenInfo {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return TokenInfo{Kind: TokenOpaque}
	}

	info := TokenInfo{Kind: TokenJWT, Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info
}
