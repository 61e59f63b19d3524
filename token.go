package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiresAt inspects a bearer token without verifying its signature and
// returns the exp claim when present. The client never validates signatures
// (that is the server's job); it only uses the claim to avoid rehydrating a
// session from a token that is already dead.
func TokenExpiresAt(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// not a JWT: treat as opaque, no known expiry
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// TokenExpired reports whether the token carries an exp claim in the past.
// Opaque tokens are never considered expired.
func TokenExpired(token string, now time.Time) bool {
	exp, ok := TokenExpiresAt(token)
	if !ok {
		return false
	}
	return exp.Before(now)
}
