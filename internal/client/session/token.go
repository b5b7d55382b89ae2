package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expired reports whether the JWT is past its exp claim. A token is usable
// only while exp is strictly greater than the current time. Undecodable
// tokens count as expired; tokens without an exp claim never expire locally
// (the server remains the authority and will answer 401).
func expired(token string) bool {
	return expiredAt(token, time.Now())
}

func expiredAt(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return true
	}
	if exp == nil {
		return false
	}
	return !exp.Time.After(now)
}
