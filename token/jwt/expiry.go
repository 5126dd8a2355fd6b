package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNotJWT is returned for opaque tokens.
	ErrNotJWT = errors.New("token is not a JWT")
	// ErrNoExpiry is returned for a JWT without an exp claim.
	ErrNoExpiry = errors.New("token has no exp claim")
)

// ExpiresAt reads the exp claim of rawToken without verifying its signature.
// The console does not hold the issuer's key, so the value is only an estimate.
func ExpiresAt(rawToken string) (time.Time, error) {
	if strings.Count(rawToken, ".") != 2 {
		return time.Time{}, ErrNotJWT
	}

	claims := jwtlib.MapClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return time.Time{}, fmt.Errorf("[ExpiresAt] parse token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("[ExpiresAt] exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}
	return exp.Time, nil
}
