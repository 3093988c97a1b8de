package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionToken is a signed JWT carried in an HTTP-only cookie. It is the
// whole of the session: no server-side session store exists.
type SessionToken struct {
	Token string
	Exp   time.Time
}

// ResetToken is the one-time credential mailed to a user who forgot their
// password. Only the SHA-256 hash of Raw is persisted.
type ResetToken struct {
	Raw string
	Exp time.Time
}

// NewSessionToken builds and signs an HS256 JWT identifying a user. Claims
// are the subject (user id), expiration and issued-at.
func NewSessionToken(secret string, userID uint64, ttlMin int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	})
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken validates a session JWT and returns the user id it
// identifies. Any parse failure, signature mismatch, wrong algorithm or
// expired token yields an error.
func ParseSessionToken(secret, raw string) (uint64, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, fmt.Errorf("invalid session token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid session claims")
	}
	sub, ok := claims["sub"].(float64) // numeric claims decode as float64
	if !ok || sub <= 0 {
		return 0, fmt.Errorf("invalid session subject")
	}
	return uint64(sub), nil
}

// NewResetToken returns a cryptographically random reset token and its
// expiry, ttlMin minutes from now.
func NewResetToken(ttlMin int) (ResetToken, error) {
	raw, err := randomHex(20) // 20 bytes -> 40 hex chars
	if err != nil {
		return ResetToken{}, err
	}
	return ResetToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute),
	}, nil
}

// HashResetRaw returns the SHA-256 hash of a raw reset token as a hex
// string. Storing only the hash keeps leaked database rows from being
// usable as reset links.
func HashResetRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
