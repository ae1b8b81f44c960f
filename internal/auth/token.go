// ABOUTME: JWT token issuance and verification for dashboard sessions
// ABOUTME: Uses HS256 signing with a configured secret; claims snapshot id, email and role

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/howlil/wakachat-server/internal/store"
)

// DefaultTokenTTL is the token lifetime used when none is configured.
const DefaultTokenTTL = 72 * time.Hour

// ErrNoSecret is returned when constructing a codec without a signing
// secret. This is a configuration error and fatal at startup.
var ErrNoSecret = errors.New("no signing secret configured")

// ErrInvalidToken is returned by Verify for any rejected token. Expired,
// tampered and malformed tokens all map here so callers can't tell which
// check failed; the wrapped cause stays available for logging.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are the JWT claims carried by a session token. Email and Role are
// a snapshot taken at issuance; a later role change in the store does not
// invalidate outstanding tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email string     `json:"email"`
	Role  store.Role `json:"role"`
}

// Codec issues and verifies signed session tokens. It holds no mutable
// state and is safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a token codec. The secret is required; ttl falls back
// to DefaultTokenTTL when zero.
func NewCodec(secret []byte, ttl time.Duration) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Codec{secret: secret, ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue creates a signed token for the given user identity.
func (c *Codec) Issue(userID, email string, role store.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Email: email,
		Role:  role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify validates a token's signature and expiry and returns its claims.
// Any failure is reported as ErrInvalidToken with the underlying cause
// wrapped for diagnostics.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}
