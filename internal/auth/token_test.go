// ABOUTME: Unit tests for JWT session token issuance and verification
// ABOUTME: Covers round-trips, expiry, tampering, and missing-secret configuration

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/howlil/wakachat-server/internal/store"
)

var testSecret = []byte("test-secret-key-for-jwt-signing")

func TestNewCodec_NoSecret(t *testing.T) {
	_, err := NewCodec(nil, time.Hour)
	if !errors.Is(err, ErrNoSecret) {
		t.Errorf("NewCodec(nil) error = %v, want ErrNoSecret", err)
	}

	_, err = NewCodec([]byte{}, time.Hour)
	if !errors.Is(err, ErrNoSecret) {
		t.Errorf("NewCodec(empty) error = %v, want ErrNoSecret", err)
	}
}

func TestNewCodec_DefaultTTL(t *testing.T) {
	codec, err := NewCodec(testSecret, 0)
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}
	if codec.TTL() != DefaultTokenTTL {
		t.Errorf("TTL() = %v, want %v", codec.TTL(), DefaultTokenTTL)
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	codec, err := NewCodec(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}

	token, err := codec.Issue("user-123", "a@x.com", store.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if claims.Subject != "user-123" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "user-123")
	}
	if claims.Email != "a@x.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "a@x.com")
	}
	if claims.Role != store.RoleAdmin {
		t.Errorf("Role = %q, want %q", claims.Role, store.RoleAdmin)
	}
}

func TestCodec_Verify_Invalid(t *testing.T) {
	codec, err := NewCodec(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "garbage token",
			token: "not-a-jwt-token",
		},
		{
			name:  "malformed JWT",
			token: "header.payload.signature",
		},
		{
			name: "wrong secret",
			token: func() string {
				other, _ := NewCodec([]byte("different-secret"), time.Hour)
				token, _ := other.Issue("user-123", "a@x.com", store.RoleAgent)
				return token
			}(),
		},
		{
			name: "tampered signature",
			token: func() string {
				token, _ := codec.Issue("user-123", "a@x.com", store.RoleAgent)
				// Flip a character in the signature segment
				i := strings.LastIndex(token, ".") + 1
				flipped := byte('A')
				if token[i] == 'A' {
					flipped = 'B'
				}
				return token[:i] + string(flipped) + token[i+1:]
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Verify(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestCodec_Verify_Expired(t *testing.T) {
	// NewCodec replaces a non-positive TTL with the default, so build the
	// codec directly to issue a token that is already expired.
	codec := &Codec{secret: testSecret, ttl: -time.Hour}

	token, err := codec.Issue("user-123", "a@x.com", store.RoleAgent)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Expired tokens map to the same ErrInvalidToken as tampered ones
	_, err = codec.Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestCodec_Verify_SameErrorForExpiredAndTampered(t *testing.T) {
	expired := &Codec{secret: testSecret, ttl: -time.Hour}
	expiredToken, _ := expired.Issue("user-123", "a@x.com", store.RoleAgent)

	codec, _ := NewCodec(testSecret, time.Hour)
	other, _ := NewCodec([]byte("different-secret"), time.Hour)
	tamperedToken, _ := other.Issue("user-123", "a@x.com", store.RoleAgent)

	_, errExpired := codec.Verify(expiredToken)
	_, errTampered := codec.Verify(tamperedToken)

	if !errors.Is(errExpired, ErrInvalidToken) || !errors.Is(errTampered, ErrInvalidToken) {
		t.Fatalf("both rejections should be ErrInvalidToken, got %v and %v", errExpired, errTampered)
	}
}
