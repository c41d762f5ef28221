package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/matzehuels/seatmap/pkg/editor"
	"github.com/matzehuels/seatmap/pkg/errors"
)

func TestAuthenticatorRoundTrip(t *testing.T) {
	a := NewAuthenticator(testSecret)

	tok, err := a.Issue("club-1", RoleOwner, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	p, err := a.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if p != (editor.ClubOwner{ID: "club-1"}) {
		t.Errorf("principal = %#v", p)
	}

	tok, _ = a.Issue("", RoleGuest, time.Hour)
	if p, err := a.Verify(tok); err != nil || p != (editor.Guest{}) {
		t.Errorf("guest token: %#v, %v", p, err)
	}
}

func TestAuthenticatorRejects(t *testing.T) {
	a := NewAuthenticator(testSecret)
	valid, _ := a.Issue("club-1", RoleOwner, time.Hour)

	expired := NewAuthenticator(testSecret)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _ := expired.Issue("club-1", RoleOwner, time.Hour)

	other, _ := NewAuthenticator("other-secret").Issue("club-1", RoleOwner, time.Hour)

	badRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "club-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role:             RoleOwner,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "club-1"},
	}).SignedString([]byte(testSecret))

	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Role: RoleOwner,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "club-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		auth  *Authenticator
		token string
	}{
		{"expired", a, old},
		{"wrong secret", a, other},
		{"unknown role", a, badRole},
		{"no expiry", a, noExpiry},
		{"alg none", a, unsigned},
		{"garbage", a, "abc.def.ghi"},
		{"no secret configured", NewAuthenticator(""), valid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.auth.Verify(tt.token)
			if !errors.Is(err, errors.ErrCodeUnauthorized) {
				t.Errorf("Verify error = %v, want UNAUTHORIZED", err)
			}
		})
	}
}

func TestAuthenticatorIssueValidates(t *testing.T) {
	a := NewAuthenticator(testSecret)
	if _, err := a.Issue("", RoleOwner, time.Hour); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("owner token without subject: %v", err)
	}
	if _, err := a.Issue("club-1", "admin", time.Hour); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown role: %v", err)
	}
	if _, err := NewAuthenticator("  ").Issue("club-1", RoleOwner, time.Hour); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("blank secret: %v", err)
	}
}
