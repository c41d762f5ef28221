package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/matzehuels/seatmap/pkg/editor"
	"github.com/matzehuels/seatmap/pkg/errors"
)

// Token roles.
const (
	RoleOwner = "owner"
	RoleGuest = "guest"
)

// Claims are the JWT claims the API accepts. The subject is the owner id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator issues and verifies HS256 bearer tokens.
type Authenticator struct {
	secret []byte
	now    func() time.Time
}

// NewAuthenticator returns an authenticator for secret. With an empty
// secret every bearer token is rejected and only anonymous guests are
// served.
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(strings.TrimSpace(secret)), now: time.Now}
}

// Issue signs a token for ownerID with the given role, valid for ttl.
func (a *Authenticator) Issue(ownerID, role string, ttl time.Duration) (string, error) {
	if len(a.secret) == 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "no signing secret configured")
	}
	if role != RoleOwner && role != RoleGuest {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown role %q", role)
	}
	if role == RoleOwner {
		if err := errors.ValidateOwnerID(ownerID); err != nil {
			return "", err
		}
	}
	now := a.now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ownerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify parses token and returns the principal it names.
func (a *Authenticator) Verify(token string) (editor.Principal, error) {
	if len(a.secret) == 0 {
		return nil, errors.New(errors.ErrCodeUnauthorized, "token authentication is not configured")
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnauthorized, err, "invalid token")
	}

	switch claims.Role {
	case RoleOwner:
		if errors.ValidateOwnerID(claims.Subject) != nil {
			return nil, errors.New(errors.ErrCodeUnauthorized, "token has no valid subject")
		}
		return editor.ClubOwner{ID: claims.Subject}, nil
	case RoleGuest:
		return editor.Guest{}, nil
	default:
		return nil, errors.New(errors.ErrCodeUnauthorized, "token has unknown role %q", claims.Role)
	}
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey int

const identityKey ctxKey = 0

type identity struct {
	principal     editor.Principal
	authenticated bool
}

// Middleware attaches the caller's principal to the request context.
// Requests without a bearer token are served as anonymous guests; a
// malformed or invalid token is rejected with 401.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := identity{principal: editor.Guest{}}
		if h := r.Header.Get("Authorization"); h != "" {
			token, ok := strings.CutPrefix(h, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				writeError(w, r, errors.New(errors.ErrCodeUnauthorized, "authorization header must be a bearer token"))
				return
			}
			p, err := a.Verify(strings.TrimSpace(token))
			if err != nil {
				writeError(w, r, err)
				return
			}
			id = identity{principal: p, authenticated: true}
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
	})
}

// PrincipalFrom returns the principal attached by [Authenticator.Middleware],
// or a guest.
func PrincipalFrom(ctx context.Context) editor.Principal {
	if id, ok := ctx.Value(identityKey).(identity); ok {
		return id.principal
	}
	return editor.Guest{}
}

// requireOwner rejects callers that may not edit: anonymous callers with
// 401, authenticated guests with 403.
func requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := r.Context().Value(identityKey).(identity)
		switch {
		case id.principal != nil && id.principal.CanEdit():
			next.ServeHTTP(w, r)
		case !id.authenticated:
			writeError(w, r, errors.New(errors.ErrCodeUnauthorized, "authentication required"))
		default:
			writeError(w, r, errors.New(errors.ErrCodeForbidden, "%s may not modify layouts", id.principal))
		}
	})
}
