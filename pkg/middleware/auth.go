package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"buffet/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

const (
	RoleAdmin = "admin"
	RoleGuest = "authenticated"

	principalKey contextKey = "principal"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type UserMetadata struct {
	FullName string `json:"full_name,omitempty"`
	Name     string `json:"name,omitempty"`
}

type AppMetadata struct {
	Role string `json:"role,omitempty"`
}

// Claims mirrors the identity provider's access token.
type Claims struct {
	Email        string       `json:"email,omitempty"`
	Role         string       `json:"role,omitempty"`
	UserMetadata UserMetadata `json:"user_metadata"`
	AppMetadata  AppMetadata  `json:"app_metadata"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller.
type Principal struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

func (v *TokenVerifier) Verify(raw string) (Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return Principal{}, ErrInvalidToken
	}

	name := claims.UserMetadata.FullName
	if name == "" {
		name = claims.UserMetadata.Name
	}
	role := claims.AppMetadata.Role
	if role == "" {
		role = RoleGuest
	}

	return Principal{
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   name,
		Role:   role,
	}, nil
}

// SignToken issues an HS256 token for p. Used by the operator CLI and tests.
func SignToken(secret string, p Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:        p.Email,
		Role:         RoleGuest,
		UserMetadata: UserMetadata{FullName: p.Name},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if p.Role == RoleAdmin {
		claims.AppMetadata.Role = RoleAdmin
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Authenticator attaches a Principal when a bearer token is present.
// Anonymous requests pass through; a malformed or expired token is rejected,
// except on openPaths, where it is ignored and the request stays anonymous.
func Authenticator(verifier *TokenVerifier, log *logger.Logger, openPaths ...string) func(http.Handler) http.Handler {
	open := make(map[string]bool, len(openPaths))
	for _, p := range openPaths {
		open[p] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			p, err := verifier.Verify(raw)
			if err != nil && open[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				log.Warn("Rejected bearer token",
					"request_id", RequestIDFromContext(r.Context()),
					"path", r.URL.Path,
				)
				writeJSONError(w, http.StatusUnauthorized, ErrInvalidToken.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func RequireUser(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			writeJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next(w, r, ps)
	}
}

func RequireAdmin(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !p.IsAdmin() {
			writeJSONError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next(w, r, ps)
	}
}
