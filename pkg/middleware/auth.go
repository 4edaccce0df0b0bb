package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"roost/pkg/logger"
	"roost/pkg/model"
)

const principalKey contextKey = "principal"

// tokenClaims mirrors the bearer token payload: the subject's id and an
// admin flag.
type tokenClaims struct {
	ID      string `json:"id"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// ExemptFunc marks requests that skip bearer authentication, e.g. the
// gateway webhook (authenticated by its own signature) and public reads.
type ExemptFunc func(r *http.Request) bool

func Auth(secret string, exempt ExemptFunc, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if exempt != nil && exempt(r) {
				next.ServeHTTP(w, r)
				return
			}

			token := extractBearerToken(r)
			if token == "" {
				rejectUnauthenticated(w, log, r, "Missing bearer token")
				return
			}

			principal, err := verifyToken(token, secret)
			if err != nil {
				rejectUnauthenticated(w, log, r, "Invalid bearer token")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext returns the authenticated principal, or false for
// requests that came through an exempt route.
func PrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(principalKey).(model.Principal)
	return p, ok
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

func verifyToken(tokenStr, secret string) (model.Principal, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return model.Principal{}, err
	}
	if !token.Valid || claims.ID == "" {
		return model.Principal{}, fmt.Errorf("token claims invalid")
	}

	return model.Principal{ID: claims.ID, IsAdmin: claims.IsAdmin}, nil
}

func rejectUnauthenticated(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.Warn("Request rejected by auth",
		"request_id", RequestID(r.Context()),
		"reason", reason,
		"method", r.Method,
		"path", r.URL.Path,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}
