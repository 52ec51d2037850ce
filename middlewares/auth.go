package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/pizzashack/service/models"
)

type Claims struct {
	UserID int64             `json:"id"`
	Name   string            `json:"name"`
	Email  string            `json:"email"`
	Roles  []models.UserRole `json:"roles"`
	jwt.RegisteredClaims
}

// User converts the claims back into the domain identity handlers work with.
func (c *Claims) User() models.User {
	return models.User{ID: c.UserID, Name: c.Name, Email: c.Email, Roles: c.Roles}
}

// SessionChecker is the slice of the store the middleware needs: whether a
// presented token still has a live session row.
type SessionChecker interface {
	IsLoggedIn(ctx context.Context, token string) (bool, error)
}

type contextKey string

const userContextKey contextKey = "user"

// SetAuthUser resolves the bearer credential, if any, into an identity on the
// request context. A token is honored only when its signature still exists in
// the session table and it verifies against the signing secret; anything else
// leaves the request anonymous, and protected handlers answer 401 themselves.
func SetAuthUser(sessions SessionChecker, secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractBearerToken(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			live, err := sessions.IsLoggedIn(r.Context(), tokenStr)
			if err != nil {
				logrus.WithError(err).Error("session lookup failed")
				next.ServeHTTP(w, r)
				return
			}
			if !live {
				next.ServeHTTP(w, r)
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return secret, nil
			})
			if err != nil || !token.Valid {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WithClaims attaches an authenticated identity to the context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}

func GetAuthenticatedUser(r *http.Request) (*Claims, error) {
	claims, ok := r.Context().Value(userContextKey).(*Claims)
	if !ok {
		return nil, errors.New("no user in context")
	}
	return claims, nil
}

func extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization format")
	}
	return parts[1], nil
}

// ReadAuthToken returns the raw bearer token, or "" when absent. Logout needs
// the original credential to find the session row to delete.
func ReadAuthToken(r *http.Request) string {
	token, err := extractBearerToken(r)
	if err != nil {
		return ""
	}
	return token
}
