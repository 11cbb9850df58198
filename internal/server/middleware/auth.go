// Package middleware provides HTTP middleware for authentication.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const ownerIDKey ContextKey = "ownerID"

// TokenValidator validates a bearer token and returns its claims.
// Declared here so the middleware does not import the JWT service directly.
type TokenValidator interface {
	ValidateToken(tokenString string) (OwnerIDGetter, error)
}

// OwnerIDGetter extracts the authenticated owner ID from token claims.
type OwnerIDGetter interface {
	GetOwnerID() uuid.UUID
}

// Auth returns middleware that validates the Authorization header and adds
// the owner ID to the request context. Requests without a valid bearer
// token get a 401 and never reach the wrapped handler.
func Auth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// "Bearer" is matched case-insensitively.
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := validator.ValidateToken(parts[1])
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ownerIDKey, claims.GetOwnerID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetOwnerID extracts the authenticated owner ID from the request context.
func GetOwnerID(r *http.Request) (uuid.UUID, error) {
	ownerID, ok := r.Context().Value(ownerIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("owner ID not found in request context")
	}
	return ownerID, nil
}
