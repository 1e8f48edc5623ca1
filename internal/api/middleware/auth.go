package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/nik/article-hub/internal/auth"
	"github.com/nik/article-hub/internal/domain"
	"github.com/nik/article-hub/internal/service"
)

type contextKey string

const (
	userKey  contextKey = "user"
	tokenKey contextKey = "token"
)

// Authenticate resolves the bearer token into a user record and attaches it
// to the request context. The route's expected token type is fixed at wiring
// time: access for resource routes, refresh for the refresh route.
func Authenticate(authService *service.AuthService, tokenType auth.TokenType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				log.Printf("ERROR [middleware.Authenticate] missing or malformed authorization header")
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			user, err := authService.Authenticate(r.Context(), token, tokenType)
			if err != nil {
				switch {
				case isUnauthenticated(err):
					log.Printf("ERROR [middleware.Authenticate] rejected token: %v", err)
					http.Error(w, "Invalid token", http.StatusUnauthorized)
				default:
					log.Printf("ERROR [middleware.Authenticate] session check failed: %v", err)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
				}
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireActive rejects authenticated but not yet confirmed users.
func RequireActive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFrom(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !user.Active {
			http.Error(w, "User inactive", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func UserFrom(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}

func TokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}

func isUnauthenticated(err error) bool {
	for _, sentinel := range []error{
		domain.ErrTokenRevoked,
		domain.ErrInvalidToken,
		domain.ErrInvalidTokenType,
		domain.ErrUserNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
