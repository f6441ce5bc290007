package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const (
	userIDKey    contextKey = "user_id"
	authTokenKey contextKey = "auth_token"
	requestIDKey contextKey = "request_id"
)

// AuthMiddleware extracts the bearer token from the Authorization header
// and passes it through to the backend client via the request context. The
// engine does not validate the token itself; token lifecycle belongs to
// the surrounding application.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		userID := r.Header.Get("X-User-ID")

		ctx := context.WithValue(r.Context(), authTokenKey, token)
		ctx = context.WithValue(ctx, userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDMiddleware adds a unique request ID to each request.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getAuthToken(ctx context.Context) string {
	if token, ok := ctx.Value(authTokenKey).(string); ok {
		return token
	}
	return ""
}

func getUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(userIDKey).(string); ok {
		return userID
	}
	return ""
}
