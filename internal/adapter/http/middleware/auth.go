package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/iho/washledger/internal/adapter/http/dto"
	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/infrastructure/auth"
	"github.com/iho/washledger/internal/infrastructure/metrics"
)

// Authenticator resolves the acting user of a request.
type Authenticator struct {
	jwtManager *auth.JWTManager
	metrics    *metrics.Metrics
}

// NewAuthenticator creates an Authenticator. metrics may be nil.
func NewAuthenticator(jwtManager *auth.JWTManager, metrics *metrics.Metrics) *Authenticator {
	return &Authenticator{jwtManager: jwtManager, metrics: metrics}
}

// Authenticate requires a valid bearer token and stores its user in the context.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Extract token from Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			a.reject(w, http.StatusUnauthorized, "missing_header", "missing authorization header")
			return
		}

		// Parse Bearer token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			a.reject(w, http.StatusUnauthorized, "malformed_header", "invalid authorization header format")
			return
		}

		claims, err := a.jwtManager.Verify(parts[1])
		if err != nil {
			reason := "invalid_token"
			if err == domain.ErrExpiredToken {
				reason = "expired_token"
			}
			a.reject(w, http.StatusUnauthorized, reason, "invalid or expired token")
			return
		}

		ctx := domain.ContextWithUser(r.Context(), claims.User())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) reject(w http.ResponseWriter, status int, reason, message string) {
	if a.metrics != nil {
		a.metrics.AuthFailures.WithLabelValues(reason).Inc()
	}
	writeJSONError(w, status, message)
}

// DefaultActor attributes every request to a fixed user. Used when
// authentication is disabled.
func DefaultActor(user *domain.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := domain.UserFromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(domain.ContextWithUser(r.Context(), user)))
		})
	}
}

// RequireRole creates a middleware that checks for a specific role
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := domain.UserFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			// Admins pass every role check.
			if user.Role != role && !user.Role.IsAdmin() {
				writeJSONError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: message})
}
