package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/infrastructure/auth"
	"github.com/iho/washledger/internal/infrastructure/metrics"
)

func echoUser(t *testing.T, seen **domain.User) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := domain.UserFromContext(r.Context())
		if ok {
			*seen = user
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticate(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Minute)
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	authenticator := NewAuthenticator(jwtManager, m)

	token, err := jwtManager.Generate(&domain.User{ID: "cashier-1", Role: domain.RoleCashier})
	require.NoError(t, err)

	var seen *domain.User
	handler := authenticator.Authenticate(echoUser(t, &seen))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "cashier-1", seen.ID)
	assert.Equal(t, domain.RoleCashier, seen.Role)

	cases := map[string]string{
		"missing_header":   "",
		"malformed_header": "Token abc",
		"invalid_token":    "Bearer not-a-jwt",
	}
	for reason, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, reason)
		assert.Equal(t, float64(1), testutil.ToFloat64(m.AuthFailures.WithLabelValues(reason)), reason)
	}
}

func TestDefaultActor(t *testing.T) {
	var seen *domain.User
	handler := DefaultActor(&domain.User{ID: "front-desk", Role: domain.RoleAdmin})(echoUser(t, &seen))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/entries", nil))

	require.NotNil(t, seen)
	assert.Equal(t, "front-desk", seen.ID)
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(domain.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name string
		user *domain.User
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"cashier", &domain.User{ID: "c", Role: domain.RoleCashier}, http.StatusForbidden},
		{"admin", &domain.User{ID: "a", Role: domain.RoleAdmin}, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/entries/e1", nil)
			if tt.user != nil {
				req = req.WithContext(domain.ContextWithUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
