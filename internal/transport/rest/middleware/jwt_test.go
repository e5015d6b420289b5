package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edumeet/internal/domain"
)

type fakeVerifier struct {
	claims *domain.Claims
	err    error
}

func (f *fakeVerifier) Verify(ctx context.Context, rawToken string) (*domain.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func okHandler(t *testing.T, wantClaims *domain.Claims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantClaims, claims)
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTMissingCookie(t *testing.T) {
	handler := JWT(&fakeVerifier{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "not authenticated")
}

func TestJWTInvalidToken(t *testing.T) {
	handler := JWT(&fakeVerifier{err: domain.ErrInvalidToken})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "bogus"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired token")
}

func TestJWTValidToken(t *testing.T) {
	claims := &domain.Claims{UserID: uuid.New(), Username: "a", Role: domain.RoleUser}
	handler := JWT(&fakeVerifier{claims: claims})(okHandler(t, claims))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "valid"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     domain.Role
		allowed  []domain.Role
		wantCode int
	}{
		{"admin allowed", domain.RoleAdmin, []domain.Role{domain.RoleAdmin}, http.StatusOK},
		{"publisher in set", domain.RolePublisher, []domain.Role{domain.RoleAdmin, domain.RolePublisher}, http.StatusOK},
		{"user forbidden", domain.RoleUser, []domain.Role{domain.RoleAdmin}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := &domain.Claims{UserID: uuid.New(), Username: "a", Role: tt.role}

			chain := New()
			chain.Use(JWT(&fakeVerifier{claims: claims}))
			chain.Use(RequireRole(tt.allowed...))

			handler := chain.Then(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.AddCookie(&http.Cookie{Name: "access_token", Value: "valid"})

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	handler := RequireRole(domain.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without claims")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
