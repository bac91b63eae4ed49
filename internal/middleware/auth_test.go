package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/waveshop/waves-backend/internal/config"
	"github.com/waveshop/waves-backend/internal/models"
)

// fakeAuthenticator implements Authenticator for testing.
type fakeAuthenticator struct {
	user models.User
	err  error
}

func (f *fakeAuthenticator) Authenticate(ctx context.Context, token string) (models.User, error) {
	return f.user, f.err
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name         string
		cookie       string
		header       string
		sessions     *fakeAuthenticator
		expectedCode int
		expectNext   bool
	}{
		{
			name:         "no token",
			sessions:     &fakeAuthenticator{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "rejected token",
			cookie:       "bad-token",
			sessions:     &fakeAuthenticator{err: errors.New("invalid token")},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "valid cookie token",
			cookie:       "good-token",
			sessions:     &fakeAuthenticator{user: models.User{ID: "u1", Email: "a@x.com"}},
			expectedCode: http.StatusOK,
			expectNext:   true,
		},
		{
			name:         "valid bearer token",
			header:       "Bearer good-token",
			sessions:     &fakeAuthenticator{user: models.User{ID: "u1"}},
			expectedCode: http.StatusOK,
			expectNext:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				if _, ok := UserFrom(r.Context()); !ok {
					t.Error("expected user on request context")
				}
			})

			req := httptest.NewRequest(http.MethodGet, "/api/users/auth", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: config.CookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			Authenticate(tt.sessions)(next).ServeHTTP(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			if nextCalled != tt.expectNext {
				t.Fatalf("next called = %v, want %v", nextCalled, tt.expectNext)
			}
		})
	}
}

func TestRequireAdminRoleGate(t *testing.T) {
	for _, tt := range []struct {
		role       models.Role
		expectPass bool
	}{
		{role: 0, expectPass: false},
		{role: 1, expectPass: true},
		{role: 2, expectPass: true},
		{role: -1, expectPass: true},
	} {
		nextCalled := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
		})

		req := httptest.NewRequest(http.MethodPost, "/api/product/brand", nil)
		req = req.WithContext(WithUser(req.Context(), models.User{ID: "u1", Role: tt.role}))
		rec := httptest.NewRecorder()

		RequireAdmin(next).ServeHTTP(rec, req)

		if nextCalled != tt.expectPass {
			t.Fatalf("role %d: next called = %v, want %v", tt.role, nextCalled, tt.expectPass)
		}
		if !tt.expectPass && rec.Code != http.StatusForbidden {
			t.Fatalf("role %d: expected status %d, got %d", tt.role, http.StatusForbidden, rec.Code)
		}
	}
}

func TestRequireAdminPanicsWithoutUser(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when no user is on the context")
		}
	}()

	req := httptest.NewRequest(http.MethodPost, "/api/product/brand", nil)
	rec := httptest.NewRecorder()
	RequireAdmin(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, req)
}
