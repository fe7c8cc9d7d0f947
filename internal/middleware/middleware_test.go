package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bdstore-be/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return tokenString
}

func TestAuth(t *testing.T) {
	auth := NewAuthMiddleware(testSecret)

	t.Run("Missing token passes through anonymous", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := utils.GetUserIDFromContext(r.Context())
			assert.False(t, ok, "Context should not contain user ID")
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/products", nil)
		w := httptest.NewRecorder()

		auth(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Invalid token is rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/checkout", nil)
		req.Header.Set("Authorization", "Bearer invalid-token")
		w := httptest.NewRecorder()

		auth(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Valid token populates context", func(t *testing.T) {
		tokenString := signToken(t, jwt.MapClaims{
			"sub":   "u1",
			"email": "u1@example.com",
			"role":  "customer",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})

		req := httptest.NewRequest("POST", "/checkout", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, "u1", userID)
			assert.Equal(t, "u1@example.com", utils.GetUserEmailFromContext(r.Context()))
			assert.False(t, utils.IsAdminFromContext(r.Context()))
			w.WriteHeader(http.StatusOK)
		})

		auth(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Expired token is rejected", func(t *testing.T) {
		tokenString := signToken(t, jwt.MapClaims{
			"sub": "u1",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})

		req := httptest.NewRequest("GET", "/orders/ord-1", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()

		auth(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Non-Bearer scheme is treated as anonymous", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/products", nil)
		req.Header.Set("Authorization", "Basic user:pass")
		w := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := utils.GetUserIDFromContext(r.Context())
			assert.False(t, ok)
			w.WriteHeader(http.StatusOK)
		})

		auth(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Anonymous gets 401", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/checkout", nil)
		w := httptest.NewRecorder()

		RequireAuth(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Authenticated passes", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/checkout", nil)
		req = req.WithContext(utils.SetUserContext(req.Context(), "u1", "u1@example.com", "customer"))
		w := httptest.NewRecorder()

		RequireAuth(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Anonymous gets 401", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/orders", nil)
		w := httptest.NewRecorder()

		RequireAdmin(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Customer gets 403", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/orders", nil)
		req = req.WithContext(utils.SetUserContext(req.Context(), "u1", "u1@example.com", "customer"))
		w := httptest.NewRecorder()

		RequireAdmin(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Admin passes", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/orders", nil)
		req = req.WithContext(utils.SetUserContext(req.Context(), "a1", "a1@example.com", "admin"))
		w := httptest.NewRecorder()

		RequireAdmin(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestResolveRateTier(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		tier   string
	}{
		{"Checkout is strict", "POST", "/checkout", "strict"},
		{"Order status patch is strict", "PATCH", "/orders/ord-1/status", "strict"},
		{"Catalog list is browse", "GET", "/products", "browse"},
		{"Catalog detail is browse", "GET", "/products/p1", "browse"},
		{"Cart mutations are general", "POST", "/cart/items", "general"},
		{"Order detail read is general", "GET", "/orders/ord-1", "general"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			_, _, tier := resolveRateTier(req)
			assert.Equal(t, tt.tier, tier)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RateLimitMiddleware(next)

	t.Run("Burst then throttle", func(t *testing.T) {
		var lastCode int
		for i := 0; i < burstStrict+1; i++ {
			req := httptest.NewRequest("POST", "/checkout", nil)
			req.RemoteAddr = "203.0.113.7:1234"
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			lastCode = w.Code
		}
		assert.Equal(t, http.StatusTooManyRequests, lastCode)
	})

	t.Run("Separate identities have separate quotas", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/checkout", nil)
		req.RemoteAddr = "203.0.113.8:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
