package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "cron-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.RegisteredClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   "scheduler",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

func serveWithAuth(secret, authHeader string) (*httptest.ResponseRecorder, *jwt.RegisteredClaims) {
	var seen *jwt.RegisteredClaims
	h := BearerAuth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(ContextKeyClaims).(*jwt.RegisteredClaims)
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/cron/dataset-watch/run", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec, seen
}

func TestBearerAuth(t *testing.T) {
	t.Run("valid token passes and exposes claims", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims())

		rec, claims := serveWithAuth(testSecret, "Bearer "+token)

		assert.Equal(t, http.StatusTeapot, rec.Code)
		require.NotNil(t, claims)
		assert.Equal(t, "scheduler", claims.Subject)
	})

	tests := []struct {
		name   string
		secret string
		header func(t *testing.T) string
		code   string
	}{
		{
			name:   "missing header",
			secret: testSecret,
			header: func(t *testing.T) string { return "" },
			code:   `"AUTH_001"`,
		},
		{
			name:   "not a bearer token",
			secret: testSecret,
			header: func(t *testing.T) string { return "Basic dXNlcjpwYXNz" },
			code:   `"AUTH_001"`,
		},
		{
			name:   "wrong secret",
			secret: testSecret,
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims())
			},
			code: `"AUTH_001"`,
		},
		{
			name:   "other hmac algorithm",
			secret: testSecret,
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims())
			},
			code: `"AUTH_001"`,
		},
		{
			name:   "no expiry",
			secret: testSecret,
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "scheduler"})
			},
			code: `"AUTH_001"`,
		},
		{
			name:   "expired",
			secret: testSecret,
			header: func(t *testing.T) string {
				claims := validClaims()
				claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
				return "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claims)
			},
			code: `"AUTH_002"`,
		},
		{
			name:   "no secret configured",
			secret: "",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims())
			},
			code: `"AUTH_001"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, claims := serveWithAuth(tt.secret, tt.header(t))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.code)
			assert.Nil(t, claims)
		})
	}
}
