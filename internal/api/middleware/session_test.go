package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/snack-storefront/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionTokens() *auth.SessionTokens {
	return auth.NewSessionTokens("test-secret-key", time.Hour)
}

func captureSession(captured *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = GetSessionID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func TestSession_ValidToken_Header(t *testing.T) {
	tokens := newTestSessionTokens()
	token, _, err := tokens.Issue("sess-123")
	require.NoError(t, err)

	var captured string
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Session(tokens)(captureSession(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sess-123", captured)
	assert.Nil(t, sessionCookie(rec))
}

func TestSession_ValidToken_Cookie(t *testing.T) {
	tokens := newTestSessionTokens()
	token, _, err := tokens.Issue("sess-456")
	require.NoError(t, err)

	var captured string
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()

	Session(tokens)(captureSession(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sess-456", captured)
}

func TestSession_NoToken_StartsSession(t *testing.T) {
	tokens := newTestSessionTokens()

	var captured string
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()

	Session(tokens)(captureSession(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, captured)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)

	claims, err := tokens.Parse(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, captured, claims.SessionID)
}

func TestSession_InvalidToken_StartsSession(t *testing.T) {
	tests := []struct {
		name  string
		token func() string
	}{
		{"garbage", func() string { return "invalid-token" }},
		{"expired", func() string {
			token, _, _ := auth.NewSessionTokens("test-secret-key", -time.Minute).Issue("old")
			return token
		}},
		{"wrong signature", func() string {
			token, _, _ := auth.NewSessionTokens("other-secret", time.Hour).Issue("forged")
			return token
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := newTestSessionTokens()

			var captured string
			req := httptest.NewRequest(http.MethodGet, "/cart", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token())
			rec := httptest.NewRecorder()

			Session(tokens)(captureSession(&captured)).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.NotEmpty(t, captured)
			assert.NotEqual(t, "old", captured)
			assert.NotEqual(t, "forged", captured)
			assert.NotNil(t, sessionCookie(rec))
		})
	}
}

func TestSession_EachNewVisitorGetsOwnSession(t *testing.T) {
	tokens := newTestSessionTokens()
	var first, second string

	Session(tokens)(captureSession(&first)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	Session(tokens)(captureSession(&second)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEqual(t, first, second)
}

func TestGetSessionID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", GetSessionID(req.Context()))
}

func TestExtractToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", ExtractToken(req))

	req.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", ExtractToken(req))

	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", ExtractToken(req))

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, "", ExtractToken(other))
}
