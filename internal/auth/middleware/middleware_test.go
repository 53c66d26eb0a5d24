package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestIssueAndParse(t *testing.T) {
	a := NewAuthService("secret")

	tok, err := a.IssueJWT("admin", "admin")
	require.NoError(t, err)

	claims, err := a.Parse(tok)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Sub)
	require.Equal(t, "admin", claims.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := NewAuthService("secret-a").IssueJWT("admin", "admin")
	require.NoError(t, err)

	_, err = NewAuthService("secret-b").Parse(tok)
	require.Error(t, err)
}

func TestJWTMiddleware(t *testing.T) {
	a := NewAuthService("secret")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	h := JWTMiddleware(a)(next)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, 401, w.Code)

	tok, err := a.IssueJWT("admin", "admin")
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, 200, w.Code)
}

func TestLoginHandler(t *testing.T) {
	a := NewAuthService("secret")
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	h := LoginHandler(a, "admin", string(hash))

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	w := post(`{"username":"admin","password":"hunter2"}`)
	require.Equal(t, 200, w.Code)
	require.Contains(t, w.Body.String(), "access_token")

	require.Equal(t, 401, post(`{"username":"admin","password":"wrong"}`).Code)
	require.Equal(t, 401, post(`{"username":"eve","password":"hunter2"}`).Code)
	require.Equal(t, 400, post(`{not json`).Code)
}

func TestLoginDisabledWithoutHash(t *testing.T) {
	a := NewAuthService("secret")
	h := LoginHandler(a, "admin", "")

	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"username":"admin","password":""}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, 401, w.Code)
}
