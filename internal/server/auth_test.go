package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"ictportal/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginRequest(username, password string) *http.Request {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLoginAdminSuccess(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(loginRequest("admin", testAdminPassword))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	var sess session
	require.NoError(t, env.svc.cookie.Decode(sessionCookieValueName, cookies[0].Value, &sess))
	assert.Equal(t, types.RoleAdmin, sess.Role)
	assert.Equal(t, "admin", sess.Username)

	entry, ok := env.audit.last()
	require.True(t, ok)
	assert.Equal(t, "LOGIN", entry.Action)
	assert.Equal(t, "admin", entry.Role)
	assert.NotEmpty(t, entry.IP)
}

func TestLoginReviewerSuccess(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(loginRequest("reviewer", testReviewPassword))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/review", rec.Header().Get("Location"))
}

func TestLoginFailure(t *testing.T) {
	env := newTestEnv(t)

	cases := map[string]*http.Request{
		"wrong password":    loginRequest("admin", "nope"),
		"unknown user":      loginRequest("ghost", testAdminPassword),
		"swapped passwords": loginRequest("admin", testReviewPassword),
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			rec := env.do(req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			// The response never says which check failed.
			assert.NotContains(t, rec.Body.String(), "password")
			assert.NotContains(t, rec.Body.String(), "username")

			entry, ok := env.audit.last()
			require.True(t, ok)
			assert.Equal(t, "LOGIN_FAILED", entry.Action)
		})
	}
}

func TestRequireRole(t *testing.T) {
	env := newTestEnv(t)

	t.Run("anonymous redirected to login", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/admin", nil))
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("reviewer forbidden from admin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(env.sessionCookie(t, types.RoleReview, "reviewer"))
		rec := env.do(req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("reviewer allowed on review", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/review", nil)
		req.AddCookie(env.sessionCookie(t, types.RoleReview, "reviewer"))
		rec := env.do(req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("admin allowed on review", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/review", nil)
		req.AddCookie(env.sessionCookie(t, types.RoleAdmin, "admin"))
		rec := env.do(req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("tampered cookie treated as anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(&http.Cookie{Name: env.svc.config.CookieName, Value: "garbage"})
		rec := env.do(req)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(env.sessionCookie(t, types.RoleAdmin, "admin"))
	rec := env.do(req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Negative(t, cookies[0].MaxAge)

	entry, ok := env.audit.last()
	require.True(t, ok)
	assert.Equal(t, "LOGOUT", entry.Action)
}
