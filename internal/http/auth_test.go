package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryPagesRender(t *testing.T) {
	env := buildTestServer(t)

	cases := map[string]string{
		"/":              viewHome,
		"/auth/login":    viewHome,
		"/auth/register": viewRegister,
		"/register":      viewRegister,
	}
	for path, want := range cases {
		rec := env.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		view, _ := env.views.last()
		assert.Equal(t, want, view, path)
	}
}

func TestRegisterThenLoginYieldsSameIdentity(t *testing.T) {
	env := buildTestServer(t)
	form := url.Values{"username": {"alice"}, "password": {"pa55word"}}

	rec := env.do(postForm("/auth/register", form))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/search", rec.Header().Get("Location"))
	registered := responseCookie(t, rec, "userId")
	assert.True(t, registered.HttpOnly)
	assert.Equal(t, "/", registered.Path)
	assert.Equal(t, 86400, registered.MaxAge)

	rec = env.do(postForm("/auth/login", form))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/search", rec.Header().Get("Location"))
	loggedIn := responseCookie(t, rec, "userId")

	assert.Equal(t, registered.Value, loggedIn.Value)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := buildTestServer(t)
	mustCreateUser(t, env, "alice")

	rec := env.do(postForm("/auth/register", url.Values{"username": {"alice"}, "password": {"x"}}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies())

	view, data := env.views.last()
	assert.Equal(t, viewRegister, view)
	assert.Equal(t, authPage{Error: msgUsernameTaken}, data)

	exists, err := env.repo.Users.Exists(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRegisterRequiresFields(t *testing.T) {
	env := buildTestServer(t)

	for _, form := range []url.Values{
		{"username": {""}, "password": {"x"}},
		{"username": {"  "}, "password": {"x"}},
		{"username": {"bob"}},
	} {
		rec := env.do(postForm("/auth/register", form))
		assert.Equal(t, http.StatusOK, rec.Code)
		view, data := env.views.last()
		assert.Equal(t, viewRegister, view)
		assert.Equal(t, authPage{Error: msgRequiredFields}, data)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := buildTestServer(t)
	mustCreateUser(t, env, "alice")

	for _, form := range []url.Values{
		{"username": {"alice"}, "password": {"wrong"}},
		{"username": {"nobody"}, "password": {"secret"}},
	} {
		rec := env.do(postForm("/auth/login", form))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
		view, data := env.views.last()
		assert.Equal(t, viewHome, view)
		assert.Equal(t, authPage{Error: msgInvalidLogin}, data)
	}
}

func TestGuestEntry(t *testing.T) {
	env := buildTestServer(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/guest", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/search", rec.Header().Get("Location"))
	assert.Equal(t, "-1", responseCookie(t, rec, "userId").Value)
}

func TestLogoutClearsIdentity(t *testing.T) {
	env := buildTestServer(t)

	rec := env.do(getWithCookies("/logout", userCookie(5)))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}
