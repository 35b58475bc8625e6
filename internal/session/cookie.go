// Package session owns the identity cookie: low-level cookie helpers and the
// providers that encode a user id into it.
package session

import "net/http"

// SetCookie writes a cookie scoped to the whole application.
func SetCookie(w http.ResponseWriter, name, value string, maxAge int, httpOnly bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		SameSite: http.SameSiteLaxMode,
	})
}

// CookieValue returns the value of the first cookie with the given name.
func CookieValue(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// ClearCookie expires the named cookie immediately.
func ClearCookie(w http.ResponseWriter, name string) {
	// MaxAge < 0 is sent as Max-Age=0.
	SetCookie(w, name, "", -1, true)
}
