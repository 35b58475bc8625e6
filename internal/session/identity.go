package session

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Clark-Hu/game-reviews/internal/domain"
)

const (
	// CookieName is the identity cookie name.
	CookieName = "userId"
	// DefaultMaxAge is how long the browser keeps the identity cookie.
	DefaultMaxAge = 24 * time.Hour

	guestValue = "-1"
)

var (
	// ErrNoIdentity means the request carries no account: no cookie or the guest sentinel.
	ErrNoIdentity = errors.New("session: no identity")
	// ErrMalformed means a cookie is present but cannot be turned into a user id.
	ErrMalformed = errors.New("session: malformed identity")
)

// Provider issues and resolves request identities.
type Provider interface {
	SignIn(w http.ResponseWriter, userID int64) error
	SignInGuest(w http.ResponseWriter)
	Identify(r *http.Request) (int64, error)
	SignOut(w http.ResponseWriter)
}

func maxAgeSeconds(d time.Duration) int {
	if d <= 0 {
		d = DefaultMaxAge
	}
	return int(d / time.Second)
}

// CookieProvider stores the plain decimal user id in the cookie.
type CookieProvider struct {
	maxAge time.Duration
}

// NewCookieProvider returns an unsigned provider.
func NewCookieProvider(maxAge time.Duration) *CookieProvider {
	return &CookieProvider{maxAge: maxAge}
}

// SignIn sets the cookie to the user's id.
func (p *CookieProvider) SignIn(w http.ResponseWriter, userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("session: invalid user id %d", userID)
	}
	SetCookie(w, CookieName, strconv.FormatInt(userID, 10), maxAgeSeconds(p.maxAge), true)
	return nil
}

// SignInGuest sets the guest sentinel.
func (p *CookieProvider) SignInGuest(w http.ResponseWriter) {
	SetCookie(w, CookieName, guestValue, maxAgeSeconds(p.maxAge), true)
}

// Identify parses the cookie back into a user id.
func (p *CookieProvider) Identify(r *http.Request) (int64, error) {
	value, ok := CookieValue(r, CookieName)
	if !ok || value == guestValue {
		return 0, ErrNoIdentity
	}
	return parseUserID(value)
}

// SignOut clears the cookie.
func (p *CookieProvider) SignOut(w http.ResponseWriter) {
	ClearCookie(w, CookieName)
}

// SignedProvider stores an HS256 token whose subject is the user id. The
// guest sentinel is kept as the bare "-1" value.
type SignedProvider struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewSignedProvider returns a provider that signs identities with secret.
func NewSignedProvider(secret string, maxAge time.Duration) (*SignedProvider, error) {
	if secret == "" {
		return nil, errors.New("session: signing secret is empty")
	}
	return &SignedProvider{secret: []byte(secret), maxAge: maxAge, now: time.Now}, nil
}

// SignIn issues a signed token for the user.
func (p *SignedProvider) SignIn(w http.ResponseWriter, userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("session: invalid user id %d", userID)
	}
	now := p.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(maxAgeSeconds(p.maxAge)) * time.Second)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return fmt.Errorf("session: sign token: %w", err)
	}
	SetCookie(w, CookieName, token, maxAgeSeconds(p.maxAge), true)
	return nil
}

// SignInGuest sets the guest sentinel.
func (p *SignedProvider) SignInGuest(w http.ResponseWriter) {
	SetCookie(w, CookieName, guestValue, maxAgeSeconds(p.maxAge), true)
}

// Identify verifies the token and returns its subject.
func (p *SignedProvider) Identify(r *http.Request) (int64, error) {
	value, ok := CookieValue(r, CookieName)
	if !ok || value == guestValue {
		return 0, ErrNoIdentity
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(value, &claims, func(*jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return parseUserID(claims.Subject)
}

// SignOut clears the cookie.
func (p *SignedProvider) SignOut(w http.ResponseWriter) {
	ClearCookie(w, CookieName)
}

func parseUserID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		if id == domain.GuestUserID {
			return 0, ErrNoIdentity
		}
		return 0, fmt.Errorf("%w: %q", ErrMalformed, value)
	}
	return id, nil
}
