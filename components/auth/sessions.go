package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/macro-obs/obsportal/internal/httpflash"
	"github.com/macro-obs/obsportal/internal/store"
	"github.com/macro-obs/obsportal/pkg/render"
	"github.com/macro-obs/obsportal/pkg/visibility"
)

// SessionCookieName carries the signed session token.
const SessionCookieName = "obsportal_session"

// DefaultSessionTTL bounds how long a login stays valid.
const DefaultSessionTTL = 12 * time.Hour

type sessionClaims struct {
	FirstName    string `json:"first_name"`
	ObserverCode string `json:"observer_code"`
	Role         string `json:"role"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies signed session cookies. The token carries the
// viewer identity so page renders do not need a database round trip.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewSessions constructs a session manager. The secret must be non-empty;
// secure marks cookies HTTPS-only.
func NewSessions(secret []byte, ttl time.Duration, secure bool) (*Sessions, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: session secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{secret: secret, ttl: ttl, secure: secure}, nil
}

// Issue writes a fresh session cookie for user.
func (s *Sessions) Issue(w http.ResponseWriter, user *store.User) error {
	now := time.Now()
	claims := sessionClaims{
		FirstName:    user.FirstName,
		ObserverCode: user.ObserverCode,
		Role:         user.UserLevel,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("auth: sign session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Viewer verifies the request's session cookie and returns the viewer it
// identifies. A missing, expired, or tampered cookie yields a zero viewer.
func (s *Sessions) Viewer(r *http.Request) (render.Viewer, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return render.Viewer{}, false
	}

	var claims sessionClaims
	token, err := jwt.ParseWithClaims(cookie.Value, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return render.Viewer{}, false
	}

	return render.Viewer{
		FirstName:    claims.FirstName,
		Email:        claims.Subject,
		ObserverCode: claims.ObserverCode,
		Role:         visibility.ParseRole(claims.Role),
		LoggedIn:     true,
	}, true
}

type viewerContextKey struct{}

// WithViewer resolves the session once per request and stores the viewer in
// the request context for downstream handlers.
func (s *Sessions) WithViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if viewer, ok := s.Viewer(r); ok {
			r = r.WithContext(context.WithValue(r.Context(), viewerContextKey{}, viewer))
		}
		next.ServeHTTP(w, r)
	})
}

// ViewerFrom returns the viewer stored by WithViewer, if any.
func ViewerFrom(ctx context.Context) (render.Viewer, bool) {
	viewer, ok := ctx.Value(viewerContextKey{}).(render.Viewer)
	return viewer, ok
}

// RequireLogin redirects anonymous requests to the login page.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ViewerFrom(r.Context()); !ok {
			httpflash.Set(w, "Please log in to continue.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
