// Package session implements the client-side half of authentication: a
// locally stored bearer token, an advisory expiry check on its payload
// and route gating for the browser app. The server's signature and
// expiry verification stays authoritative; everything here only decides
// what the client renders and whether a request is worth sending.
package session

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// TokenKey is the fixed key the bearer token lives under in client
// storage.
const TokenKey = "projecthub_token"

// expiryMargin is subtracted from the token's lifetime: a token expiring
// within the margin is already treated as expired so requests do not
// race the server-side cutoff.
const expiryMargin = 60 * time.Second

// Store is client-local persistent storage (localStorage in a browser,
// a map in tests).
type Store interface {
	Get(key string) string
	Set(key, value string)
	Remove(key string)
}

// MemoryStore is a map-backed Store.
type MemoryStore struct {
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) string { return s.values[key] }
func (s *MemoryStore) Set(key, value string) { s.values[key] = value }
func (s *MemoryStore) Remove(key string)     { delete(s.values, key) }

// Guard decides, purely from the stored token, whether the session is
// authenticated, and routes views accordingly. The redirect handler is
// injected, never module-level state; deferring dispatch to avoid
// re-entrant navigation is the handler's concern.
type Guard struct {
	store      Store
	navigate   func(path string)
	now        func() time.Time
	protected  map[string]bool
	publicOnly map[string]bool
	loginPath  string
	homePath   string
}

func NewGuard(store Store, navigate func(path string)) *Guard {
	return &Guard{
		store:      store,
		navigate:   navigate,
		now:        time.Now,
		protected:  make(map[string]bool),
		publicOnly: make(map[string]bool),
		loginPath:  "/login",
		homePath:   "/dashboard",
	}
}

// Protect registers views that render only for an authenticated session.
func (g *Guard) Protect(paths ...string) {
	for _, p := range paths {
		g.protected[p] = true
	}
}

// PublicOnly registers views (login, register) that redirect away when
// the session is already authenticated.
func (g *Guard) PublicOnly(paths ...string) {
	for _, p := range paths {
		g.publicOnly[p] = true
	}
}

// SetToken stores the bearer token; called on login.
func (g *Guard) SetToken(token string) {
	g.store.Set(TokenKey, token)
}

// Token returns the stored bearer token, or "" when absent.
func (g *Guard) Token() string {
	return g.store.Get(TokenKey)
}

// Clear drops the stored token; called on logout and on detected expiry.
func (g *Guard) Clear() {
	g.store.Remove(TokenKey)
}

// Authenticated reports whether a non-expired token is stored.
func (g *Guard) Authenticated() bool {
	token := g.Token()
	return token != "" && !g.expired(token)
}

// Resolve returns the path the app should render for the requested one:
// the path itself when allowed, the login view for unauthenticated
// access to a protected view, the landing view for public-only paths of
// an authenticated session and for unknown paths.
func (g *Guard) Resolve(path string) string {
	authed := g.Authenticated()

	switch {
	case g.protected[path]:
		if !authed {
			return g.loginPath
		}
		return path
	case g.publicOnly[path]:
		if authed {
			return g.homePath
		}
		return path
	default:
		// Unknown path: redirect to the session-appropriate landing view.
		if authed {
			return g.homePath
		}
		return g.loginPath
	}
}

// RedirectToLogin clears the token and dispatches the login redirect.
func (g *Guard) RedirectToLogin() {
	g.Clear()
	if g.navigate != nil {
		g.navigate(g.loginPath)
	}
}

// expired decodes the token's payload segment and compares its expiry
// claim against now plus the safety margin. The signature is NOT
// verified here: the server does that on every request, this check only
// saves a round trip. Missing or unparseable payloads count as expired.
func (g *Guard) expired(token string) bool {
	segments := strings.Split(token, ".")
	if len(segments) < 2 {
		return true
	}

	payload, err := base64.RawURLEncoding.DecodeString(segments[1])
	if err != nil {
		return true
	}

	var claims struct {
		Exp int64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil || claims.Exp == 0 {
		return true
	}

	return time.Unix(claims.Exp, 0).Before(g.now().Add(expiryMargin))
}
