package session

import (
	"errors"
	"net/http"
)

// ErrSessionExpired is returned when a request is short-circuited
// client-side because the stored token is missing or expired. The
// request is never transmitted.
var ErrSessionExpired = errors.New("session expired")

// Transport is an http.RoundTripper that attaches the stored bearer
// token to every outgoing request. Requests with an expired or missing
// token fail before transmission and redirect to login; an unauthorized
// response from the server clears the token and redirects as well, so
// the server's 401 stays the authority regardless of the client-side
// expiry heuristic.
type Transport struct {
	Guard *Guard
	Base  http.RoundTripper
}

func NewTransport(guard *Guard) *Transport {
	return &Transport{Guard: guard, Base: http.DefaultTransport}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.Guard.Authenticated() {
		t.Guard.RedirectToLogin()
		return nil, ErrSessionExpired
	}

	// RoundTrippers must not mutate the original request.
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+t.Guard.Token())

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(clone)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		t.Guard.RedirectToLogin()
	}

	return resp, nil
}
