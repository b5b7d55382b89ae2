package api

import (
	"context"
	"fmt"
	"net/http"
)

// TokenSource supplies bearer tokens to AuthTransport. The session manager
// is the canonical implementation.
type TokenSource interface {
	// ValidAccessToken returns a token unexpired at call time, refreshing
	// at most once when needed. Empty means not authenticated.
	ValidAccessToken(ctx context.Context) (string, error)

	// ForceRefresh mints a new pair using the stored refresh token,
	// bypassing the local expiry check. Used when the server rejects a
	// locally "valid" token (clock skew, server-side revocation).
	ForceRefresh(ctx context.Context) (string, error)
}

// AuthTransport is an http.RoundTripper that injects bearer tokens and
// recovers from exactly one server-side 401 per request via an explicit
// refresh-and-retry cycle. More than one retry is never attempted, which
// keeps a persistently rejecting server from causing a retry storm.
//
// Navigation is not this layer's concern: when authentication is lost the
// optional OnAuthLost hook fires and the caller decides what to do.
type AuthTransport struct {
	Base       http.RoundTripper
	Source     TokenSource
	OnAuthLost func()
}

func (t *AuthTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *AuthTransport) authLost() {
	if t.OnAuthLost != nil {
		t.OnAuthLost()
	}
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	token, err := t.Source.ValidAccessToken(ctx)
	if err != nil || token == "" {
		t.authLost()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
		}
		return nil, ErrNotAuthenticated
	}

	resp, err := t.base().RoundTrip(withBearer(req, token))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	// The server rejected a token our local expiry check accepted. One
	// explicit refresh, one retry.
	_ = resp.Body.Close()

	fresh, err := t.Source.ForceRefresh(ctx)
	if err != nil || fresh == "" {
		t.authLost()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAuthExhausted, err)
		}
		return nil, ErrAuthExhausted
	}

	retry, err := rewind(req)
	if err != nil {
		return nil, err
	}
	return t.base().RoundTrip(withBearer(retry, fresh))
}

func withBearer(req *http.Request, token string) *http.Request {
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

// rewind clones req with a replayable body. Requests built by
// http.NewRequest from an in-memory reader carry GetBody and can always be
// reissued; anything else is only retriable when bodyless.
func rewind(req *http.Request) (*http.Request, error) {
	r := req.Clone(req.Context())
	if req.Body == nil {
		return r, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("%w: request body is not replayable", ErrAuthExhausted)
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	r.Body = body
	return r, nil
}
