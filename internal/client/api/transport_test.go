package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is a scriptable TokenSource.
type fakeSource struct {
	token      string
	validErr   error
	refreshed  string
	refreshErr error

	validCalls   int
	refreshCalls int
}

func (f *fakeSource) ValidAccessToken(ctx context.Context) (string, error) {
	f.validCalls++
	return f.token, f.validErr
}

func (f *fakeSource) ForceRefresh(ctx context.Context) (string, error) {
	f.refreshCalls++
	return f.refreshed, f.refreshErr
}

func authClient(src TokenSource, onLost func()) *http.Client {
	return &http.Client{Transport: &AuthTransport{Source: src, OnAuthLost: onLost}}
}

func TestAuthTransport_InjectsBearer(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	src := &fakeSource{token: "tok-1"}
	resp, err := authClient(src, nil).Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Zero(t, src.refreshCalls)
}

func TestAuthTransport_RefreshRetryOnceTransparently(t *testing.T) {
	var hits int
	var tokensSeen, bodiesSeen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		tokensSeen = append(tokensSeen, r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		bodiesSeen = append(bodiesSeen, string(body))
		if hits == 1 {
			http.Error(w, `{"detail":"token revoked"}`, http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	src := &fakeSource{token: "stale", refreshed: "fresh"}
	var lost bool
	hc := authClient(src, func() { lost = true })

	resp, err := hc.Post(srv.URL, "application/json", strings.NewReader(`{"n":1}`))
	require.NoError(t, err, "the 401 must be invisible to the caller")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, hits)
	assert.Equal(t, 1, src.refreshCalls)
	assert.Equal(t, []string{"Bearer stale", "Bearer fresh"}, tokensSeen)
	assert.Equal(t, []string{`{"n":1}`, `{"n":1}`}, bodiesSeen, "body replayed on retry")
	assert.False(t, lost)
}

func TestAuthTransport_SecondRejectionIsNotRetried(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, `{"detail":"nope"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	src := &fakeSource{token: "stale", refreshed: "fresh"}
	resp, err := authClient(src, nil).Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "retry result passes through")
	assert.Equal(t, 2, hits, "exactly one retry, never a storm")
	assert.Equal(t, 1, src.refreshCalls)
}

func TestAuthTransport_NoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not reach the server without a token")
	}))
	defer srv.Close()

	var lost bool
	src := &fakeSource{token: ""}
	_, err := authClient(src, func() { lost = true }).Get(srv.URL)

	// http.Client wraps transport errors in *url.Error; Is must see through.
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.True(t, lost)
}

func TestAuthTransport_RefreshFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"token revoked"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	var lost bool
	src := &fakeSource{token: "stale", refreshErr: ErrNotAuthenticated}
	_, err := authClient(src, func() { lost = true }).Get(srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthExhausted)
	assert.True(t, lost)
	assert.Equal(t, 1, src.refreshCalls)
}
