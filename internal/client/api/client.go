// Package api contains the HTTP bindings for the Shelfie backend: the
// unauthenticated auth endpoints, the bearer-authenticated collection and
// profile endpoints, and the transport that keeps tokens fresh.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// doJSON issues a JSON request and decodes a JSON response into out (when
// out is non-nil). Transport failures map to ErrNetwork, elapsed deadlines
// to ErrTimeout, and non-2xx statuses to an error carrying the server's
// detail message (ErrAuth for 401/403).
func doJSON(ctx context.Context, hc *http.Client, method, url string, header http.Header, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := hc.Do(req)
	if err != nil {
		return mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func mapTransportError(err error) error {
	// http.Client wraps sentinel matching still works through url.Error,
	// but deadline errors need to become ErrTimeout for callers.
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	// AuthTransport surfaces its own sentinels; pass them through intact.
	if errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrAuthExhausted) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

func statusError(resp *http.Response) error {
	detail := decodeDetail(resp.Body)
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if detail == "" {
			detail = resp.Status
		}
		return fmt.Errorf("%w: %s", ErrAuth, detail)
	default:
		if detail == "" {
			detail = resp.Status
		}
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, detail)
	}
}

func decodeDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64*1024))
	if err != nil {
		return ""
	}
	var d detailBody
	if err := json.Unmarshal(data, &d); err != nil || d.Detail == "" {
		return strings.TrimSpace(string(data))
	}
	return d.Detail
}

func joinURL(base string, parts ...string) string {
	u := strings.TrimRight(base, "/")
	for _, p := range parts {
		u += "/" + strings.Trim(p, "/")
	}
	return u
}

func bearer(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}

// boundCtx applies the per-request deadline used across all API calls.
func boundCtx(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
