package api

import "errors"

// Sentinel errors for the Shelfie backend API. Callers match with errors.Is;
// messages from the server's detail field are attached by wrapping.
var (
	// Transport failed before a response was received.
	ErrNetwork = errors.New("network error")

	// The bounded request deadline elapsed.
	ErrTimeout = errors.New("request timed out")

	// Credentials rejected by the server.
	ErrAuth = errors.New("authentication failed")

	// Server payload is missing required fields.
	ErrInvalidResponse = errors.New("invalid server response")

	// No valid or refreshable access token is available.
	ErrNotAuthenticated = errors.New("not authenticated")

	// A server-side 401 survived the single refresh-and-retry cycle.
	ErrAuthExhausted = errors.New("authentication failed and token refresh failed")

	// A locally checked token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
)
