package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shelfie-app/shelfie/internal/client/models"
)

// AuthClient speaks to the auth endpoints of the Shelfie backend. It is
// deliberately token-unaware: the session manager owns the tokens and
// passes them in explicitly where a call needs one.
type AuthClient struct {
	baseURL string
	hc      *http.Client
	timeout time.Duration
}

// NewAuthClient binds an AuthClient to the given base URL. All calls are
// bounded by timeout (login/logout semantics from the product require a
// hard bound so a dead server never wedges the client).
func NewAuthClient(baseURL string, timeout time.Duration) *AuthClient {
	return &AuthClient{baseURL: baseURL, hc: &http.Client{}, timeout: timeout}
}

// Register creates a new account. It never returns tokens: the server
// design requires an explicit login afterwards.
func (c *AuthClient) Register(ctx context.Context, email, password, gpuEndpoint string) (*models.User, error) {
	ctx, cancel := boundCtx(ctx, c.timeout)
	defer cancel()

	var resp registerResponse
	in := registerRequest{Email: email, Password: password, GPUEndpoint: gpuEndpoint}
	if err := doJSON(ctx, c.hc, http.MethodPost, joinURL(c.baseURL, "auth/register"), nil, in, &resp); err != nil {
		return nil, err
	}

	if resp.ID == 0 || resp.Email == "" {
		return nil, fmt.Errorf("%w: registration payload missing id or email", ErrInvalidResponse)
	}

	ep := resp.GPUEndpoint
	if ep == "" {
		ep = gpuEndpoint
	}
	return &models.User{ID: resp.ID, Email: resp.Email, GPUEndpoint: ep}, nil
}

// Login exchanges credentials for a token pair. Both tokens must be present
// in the response or the call fails with ErrInvalidResponse.
func (c *AuthClient) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	ctx, cancel := boundCtx(ctx, c.timeout)
	defer cancel()

	var pair models.TokenPair
	in := loginRequest{Email: email, Password: password}
	if err := doJSON(ctx, c.hc, http.MethodPost, joinURL(c.baseURL, "auth/login"), nil, in, &pair); err != nil {
		return nil, err
	}

	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return nil, fmt.Errorf("%w: login payload missing tokens", ErrInvalidResponse)
	}
	return &pair, nil
}

// Refresh mints a new token pair from a refresh token.
func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	ctx, cancel := boundCtx(ctx, c.timeout)
	defer cancel()

	var pair models.TokenPair
	in := refreshRequest{RefreshToken: refreshToken}
	if err := doJSON(ctx, c.hc, http.MethodPost, joinURL(c.baseURL, "auth/refresh"), nil, in, &pair); err != nil {
		return nil, err
	}

	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return nil, fmt.Errorf("%w: refresh payload missing tokens", ErrInvalidResponse)
	}
	return &pair, nil
}

// Logout notifies the server that the session ends. The token travels both
// in the bearer header and the body, matching the backend contract.
func (c *AuthClient) Logout(ctx context.Context, accessToken string) error {
	ctx, cancel := boundCtx(ctx, c.timeout)
	defer cancel()

	in := logoutRequest{Token: accessToken}
	return doJSON(ctx, c.hc, http.MethodPost, joinURL(c.baseURL, "auth/logout"), bearer(accessToken), in, nil)
}

// Profile reads the server-authoritative profile fields.
func (c *AuthClient) Profile(ctx context.Context, accessToken string) (*ProfileFields, error) {
	ctx, cancel := boundCtx(ctx, c.timeout)
	defer cancel()

	var fields ProfileFields
	if err := doJSON(ctx, c.hc, http.MethodGet, joinURL(c.baseURL, "auth/gpu-endpoint"), bearer(accessToken), nil, &fields); err != nil {
		return nil, err
	}
	return &fields, nil
}

// UpdateProfile applies a partial settings update server-side.
func (c *AuthClient) UpdateProfile(ctx context.Context, accessToken string, settings Settings) error {
	ctx, cancel := boundCtx(ctx, c.timeout)
	defer cancel()

	return doJSON(ctx, c.hc, http.MethodPut, joinURL(c.baseURL, "auth/gpu-endpoint"), bearer(accessToken), settings, nil)
}
