// Package tokens implements the durable key-value credential store of the
// Shelfie client: access token, refresh token and the cached user profile.
package tokens

import "context"

// Well-known credential keys.
const (
	KeyAccessToken  = "auth_access_token"
	KeyRefreshToken = "auth_refresh_token"
	KeyUserData     = "auth_user_data"
)

// Repository is a small key-value store for credential material.
// A missing key yields ("", nil); callers must treat empty as absent.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
