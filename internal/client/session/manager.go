// Package session owns the client's authentication state: who is logged in,
// whether the access token is still fresh, and the persisted credential
// material. It is the single writer of the token store; every operation
// holds the manager's lock for its full duration so a logout can never race
// an in-flight refresh and resurrect a token.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shelfie-app/shelfie/internal/client/api"
	"github.com/shelfie-app/shelfie/internal/client/models"
	"github.com/shelfie-app/shelfie/internal/client/repositories/tokens"
	"github.com/shelfie-app/shelfie/internal/dbx"
	"github.com/shelfie-app/shelfie/internal/logging"
)

// placeholderEmail is used when a session is restored from a refresh token
// alone and no profile was cached.
const placeholderEmail = "user@example.com"

// defaultPort is the provisional identification-service port until the
// server-side profile says otherwise.
const defaultPort = "8080"

// Manager is the auth session manager. Construct it explicitly and pass it
// by handle; there is no package-level state.
type Manager struct {
	db  *sql.DB
	api *api.AuthClient
	log logging.Logger

	mu            sync.Mutex
	user          *models.User
	authenticated bool
	loading       bool
	authErr       string
}

func NewManager(db *sql.DB, authClient *api.AuthClient, log logging.Logger) *Manager {
	return &Manager{db: db, api: authClient, log: log}
}

func (m *Manager) repo(db dbx.DBTX) tokens.Repository {
	if db == nil {
		db = m.db
	}
	return tokens.NewSQLiteRepository(db)
}

// User returns a copy of the cached profile, or nil when logged out.
func (m *Manager) User() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticated
}

func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// AuthError returns the message of the last failed identity operation.
func (m *Manager) AuthError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authErr
}

// Load restores the session from the local store on startup. With an access
// token and a well-formed cached profile the session is authenticated
// without touching the network. With only a refresh token, one refresh is
// attempted and a minimal profile is synthesized when none was cached. All
// failures degrade to an unauthenticated session; Load never fails.
func (m *Manager) Load(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = true
	defer func() { m.loading = false }()

	repo := m.repo(nil)

	access, err := repo.Get(ctx, tokens.KeyAccessToken)
	if err != nil {
		m.log.Error(ctx, "failed to read stored access token", "error", err)
		return
	}
	refresh, err := repo.Get(ctx, tokens.KeyRefreshToken)
	if err != nil {
		m.log.Error(ctx, "failed to read stored refresh token", "error", err)
		return
	}
	userData, err := repo.Get(ctx, tokens.KeyUserData)
	if err != nil {
		m.log.Error(ctx, "failed to read stored profile", "error", err)
		return
	}

	if access != "" && userData != "" {
		var u models.User
		if jsonErr := json.Unmarshal([]byte(userData), &u); jsonErr != nil || u.Email == "" {
			m.log.Warn(ctx, "stored profile is malformed, clearing auth state")
			m.clearLocked(ctx)
			return
		}
		m.user = &u
		m.authenticated = true
		m.log.Info(ctx, "session restored from local store", "email", u.Email)
		return
	}

	if refresh == "" {
		return
	}

	pair, err := m.api.Refresh(ctx, refresh)
	if err != nil {
		m.log.Warn(ctx, "token refresh failed during initial load", "error", err)
		m.clearLocked(ctx)
		return
	}

	u := &models.User{Email: placeholderEmail}
	if userData != "" {
		var cached models.User
		if jsonErr := json.Unmarshal([]byte(userData), &cached); jsonErr == nil && cached.Email != "" {
			u = &cached
		}
	}

	if err := m.persistLocked(ctx, pair, u); err != nil {
		m.log.Error(ctx, "failed to persist refreshed session", "error", err)
		m.clearLocked(ctx)
		return
	}
	m.user = u
	m.authenticated = true
	m.log.Info(ctx, "session restored via refresh token", "email", u.Email)
}

// Register creates a new account. By design it does not establish a
// session: any stale local auth state is purged and the caller is expected
// to go through an explicit login.
func (m *Manager) Register(ctx context.Context, email, password, gpuEndpoint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = true
	m.authErr = ""
	defer func() { m.loading = false }()

	if _, err := m.api.Register(ctx, email, password, gpuEndpoint); err != nil {
		m.authErr = err.Error()
		return fmt.Errorf("registration failed: %w", err)
	}

	m.clearLocked(ctx)
	m.log.Info(ctx, "registration succeeded, explicit login required", "email", email)
	return nil
}

// Login authenticates and persists the returned token pair together with a
// provisional profile built from the email. Profile enrichment from the
// server is best-effort and never fails the login.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = true
	m.authErr = ""
	defer func() { m.loading = false }()

	pair, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.authErr = err.Error()
		return fmt.Errorf("login failed: %w", err)
	}

	u := &models.User{Email: email, Port: defaultPort}
	if err := m.persistLocked(ctx, pair, u); err != nil {
		m.authErr = err.Error()
		return fmt.Errorf("failed to persist session: %w", err)
	}
	m.user = u
	m.authenticated = true

	if fields, err := m.api.Profile(ctx, pair.AccessToken); err != nil {
		m.log.Warn(ctx, "profile enrichment after login failed", "error", err)
	} else {
		m.mergeFieldsLocked(ctx, fields)
	}

	m.log.Info(ctx, "login succeeded", "email", email)
	return nil
}

// Logout notifies the server best-effort and unconditionally purges local
// auth state. It never fails: a dead server cannot keep a user logged in.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = true
	defer func() { m.loading = false }()

	repo := m.repo(nil)
	access, err := repo.Get(ctx, tokens.KeyAccessToken)
	if err != nil {
		m.log.Error(ctx, "failed to read access token during logout", "error", err)
	}
	if access != "" {
		if err := m.api.Logout(ctx, access); err != nil {
			m.log.Warn(ctx, "server logout notification failed", "error", err)
		}
	}

	m.clearLocked(ctx)
	m.log.Info(ctx, "logged out")
}

// UpdateSettings applies a partial settings update server-side and merges
// it into the full stored profile only after the server acknowledges.
func (m *Manager) UpdateSettings(ctx context.Context, settings api.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = true
	defer func() { m.loading = false }()

	token := m.validAccessTokenLocked(ctx)
	if token == "" {
		return api.ErrNotAuthenticated
	}

	if err := m.api.UpdateProfile(ctx, token, settings); err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}

	u := m.loadUserLocked(ctx)
	if u == nil {
		u = &models.User{}
	}
	if settings.GPUEndpoint != nil {
		u.GPUEndpoint = *settings.GPUEndpoint
	}
	if settings.OpenAIAPIKey != nil {
		u.OpenAIAPIKey = *settings.OpenAIAPIKey
	}
	if settings.Port != nil {
		u.Port = *settings.Port
	}
	m.saveUserLocked(ctx, u)
	return nil
}

// FetchProfile pulls the server-authoritative profile fields and merges
// them into the cached profile. It is best-effort: every failure is logged
// and reported as (nil, nil).
func (m *Manager) FetchProfile(ctx context.Context) (*api.ProfileFields, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	token := m.validAccessTokenLocked(ctx)
	if token == "" {
		m.log.Warn(ctx, "cannot fetch profile without a valid token")
		return nil, nil
	}

	fields, err := m.api.Profile(ctx, token)
	if err != nil {
		m.log.Warn(ctx, "profile fetch failed", "error", err)
		return nil, nil
	}

	m.mergeFieldsLocked(ctx, fields)
	return fields, nil
}

// ValidAccessToken implements api.TokenSource. The returned token is
// guaranteed unexpired at call time; expired or absent tokens trigger
// exactly one refresh. Empty means not authenticated — any failure along
// the way clears the session.
func (m *Manager) ValidAccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validAccessTokenLocked(ctx), nil
}

// ForceRefresh implements api.TokenSource. It refreshes using the stored
// refresh token without consulting the local expiry check, serving the case
// where the server rejects a token our clock still considers valid.
func (m *Manager) ForceRefresh(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	repo := m.repo(nil)
	refresh, err := repo.Get(ctx, tokens.KeyRefreshToken)
	if err != nil || refresh == "" {
		m.clearLocked(ctx)
		return "", api.ErrNotAuthenticated
	}

	pair, err := m.api.Refresh(ctx, refresh)
	if err != nil {
		m.clearLocked(ctx)
		return "", fmt.Errorf("token refresh failed: %w", err)
	}

	if err := m.persistLocked(ctx, pair, m.user); err != nil {
		m.clearLocked(ctx)
		return "", fmt.Errorf("failed to persist refreshed tokens: %w", err)
	}
	return pair.AccessToken, nil
}

func (m *Manager) validAccessTokenLocked(ctx context.Context) string {
	repo := m.repo(nil)

	access, err := repo.Get(ctx, tokens.KeyAccessToken)
	if err != nil {
		m.log.Error(ctx, "failed to read access token", "error", err)
		m.clearLocked(ctx)
		return ""
	}
	if access != "" && !expired(access) {
		return access
	}

	refresh, err := repo.Get(ctx, tokens.KeyRefreshToken)
	if err != nil || refresh == "" {
		m.clearLocked(ctx)
		return ""
	}
	if expired(refresh) {
		m.log.Warn(ctx, "cannot refresh", "error", api.ErrTokenExpired)
		m.clearLocked(ctx)
		return ""
	}

	pair, err := m.api.Refresh(ctx, refresh)
	if err != nil {
		m.log.Warn(ctx, "token refresh failed", "error", err)
		m.clearLocked(ctx)
		return ""
	}

	if err := m.persistLocked(ctx, pair, m.user); err != nil {
		m.log.Error(ctx, "failed to persist refreshed tokens", "error", err)
		m.clearLocked(ctx)
		return ""
	}
	return pair.AccessToken
}

// persistLocked writes the token pair and profile in a single transaction.
// Tokens and profile are always persisted together so a crash can never
// leave half a session behind.
func (m *Manager) persistLocked(ctx context.Context, pair *models.TokenPair, u *models.User) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := m.repo(tx)
		if err := repo.Set(ctx, tokens.KeyAccessToken, pair.AccessToken); err != nil {
			return err
		}
		if err := repo.Set(ctx, tokens.KeyRefreshToken, pair.RefreshToken); err != nil {
			return err
		}
		if u != nil {
			data, err := json.Marshal(u)
			if err != nil {
				return err
			}
			if err := repo.Set(ctx, tokens.KeyUserData, string(data)); err != nil {
				return err
			}
		}
		return nil
	})
}

// clearLocked wipes persisted credentials and resets in-memory state to
// unauthenticated.
func (m *Manager) clearLocked(ctx context.Context) {
	if err := m.repo(nil).Clear(ctx); err != nil {
		m.log.Error(ctx, "failed to clear credential store", "error", err)
	}
	m.user = nil
	m.authenticated = false
}

func (m *Manager) loadUserLocked(ctx context.Context) *models.User {
	data, err := m.repo(nil).Get(ctx, tokens.KeyUserData)
	if err != nil || data == "" {
		if m.user != nil {
			u := *m.user
			return &u
		}
		return nil
	}
	var u models.User
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		return nil
	}
	return &u
}

func (m *Manager) saveUserLocked(ctx context.Context, u *models.User) {
	data, err := json.Marshal(u)
	if err != nil {
		m.log.Error(ctx, "failed to encode profile", "error", err)
		return
	}
	if err := m.repo(nil).Set(ctx, tokens.KeyUserData, string(data)); err != nil {
		m.log.Error(ctx, "failed to store profile", "error", err)
		return
	}
	m.user = u
}

// mergeFieldsLocked folds server-side profile fields into the cached
// profile, keeping local values where the server returned nothing.
func (m *Manager) mergeFieldsLocked(ctx context.Context, fields *api.ProfileFields) {
	u := m.loadUserLocked(ctx)
	if u == nil {
		return
	}
	if fields.GPUEndpoint != "" {
		u.GPUEndpoint = fields.GPUEndpoint
	}
	if fields.OpenAIAPIKey != "" {
		u.OpenAIAPIKey = fields.OpenAIAPIKey
	}
	if fields.Port != "" {
		u.Port = fields.Port
	}
	m.saveUserLocked(ctx, u)
}
