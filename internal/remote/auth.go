package remote

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"brightsteps/internal/database"
	"brightsteps/internal/models"
	"brightsteps/internal/security"
	"brightsteps/internal/validation"
)

// AuthRepository handles accounts and sessions for the remote
// collaborator. It implements the auth interface the session store
// consumes, caching the active session token in local durable storage so
// CurrentSession can restore identity after a restart.
type AuthRepository struct {
	db    *database.DB
	cache TokenCache

	signingKey          []byte
	sessionDuration     time.Duration
	requireConfirmation bool

	changes chan *models.Session
}

// NewAuthRepository creates an auth repository
func NewAuthRepository(db *database.DB, cache TokenCache, signingKey []byte, sessionDuration time.Duration, requireConfirmation bool) *AuthRepository {
	return &AuthRepository{
		db:                  db,
		cache:               cache,
		signingKey:          signingKey,
		sessionDuration:     sessionDuration,
		requireConfirmation: requireConfirmation,
		changes:             make(chan *models.Session, 1),
	}
}

const userColumns = `id, email, password_hash, display_name,
	COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''),
	email_confirmed, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.OAuthProvider,
		&user.OAuthSubject,
		&user.EmailConfirmed,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email address
func (r *AuthRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = ?"
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetUserByID retrieves a user by id
func (r *AuthRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = ?"
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// CurrentSession restores the session named by the cached token, or nil
// when no valid session exists. Expired or orphaned tokens are cleaned up
// on the way.
func (r *AuthRepository) CurrentSession(ctx context.Context) (*models.Session, error) {
	token, ok, err := r.cache.Get(ctx, authTokenKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached token: %w", err)
	}
	if !ok {
		return nil, nil
	}

	session, err := r.getSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil || session.IsExpired() {
		if session != nil {
			if err := r.deleteSession(ctx, token); err != nil {
				return nil, err
			}
		}
		if err := r.cache.Remove(ctx, authTokenKey); err != nil {
			return nil, fmt.Errorf("failed to drop stale token: %w", err)
		}
		return nil, nil
	}
	return session, nil
}

// SignIn exchanges credentials for a session
func (r *AuthRepository) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	user, err := r.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if r.requireConfirmation && !user.EmailConfirmed {
		return nil, ErrEmailNotConfirmed
	}
	return r.createSession(ctx, user)
}

// SignUp registers a new account. When email confirmation is required the
// returned session is nil and the caller must wait for ConfirmEmail before
// signing in.
func (r *AuthRepository) SignUp(ctx context.Context, email, password, displayName string) (*models.Session, *models.User, error) {
	if verr := validation.ValidateEmail(email); verr != nil {
		return nil, nil, verr
	}
	if verr := validation.ValidatePassword(password); verr != nil {
		return nil, nil, verr
	}
	if verr := validation.ValidateDisplayName(displayName); verr != nil {
		return nil, nil, verr
	}

	existing, err := r.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, ErrEmailTaken
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:             security.NewID(),
		Email:          email,
		PasswordHash:   hash,
		DisplayName:    displayName,
		EmailConfirmed: !r.requireConfirmation,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	query := `
		INSERT INTO users (id, email, password_hash, display_name, email_confirmed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.PasswordHash, user.DisplayName, user.EmailConfirmed, user.CreatedAt, user.UpdatedAt); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	if r.requireConfirmation {
		return nil, user, nil
	}
	session, err := r.createSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// SignOut deletes the current session row and drops the cached token
func (r *AuthRepository) SignOut(ctx context.Context) error {
	token, ok, err := r.cache.Get(ctx, authTokenKey)
	if err != nil {
		return fmt.Errorf("failed to read cached token: %w", err)
	}
	if ok {
		if err := r.deleteSession(ctx, token); err != nil {
			return err
		}
	}
	if err := r.cache.Remove(ctx, authTokenKey); err != nil {
		return fmt.Errorf("failed to drop cached token: %w", err)
	}
	return nil
}

// SessionChanges delivers externally refreshed sessions
func (r *AuthRepository) SessionChanges() <-chan *models.Session {
	return r.changes
}

// RefreshSession re-issues the access token for the current session and
// publishes the refreshed session on the change stream
func (r *AuthRepository) RefreshSession(ctx context.Context) error {
	session, err := r.CurrentSession(ctx)
	if err != nil {
		return err
	}
	select {
	case r.changes <- session:
	default:
	}
	return nil
}

// ConfirmEmail marks a pending account as confirmed
func (r *AuthRepository) ConfirmEmail(ctx context.Context, userID string) error {
	query := `
		UPDATE users
		SET email_confirmed = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	if _, err := r.db.ExecContext(ctx, query, true, userID); err != nil {
		return fmt.Errorf("failed to confirm email: %w", err)
	}
	return nil
}

func (r *AuthRepository) createSession(ctx context.Context, user *models.User) (*models.Session, error) {
	now := time.Now()
	expiresAt := now.Add(r.sessionDuration)
	token := security.GenerateSessionToken()

	query := `
		INSERT INTO auth_sessions (token, user_id, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, token, user.ID, expiresAt, now); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, err := security.NewAccessToken(r.signingKey, user.ID, user.Email, expiresAt)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, authTokenKey, token); err != nil {
		return nil, fmt.Errorf("failed to cache session token: %w", err)
	}

	return &models.Session{
		Token:       token,
		AccessToken: accessToken,
		UserID:      user.ID,
		User:        user,
		ExpiresAt:   expiresAt,
		CreatedAt:   now,
	}, nil
}

func (r *AuthRepository) getSession(ctx context.Context, token string) (*models.Session, error) {
	query := `
		SELECT token, user_id, expires_at, created_at
		FROM auth_sessions
		WHERE token = ?
	`
	session := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&session.Token,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	user, err := r.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// orphaned session row
		if err := r.deleteSession(ctx, token); err != nil {
			return nil, err
		}
		return nil, nil
	}
	session.User = user

	accessToken, err := security.NewAccessToken(r.signingKey, session.UserID, user.Email, session.ExpiresAt)
	if err != nil {
		return nil, err
	}
	session.AccessToken = accessToken
	return session, nil
}

func (r *AuthRepository) deleteSession(ctx context.Context, token string) error {
	query := "DELETE FROM auth_sessions WHERE token = ?"
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions past their expiry
func (r *AuthRepository) DeleteExpiredSessions(ctx context.Context) error {
	query := "DELETE FROM auth_sessions WHERE expires_at < ?"
	if _, err := r.db.ExecContext(ctx, query, time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}
