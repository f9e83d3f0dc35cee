package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"

	"brightsteps/internal/models"
	"brightsteps/internal/security"
)

// OAuthProvider bundles a provider's oauth2 config with its userinfo
// endpoint
type OAuthProvider struct {
	Name        string
	Config      *oauth2.Config
	UserInfoURL string
}

type oauthUserInfo struct {
	Subject string
	Email   string
	Name    string
}

// GoogleProvider builds the Google OAuth provider
func GoogleProvider(clientID, clientSecret, redirectURL string) OAuthProvider {
	return OAuthProvider{
		Name: "google",
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
	}
}

// FacebookProvider builds the Facebook OAuth provider
func FacebookProvider(clientID, clientSecret, redirectURL string) OAuthProvider {
	return OAuthProvider{
		Name: "facebook",
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"email", "public_profile"},
			Endpoint:     facebook.Endpoint,
		},
		UserInfoURL: "https://graph.facebook.com/me?fields=id,name,email",
	}
}

// AuthCodeURL returns the provider's consent URL for the given state
func (p OAuthProvider) AuthCodeURL(state string) string {
	return p.Config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Configured reports whether the provider has credentials
func (p OAuthProvider) Configured() bool {
	return p.Config != nil && p.Config.ClientID != "" && p.Config.ClientSecret != ""
}

// OAuthSignIn exchanges an authorization code and signs the matching user
// in, creating or linking the account as needed: an existing OAuth link
// wins, then an email match is linked, then a fresh account is created.
func (r *AuthRepository) OAuthSignIn(ctx context.Context, provider OAuthProvider, code string) (*models.Session, error) {
	if !provider.Configured() {
		return nil, errors.New("oauth provider not configured")
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	token, err := provider.Config.Exchange(exchangeCtx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	info, err := fetchOAuthUserInfo(exchangeCtx, provider, token)
	if err != nil {
		return nil, err
	}
	if info.Subject == "" || info.Email == "" {
		return nil, errors.New("oauth provider returned incomplete profile")
	}

	user, err := r.findOrLinkOAuthUser(ctx, provider.Name, info)
	if err != nil {
		return nil, err
	}
	return r.createSession(ctx, user)
}

func (r *AuthRepository) findOrLinkOAuthUser(ctx context.Context, providerName string, info oauthUserInfo) (*models.User, error) {
	user, err := r.getUserByOAuth(ctx, providerName, info.Subject)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user, err = r.GetUserByEmail(ctx, info.Email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if err := r.linkOAuthProvider(ctx, user.ID, providerName, info.Subject); err != nil {
			return nil, err
		}
		user.OAuthProvider = providerName
		user.OAuthSubject = info.Subject
		return user, nil
	}

	displayName := info.Name
	if displayName == "" {
		displayName = info.Email
	}
	now := time.Now()
	user = &models.User{
		ID:             security.NewID(),
		Email:          info.Email,
		DisplayName:    displayName,
		OAuthProvider:  providerName,
		OAuthSubject:   info.Subject,
		EmailConfirmed: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	query := `
		INSERT INTO users (id, email, password_hash, display_name, oauth_provider, oauth_subject, email_confirmed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, "", user.DisplayName,
		user.OAuthProvider, user.OAuthSubject, user.EmailConfirmed,
		user.CreatedAt, user.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to create oauth user: %w", err)
	}
	return user, nil
}

func (r *AuthRepository) getUserByOAuth(ctx context.Context, provider, subject string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE oauth_provider = ? AND oauth_subject = ?"
	return scanUser(r.db.QueryRowContext(ctx, query, provider, subject))
}

func (r *AuthRepository) linkOAuthProvider(ctx context.Context, userID, provider, subject string) error {
	query := `
		UPDATE users
		SET oauth_provider = ?, oauth_subject = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		AND (oauth_provider IS NULL OR oauth_provider = '')
	`
	result, err := r.db.ExecContext(ctx, query, provider, subject, userID)
	if err != nil {
		return fmt.Errorf("failed to link oauth provider: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read link result: %w", err)
	}
	if rows == 0 {
		return errors.New("oauth provider already linked")
	}
	return nil
}

func fetchOAuthUserInfo(ctx context.Context, provider OAuthProvider, token *oauth2.Token) (oauthUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get(provider.UserInfoURL)
	if err != nil {
		return oauthUserInfo{}, fmt.Errorf("failed to fetch %s user info: %w", provider.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return oauthUserInfo{}, fmt.Errorf("failed to fetch %s user info: status %d", provider.Name, resp.StatusCode)
	}

	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return oauthUserInfo{}, fmt.Errorf("failed to parse %s user info: %w", provider.Name, err)
	}
	return oauthUserInfo{Subject: payload.ID, Email: payload.Email, Name: payload.Name}, nil
}
