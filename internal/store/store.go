// Package store holds the client-side state containers: session identity,
// user settings, and the child registry. Each store is a single
// process-wide instance; all mutation goes through its methods, and the
// presentation layer observes state through Subscribe.
package store

import (
	"context"
	"errors"

	"brightsteps/internal/models"
)

var (
	ErrChildNotFound  = errors.New("child not found")
	ErrNotInitialized = errors.New("store not initialized")
)

// Durable storage keys. Keys are store-specific and never shared, so two
// stores can never clobber each other's data.
const (
	demoModeKey = "session.demo_mode"
	settingsKey = "settings.preferences"
	childrenKey = "children.demo_list"
)

// KV is the durable on-device key-value storage the stores persist into.
// localstore.Store satisfies it.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// AuthClient is the remote authentication collaborator
type AuthClient interface {
	// CurrentSession returns the existing session, or nil when signed out
	CurrentSession(ctx context.Context) (*models.Session, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	// SignUp may return a nil session with a non-nil user when the account
	// requires email confirmation before it can be used
	SignUp(ctx context.Context, email, password, displayName string) (*models.Session, *models.User, error)
	SignOut(ctx context.Context) error
	// SessionChanges delivers externally refreshed sessions; nil means the
	// session was revoked
	SessionChanges() <-chan *models.Session
}

// ChildAPI is the remote data collaborator for child profiles
type ChildAPI interface {
	ListChildren(ctx context.Context, parentID string) ([]models.Child, error)
	InsertChild(ctx context.Context, parentID string, input models.ChildInput) (*models.Child, error)
	UpdateChild(ctx context.Context, id string, patch models.ChildPatch) (*models.Child, error)
	DeleteChild(ctx context.Context, id string) error
}

// SettingsAPI is the remote data collaborator for user settings
type SettingsAPI interface {
	// LoadSettings returns nil when no remote record exists for the user
	LoadSettings(ctx context.Context, userID string) (*models.UserSettings, error)
	SaveSettings(ctx context.Context, userID string, settings models.UserSettings) error
}
