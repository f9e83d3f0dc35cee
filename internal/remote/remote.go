// Package remote implements the remote data collaborator over SQL. Each
// repository speaks the dialect-aware database layer and satisfies one of
// the collaborator interfaces the stores consume.
package remote

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
)

// authTokenKey is the local KV key the auth repository caches the session
// token under, so a signed-in session survives process restart
const authTokenKey = "auth.session_token"

// TokenCache is the durable local storage the auth repository keeps its
// session token in. localstore.Store satisfies it.
type TokenCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
