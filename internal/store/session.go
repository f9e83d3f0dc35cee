package store

import (
	"context"
	"log"
	"sync"

	"brightsteps/internal/models"
)

// SessionState is a snapshot of the current identity. Exactly one of the
// three shapes holds: signed out (everything false/nil), demo mode
// (IsDemoMode and IsAuthenticated true, no session), or authenticated
// (session and user set).
type SessionState struct {
	Session         *models.Session
	User            *models.User
	IsAuthenticated bool
	IsDemoMode      bool
	IsLoading       bool
}

// SessionStore owns the current identity and the durable demo-mode flag
type SessionStore struct {
	kv     KV
	auth   AuthClient
	logger *log.Logger

	mu      sync.Mutex
	state   SessionState
	subs    map[int]func(SessionState)
	nextSub int
}

// NewSessionStore creates a session store in the uninitialized state.
// Initialize must be called before the state is meaningful.
func NewSessionStore(kv KV, auth AuthClient, logger *log.Logger) *SessionStore {
	return &SessionStore{
		kv:     kv,
		auth:   auth,
		logger: logger,
		state:  SessionState{IsLoading: true},
		subs:   make(map[int]func(SessionState)),
	}
}

// State returns a snapshot of the current session state
func (s *SessionStore) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener called with a snapshot after every state
// change. The returned function unsubscribes.
func (s *SessionStore) Subscribe(fn func(SessionState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *SessionStore) setState(mutate func(*SessionState)) {
	s.mu.Lock()
	mutate(&s.state)
	snap := s.state
	listeners := make([]func(SessionState), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

// Initialize resolves the startup identity. The durable demo flag is
// checked first; when set, no remote session lookup happens at all.
// Loading is cleared no matter which path runs or fails.
func (s *SessionStore) Initialize(ctx context.Context) {
	defer s.setState(func(st *SessionState) { st.IsLoading = false })

	value, ok, err := s.kv.Get(ctx, demoModeKey)
	if err != nil {
		s.logger.Printf("session: failed to read demo flag: %v", err)
	}
	if ok && value == "true" {
		s.setState(func(st *SessionState) {
			st.IsDemoMode = true
			st.IsAuthenticated = true
		})
		return
	}

	session, err := s.auth.CurrentSession(ctx)
	if err != nil {
		s.logger.Printf("session: failed to restore session: %v", err)
		return
	}
	if session == nil {
		return
	}
	s.setState(func(st *SessionState) {
		st.Session = session
		st.User = session.User
		st.IsAuthenticated = true
	})
}

// SignIn exchanges credentials through the remote collaborator. A failure
// is returned to the caller and leaves the store signed out; it is never
// panicked or half-applied.
func (s *SessionStore) SignIn(ctx context.Context, email, password string) error {
	session, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		s.setState(func(st *SessionState) {
			st.IsAuthenticated = false
			st.IsLoading = false
		})
		return err
	}
	s.setState(func(st *SessionState) {
		st.Session = session
		st.User = session.User
		st.IsAuthenticated = true
		st.IsDemoMode = false
		st.IsLoading = false
	})
	return nil
}

// SignUp registers a new account. When the remote requires email
// confirmation the session is nil and the store stays unauthenticated,
// but the created user record is still attached.
func (s *SessionStore) SignUp(ctx context.Context, email, password, displayName string) error {
	session, user, err := s.auth.SignUp(ctx, email, password, displayName)
	if err != nil {
		s.setState(func(st *SessionState) {
			st.IsAuthenticated = false
			st.IsLoading = false
		})
		return err
	}
	s.setState(func(st *SessionState) {
		st.Session = session
		st.User = user
		st.IsAuthenticated = session != nil
		st.IsDemoMode = false
		st.IsLoading = false
	})
	return nil
}

// SignOut clears local identity unconditionally: the durable demo flag is
// removed and state resets to signed out even if the remote call or the
// flag removal fails.
func (s *SessionStore) SignOut(ctx context.Context) {
	if err := s.auth.SignOut(ctx); err != nil {
		s.logger.Printf("session: remote sign-out failed: %v", err)
	}
	if err := s.kv.Remove(ctx, demoModeKey); err != nil {
		s.logger.Printf("session: failed to clear demo flag: %v", err)
	}
	s.setState(func(st *SessionState) {
		*st = SessionState{}
	})
}

// EnterDemoMode sets the durable demo flag and switches to the local-only
// identity
func (s *SessionStore) EnterDemoMode(ctx context.Context) {
	if err := s.kv.Set(ctx, demoModeKey, "true"); err != nil {
		s.logger.Printf("session: failed to persist demo flag: %v", err)
	}
	s.setState(func(st *SessionState) {
		st.Session = nil
		st.User = nil
		st.IsAuthenticated = true
		st.IsDemoMode = true
		st.IsLoading = false
	})
}

// SetSession applies an externally refreshed session. A nil session resets
// to signed out without touching the durable demo flag; only SignOut
// clears the flag. The two deliberately differ.
func (s *SessionStore) SetSession(session *models.Session) {
	s.setState(func(st *SessionState) {
		if session == nil {
			st.Session = nil
			st.User = nil
			st.IsAuthenticated = false
			st.IsDemoMode = false
			return
		}
		st.Session = session
		st.User = session.User
		st.IsAuthenticated = true
		st.IsDemoMode = false
	})
}

// WatchSessionChanges consumes the collaborator's session-change stream
// until the context is cancelled, applying each refresh via SetSession
func (s *SessionStore) WatchSessionChanges(ctx context.Context) {
	go func() {
		changes := s.auth.SessionChanges()
		for {
			select {
			case <-ctx.Done():
				return
			case session, ok := <-changes:
				if !ok {
					return
				}
				s.SetSession(session)
			}
		}
	}()
}
