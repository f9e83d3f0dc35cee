package store

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"brightsteps/internal/models"
)

// SettingsState is a snapshot of the settings store. Settings always holds
// the effective values: defaults until the first load, the local cache
// after it, and the remote copy once fetched.
type SettingsState struct {
	Settings  models.UserSettings
	IsLoading bool
	// SyncError holds the message of the last failed remote push, cleared
	// by the next successful one. Local state is unaffected either way.
	SyncError string
}

// SettingsStore owns user preferences. The local cache is authoritative
// for reads; the remote copy is kept eventually consistent by best-effort
// pushes after every mutation.
type SettingsStore struct {
	kv       KV
	api      SettingsAPI
	sessions *SessionStore
	logger   *log.Logger

	mu      sync.Mutex
	state   SettingsState
	subs    map[int]func(SettingsState)
	nextSub int
}

// NewSettingsStore creates a settings store holding defaults
func NewSettingsStore(kv KV, api SettingsAPI, sessions *SessionStore, logger *log.Logger) *SettingsStore {
	return &SettingsStore{
		kv:       kv,
		api:      api,
		sessions: sessions,
		logger:   logger,
		state: SettingsState{
			Settings:  models.DefaultSettings(),
			IsLoading: true,
		},
		subs: make(map[int]func(SettingsState)),
	}
}

// State returns a snapshot of the current settings state
func (s *SettingsStore) State() SettingsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Settings returns the effective settings values
func (s *SettingsStore) Settings() models.UserSettings {
	return s.State().Settings
}

// Subscribe registers a listener called with a snapshot after every state
// change. The returned function unsubscribes.
func (s *SettingsStore) Subscribe(fn func(SettingsState)) func() {
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

func (s *SettingsStore) setState(mutate func(*SettingsState)) {
	s.mu.Lock()
	mutate(&s.state)
	snap := s.state
	listeners := make([]func(SettingsState), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

// Initialize loads settings: local cache first for a fast answer, then the
// remote copy, which overwrites local state when present and is
// re-persisted. Remote wins on conflict at load time; a local edit that
// raced its push can be overwritten here. Every failure is logged and
// swallowed, and loading always ends cleared.
func (s *SettingsStore) Initialize(ctx context.Context) {
	defer s.setState(func(st *SettingsState) { st.IsLoading = false })

	if value, ok, err := s.kv.Get(ctx, settingsKey); err != nil {
		s.logger.Printf("settings: failed to read local cache: %v", err)
	} else if ok {
		var cached models.UserSettings
		if err := json.Unmarshal([]byte(value), &cached); err != nil {
			s.logger.Printf("settings: failed to decode local cache: %v", err)
		} else {
			s.setState(func(st *SettingsState) { st.Settings = cached })
		}
	}

	user := s.sessions.State().User
	if user == nil {
		return
	}
	remote, err := s.api.LoadSettings(ctx, user.ID)
	if err != nil {
		s.logger.Printf("settings: failed to load remote settings: %v", err)
		return
	}
	if remote == nil {
		return
	}
	s.setState(func(st *SettingsState) { st.Settings = *remote })
	if err := s.persistLocal(ctx, *remote); err != nil {
		s.logger.Printf("settings: failed to persist remote settings: %v", err)
	}
}

// SetNotificationsEnabled updates the flag, persists locally, then pushes
// to remote in the background
func (s *SettingsStore) SetNotificationsEnabled(ctx context.Context, enabled bool) {
	s.apply(ctx, func(settings *models.UserSettings) {
		settings.NotificationsEnabled = enabled
	})
}

// SetDarkMode updates the flag, persists locally, then pushes to remote in
// the background
func (s *SettingsStore) SetDarkMode(ctx context.Context, enabled bool) {
	s.apply(ctx, func(settings *models.UserSettings) {
		settings.DarkMode = enabled
	})
}

// SetReminderFrequency updates the frequency, persists locally, then
// pushes to remote in the background. Unknown values are ignored.
func (s *SettingsStore) SetReminderFrequency(ctx context.Context, frequency models.ReminderFrequency) {
	if !frequency.IsValid() {
		s.logger.Printf("settings: ignoring unknown reminder frequency %q", frequency)
		return
	}
	s.apply(ctx, func(settings *models.UserSettings) {
		settings.ReminderFrequency = frequency
	})
}

// apply runs a setter: in-memory update first so the last local write
// wins, one awaited local persist, then a fire-and-forget remote push.
// Callers must not assume the push has completed when apply returns.
func (s *SettingsStore) apply(ctx context.Context, mutate func(*models.UserSettings)) {
	var updated models.UserSettings
	s.setState(func(st *SettingsState) {
		mutate(&st.Settings)
		updated = st.Settings
	})

	if err := s.persistLocal(ctx, updated); err != nil {
		s.logger.Printf("settings: failed to persist locally: %v", err)
	}

	go s.SyncToRemote(context.WithoutCancel(ctx))
}

func (s *SettingsStore) persistLocal(ctx context.Context, settings models.UserSettings) error {
	encoded, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, settingsKey, string(encoded))
}

// SyncToRemote upserts the full settings record for the current user. It
// is a no-op without an authenticated user, and a failure only marks the
// sync error; there is no retry, the next mutation pushes again.
func (s *SettingsStore) SyncToRemote(ctx context.Context) {
	user := s.sessions.State().User
	if user == nil {
		return
	}
	settings := s.Settings()
	if err := s.api.SaveSettings(ctx, user.ID, settings); err != nil {
		s.logger.Printf("settings: remote sync failed: %v", err)
		s.setState(func(st *SettingsState) { st.SyncError = err.Error() })
		return
	}
	s.setState(func(st *SettingsState) { st.SyncError = "" })
}
