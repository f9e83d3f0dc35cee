package store

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"brightsteps/internal/models"
)

// ChildState is a snapshot of the child registry. Selected is a reference
// into Children by id, never an independent copy that can drift.
type ChildState struct {
	Children  []models.Child
	Selected  *models.Child
	IsLoading bool
	// Error holds the message of the last failed remote operation. A
	// failed fetch keeps the previously loaded list visible.
	Error string
}

// ChildStore owns the child profiles and the current selection. Every
// operation re-reads the session store's mode, so switching between demo
// and remote mid-session changes behavior on the next call.
type ChildStore struct {
	kv       KV
	api      ChildAPI
	sessions *SessionStore
	logger   *log.Logger
	now      func() time.Time

	mu      sync.Mutex
	state   ChildState
	subs    map[int]func(ChildState)
	nextSub int
}

// NewChildStore creates an empty child registry
func NewChildStore(kv KV, api ChildAPI, sessions *SessionStore, logger *log.Logger) *ChildStore {
	return &ChildStore{
		kv:       kv,
		api:      api,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
		subs:     make(map[int]func(ChildState)),
	}
}

// State returns a snapshot of the registry
func (s *ChildStore) State() ChildState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *ChildStore) snapshotLocked() ChildState {
	snap := s.state
	snap.Children = make([]models.Child, len(s.state.Children))
	copy(snap.Children, s.state.Children)
	if s.state.Selected != nil {
		selected := *s.state.Selected
		snap.Selected = &selected
	}
	return snap
}

// Subscribe registers a listener called with a snapshot after every state
// change. The returned function unsubscribes.
func (s *ChildStore) Subscribe(fn func(ChildState)) func() {
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

func (s *ChildStore) setState(mutate func(*ChildState)) {
	s.mu.Lock()
	mutate(&s.state)
	snap := s.snapshotLocked()
	listeners := make([]func(ChildState), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

// FetchChildren replaces the in-memory list from the mode's source of
// truth. A remote failure sets the error field and keeps the previous
// list; loading always ends cleared.
func (s *ChildStore) FetchChildren(ctx context.Context) {
	s.setState(func(st *ChildState) { st.IsLoading = true })
	defer s.setState(func(st *ChildState) { st.IsLoading = false })

	session := s.sessions.State()
	if session.IsDemoMode {
		children, err := s.loadDemoList(ctx)
		if err != nil {
			s.logger.Printf("children: failed to read demo list: %v", err)
			return
		}
		s.setState(func(st *ChildState) {
			st.Children = children
			reselectLocked(st)
			st.Error = ""
		})
		return
	}

	if session.User == nil {
		s.setState(func(st *ChildState) { st.Children = nil })
		return
	}
	children, err := s.api.ListChildren(ctx, session.User.ID)
	if err != nil {
		s.setState(func(st *ChildState) { st.Error = err.Error() })
		return
	}
	s.setState(func(st *ChildState) {
		st.Children = children
		reselectLocked(st)
		st.Error = ""
	})
}

// reselectLocked re-derives the selection against the current list so it
// never aliases a removed or replaced entry
func reselectLocked(st *ChildState) {
	if st.Selected == nil {
		return
	}
	id := st.Selected.ID
	st.Selected = nil
	for i := range st.Children {
		if st.Children[i].ID == id {
			st.Selected = &st.Children[i]
			return
		}
	}
}

// AddChild creates a child profile. Demo mode generates a prefixed local
// id and rewrites the durable list; remote mode inserts through the
// collaborator and appends the returned row. On error the existing state
// is unchanged apart from the error field.
func (s *ChildStore) AddChild(ctx context.Context, input models.ChildInput) (*models.Child, error) {
	session := s.sessions.State()
	if session.IsDemoMode {
		now := s.now()
		child := models.Child{
			ID:             models.DemoIDPrefix + uuid.New().String(),
			FirstName:      input.FirstName,
			LastName:       input.LastName,
			DateOfBirth:    input.DateOfBirth,
			Gender:         input.Gender,
			PrematureWeeks: input.PrematureWeeks,
			PhotoURL:       input.PhotoURL,
			Notes:          input.Notes,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		s.setState(func(st *ChildState) {
			st.Children = append(st.Children, child)
		})
		if err := s.persistDemoList(ctx); err != nil {
			s.logger.Printf("children: failed to persist demo list: %v", err)
		}
		return &child, nil
	}

	if session.User == nil {
		return nil, ErrNotInitialized
	}
	child, err := s.api.InsertChild(ctx, session.User.ID, input)
	if err != nil {
		s.setState(func(st *ChildState) { st.Error = err.Error() })
		return nil, err
	}
	s.setState(func(st *ChildState) {
		st.Children = append(st.Children, *child)
		st.Error = ""
	})
	return child, nil
}

// UpdateChild applies a partial update. On success both the list entry
// and the selection, when it points at the same id, carry the merged
// fields and a fresh updated-at timestamp.
func (s *ChildStore) UpdateChild(ctx context.Context, id string, patch models.ChildPatch) (*models.Child, error) {
	session := s.sessions.State()
	if session.IsDemoMode {
		var updated *models.Child
		s.setState(func(st *ChildState) {
			for i := range st.Children {
				if st.Children[i].ID != id {
					continue
				}
				patch.Apply(&st.Children[i], s.now())
				child := st.Children[i]
				updated = &child
				if st.Selected != nil && st.Selected.ID == id {
					st.Selected = &st.Children[i]
				}
				return
			}
		})
		if updated == nil {
			return nil, ErrChildNotFound
		}
		if err := s.persistDemoList(ctx); err != nil {
			s.logger.Printf("children: failed to persist demo list: %v", err)
		}
		return updated, nil
	}

	child, err := s.api.UpdateChild(ctx, id, patch)
	if err != nil {
		s.setState(func(st *ChildState) { st.Error = err.Error() })
		return nil, err
	}
	s.setState(func(st *ChildState) {
		for i := range st.Children {
			if st.Children[i].ID == id {
				st.Children[i] = *child
				break
			}
		}
		if st.Selected != nil && st.Selected.ID == id {
			selected := *child
			st.Selected = &selected
		}
		st.Error = ""
	})
	return child, nil
}

// DeleteChild removes a profile. Deleting the selected child clears the
// selection; deleting any other child leaves it untouched.
func (s *ChildStore) DeleteChild(ctx context.Context, id string) error {
	session := s.sessions.State()
	if !session.IsDemoMode {
		if err := s.api.DeleteChild(ctx, id); err != nil {
			s.setState(func(st *ChildState) { st.Error = err.Error() })
			return err
		}
	}

	s.setState(func(st *ChildState) {
		children := make([]models.Child, 0, len(st.Children))
		for _, c := range st.Children {
			if c.ID != id {
				children = append(children, c)
			}
		}
		st.Children = children
		reselectLocked(st)
		st.Error = ""
	})

	if session.IsDemoMode {
		if err := s.persistDemoList(ctx); err != nil {
			s.logger.Printf("children: failed to persist demo list: %v", err)
		}
	}
	return nil
}

// SelectChild sets the selection to the list entry with the given id, or
// clears it when the id is not present. No I/O.
func (s *ChildStore) SelectChild(id string) {
	s.setState(func(st *ChildState) {
		st.Selected = nil
		for i := range st.Children {
			if st.Children[i].ID == id {
				st.Selected = &st.Children[i]
				return
			}
		}
	})
}

// SelectedAgeMonths returns the selected child's current age in months,
// or 0 when nothing is selected
func (s *ChildStore) SelectedAgeMonths() int {
	snap := s.State()
	if snap.Selected == nil {
		return 0
	}
	return snap.Selected.AgeInMonths(s.now())
}

func (s *ChildStore) loadDemoList(ctx context.Context) ([]models.Child, error) {
	value, ok, err := s.kv.Get(ctx, childrenKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var children []models.Child
	if err := json.Unmarshal([]byte(value), &children); err != nil {
		return nil, err
	}
	return children, nil
}

func (s *ChildStore) persistDemoList(ctx context.Context) error {
	s.mu.Lock()
	children := make([]models.Child, len(s.state.Children))
	copy(children, s.state.Children)
	s.mu.Unlock()

	encoded, err := json.Marshal(children)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, childrenKey, string(encoded))
}
