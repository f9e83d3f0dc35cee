package store

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"brightsteps/internal/models"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type setCall struct {
	key   string
	value string
}

// fakeKV is an in-memory KV that records writes and can fail on demand
type fakeKV struct {
	mu       sync.Mutex
	data     map[string]string
	setCalls []setCall
	getErr   error
	setErr   error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", false, f.getErr
	}
	value, ok := f.data[key]
	return value, ok, nil
}

func (f *fakeKV) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	f.setCalls = append(f.setCalls, setCall{key: key, value: value})
	return nil
}

func (f *fakeKV) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeKV) get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.data[key]
	return value, ok
}

func (f *fakeKV) setCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, c := range f.setCalls {
		if c.key == key {
			count++
		}
	}
	return count
}

type fakeAuth struct {
	mu            sync.Mutex
	session       *models.Session
	currentErr    error
	currentCalls  int
	signInErr     error
	signUpSession *models.Session
	signUpUser    *models.User
	signUpErr     error
	signOutErr    error
	changes       chan *models.Session
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{changes: make(chan *models.Session, 1)}
}

func (f *fakeAuth) CurrentSession(ctx context.Context) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.currentCalls++
	return f.session, f.currentErr
}

func (f *fakeAuth) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.session, nil
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password, displayName string) (*models.Session, *models.User, error) {
	return f.signUpSession, f.signUpUser, f.signUpErr
}

func (f *fakeAuth) SignOut(ctx context.Context) error {
	return f.signOutErr
}

func (f *fakeAuth) SessionChanges() <-chan *models.Session {
	return f.changes
}

func (f *fakeAuth) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.currentCalls
}

type savedSettings struct {
	userID   string
	settings models.UserSettings
}

type fakeSettingsAPI struct {
	mu      sync.Mutex
	remote  *models.UserSettings
	loadErr error
	saveErr error
	saves   []savedSettings
	// onSave runs inside SaveSettings before it returns, letting tests
	// observe ordering and completion of the background push
	onSave func()
}

func (f *fakeSettingsAPI) LoadSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	return f.remote, f.loadErr
}

func (f *fakeSettingsAPI) SaveSettings(ctx context.Context, userID string, settings models.UserSettings) error {
	f.mu.Lock()
	f.saves = append(f.saves, savedSettings{userID: userID, settings: settings})
	hook := f.onSave
	err := f.saveErr
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return err
}

func (f *fakeSettingsAPI) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

type fakeChildAPI struct {
	mu        sync.Mutex
	children  []models.Child
	listErr   error
	insertErr error
	updateErr error
	deleteErr error
	nextID    int
}

func (f *fakeChildAPI) ListChildren(ctx context.Context, parentID string) ([]models.Child, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Child, len(f.children))
	copy(out, f.children)
	return out, nil
}

func (f *fakeChildAPI) InsertChild(ctx context.Context, parentID string, input models.ChildInput) (*models.Child, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.nextID++
	child := models.Child{
		ID:          fmt.Sprintf("remote-%d", f.nextID),
		ParentID:    parentID,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		DateOfBirth: input.DateOfBirth,
		Gender:      input.Gender,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.children = append(f.children, child)
	return &child, nil
}

func (f *fakeChildAPI) UpdateChild(ctx context.Context, id string, patch models.ChildPatch) (*models.Child, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i := range f.children {
		if f.children[i].ID == id {
			patch.Apply(&f.children[i], time.Now())
			child := f.children[i]
			return &child, nil
		}
	}
	return nil, ErrChildNotFound
}

func (f *fakeChildAPI) DeleteChild(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.children[:0]
	for _, c := range f.children {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	f.children = kept
	return nil
}
