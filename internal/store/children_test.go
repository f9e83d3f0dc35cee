package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"brightsteps/internal/localstore"
	"brightsteps/internal/models"
)

func newDemoChildStore(t *testing.T) (*ChildStore, *fakeKV) {
	t.Helper()
	kv := newFakeKV()
	sessions := NewSessionStore(kv, newFakeAuth(), testLogger())
	sessions.EnterDemoMode(context.Background())
	return NewChildStore(kv, &fakeChildAPI{}, sessions, testLogger()), kv
}

func newRemoteChildStore(t *testing.T, api *fakeChildAPI) *ChildStore {
	t.Helper()
	sessions := authedSessions("u1")
	return NewChildStore(newFakeKV(), api, sessions, testLogger())
}

func TestAddChildDemoMode(t *testing.T) {
	ctx := context.Background()
	store, kv := newDemoChildStore(t)

	child, err := store.AddChild(ctx, models.ChildInput{
		FirstName:   "New",
		LastName:    "Kid",
		DateOfBirth: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Gender:      "female",
	})
	if err != nil {
		t.Fatalf("AddChild: %v", err)
	}

	if !strings.HasPrefix(child.ID, models.DemoIDPrefix) {
		t.Errorf("demo id should carry the %q prefix, got %s", models.DemoIDPrefix, child.ID)
	}
	if got := len(store.State().Children); got != 1 {
		t.Errorf("expected one entry in memory, got %d", got)
	}

	value, ok := kv.get(childrenKey)
	if !ok {
		t.Fatal("expected durable write of the serialized list")
	}
	if !strings.Contains(value, `"first_name":"New"`) {
		t.Errorf("serialized list should contain the new child, got %s", value)
	}
}

func TestDemoListRoundTrip(t *testing.T) {
	// persist through one store instance, fetch through a fresh one backed
	// by the same durable storage
	ctx := context.Background()
	kv, err := localstore.Open(filepath.Join(t.TempDir(), "local.db"))
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}
	defer kv.Close()

	sessions := NewSessionStore(kv, newFakeAuth(), testLogger())
	sessions.EnterDemoMode(ctx)

	first := NewChildStore(kv, &fakeChildAPI{}, sessions, testLogger())
	dob := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)
	if _, err := first.AddChild(ctx, models.ChildInput{FirstName: "Maya", DateOfBirth: dob}); err != nil {
		t.Fatalf("AddChild: %v", err)
	}

	second := NewChildStore(kv, &fakeChildAPI{}, sessions, testLogger())
	second.FetchChildren(ctx)

	state := second.State()
	if len(state.Children) != 1 {
		t.Fatalf("expected one child after fetch, got %d", len(state.Children))
	}
	if state.Children[0].FirstName != "Maya" {
		t.Errorf("unexpected child: %+v", state.Children[0])
	}
	if !state.Children[0].DateOfBirth.Equal(dob) {
		t.Errorf("date of birth should survive serialization, got %v", state.Children[0].DateOfBirth)
	}
	if state.IsLoading {
		t.Error("loading should be cleared after fetch")
	}
}

func TestUpdateChildDemoRefreshesSelection(t *testing.T) {
	ctx := context.Background()
	store, _ := newDemoChildStore(t)

	child, err := store.AddChild(ctx, models.ChildInput{FirstName: "Maya"})
	if err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	store.SelectChild(child.ID)

	name := "Mia"
	updated, err := store.UpdateChild(ctx, child.ID, models.ChildPatch{FirstName: &name})
	if err != nil {
		t.Fatalf("UpdateChild: %v", err)
	}
	if updated.FirstName != "Mia" {
		t.Errorf("expected merged fields, got %+v", updated)
	}
	if updated.UpdatedAt.Before(child.UpdatedAt) {
		t.Error("expected a fresh updated-at timestamp")
	}

	state := store.State()
	if state.Selected == nil || state.Selected.FirstName != "Mia" {
		t.Errorf("selection should carry the merged fields, got %+v", state.Selected)
	}
	if state.Children[0].FirstName != "Mia" {
		t.Errorf("list entry should carry the merged fields, got %+v", state.Children[0])
	}
}

func TestUpdateChildUnknownID(t *testing.T) {
	store, _ := newDemoChildStore(t)

	name := "Mia"
	if _, err := store.UpdateChild(context.Background(), "demo-missing", models.ChildPatch{FirstName: &name}); !errors.Is(err, ErrChildNotFound) {
		t.Errorf("expected ErrChildNotFound, got %v", err)
	}
}

func TestDeleteChildSelectionRules(t *testing.T) {
	ctx := context.Background()
	store, _ := newDemoChildStore(t)

	a, _ := store.AddChild(ctx, models.ChildInput{FirstName: "A"})
	b, _ := store.AddChild(ctx, models.ChildInput{FirstName: "B"})

	// deleting a non-selected child preserves the selection
	store.SelectChild(b.ID)
	if err := store.DeleteChild(ctx, a.ID); err != nil {
		t.Fatalf("DeleteChild: %v", err)
	}
	state := store.State()
	if state.Selected == nil || state.Selected.ID != b.ID {
		t.Errorf("selection should be preserved, got %+v", state.Selected)
	}
	if len(state.Children) != 1 {
		t.Errorf("expected one remaining child, got %d", len(state.Children))
	}

	// deleting the selected child clears the selection
	if err := store.DeleteChild(ctx, b.ID); err != nil {
		t.Fatalf("DeleteChild: %v", err)
	}
	state = store.State()
	if state.Selected != nil {
		t.Errorf("selection should be cleared, got %+v", state.Selected)
	}
	if len(state.Children) != 0 {
		t.Errorf("expected empty list, got %d", len(state.Children))
	}
}

func TestSelectChildUnknownIDClearsSelection(t *testing.T) {
	ctx := context.Background()
	store, _ := newDemoChildStore(t)
	child, _ := store.AddChild(ctx, models.ChildInput{FirstName: "A"})

	store.SelectChild(child.ID)
	store.SelectChild("demo-nope")

	if got := store.State().Selected; got != nil {
		t.Errorf("expected cleared selection, got %+v", got)
	}
}

func TestFetchChildrenRemoteMode(t *testing.T) {
	api := &fakeChildAPI{children: []models.Child{
		{ID: "remote-1", ParentID: "u1", FirstName: "Maya"},
	}}
	store := newRemoteChildStore(t, api)

	store.FetchChildren(context.Background())

	state := store.State()
	if len(state.Children) != 1 || state.Children[0].ID != "remote-1" {
		t.Errorf("expected the remote row, got %+v", state.Children)
	}
	if state.Error != "" {
		t.Errorf("unexpected error: %s", state.Error)
	}
}

func TestFetchChildrenRemoteErrorKeepsList(t *testing.T) {
	ctx := context.Background()
	api := &fakeChildAPI{children: []models.Child{{ID: "remote-1", FirstName: "Maya"}}}
	store := newRemoteChildStore(t, api)
	store.FetchChildren(ctx)

	api.mu.Lock()
	api.listErr = errors.New("network down")
	api.mu.Unlock()
	store.FetchChildren(ctx)

	state := store.State()
	if state.Error == "" {
		t.Error("expected the error field to be set")
	}
	if len(state.Children) != 1 {
		t.Errorf("previous list should stay visible, got %d entries", len(state.Children))
	}
	if state.IsLoading {
		t.Error("loading should be cleared after a failed fetch")
	}
}

func TestAddChildRemoteMode(t *testing.T) {
	api := &fakeChildAPI{}
	store := newRemoteChildStore(t, api)

	child, err := store.AddChild(context.Background(), models.ChildInput{FirstName: "New"})
	if err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if strings.HasPrefix(child.ID, models.DemoIDPrefix) {
		t.Errorf("remote ids must not carry the demo prefix, got %s", child.ID)
	}
	if child.ParentID != "u1" {
		t.Errorf("expected owner scoping, got %+v", child)
	}
	if got := len(store.State().Children); got != 1 {
		t.Errorf("expected one entry in memory, got %d", got)
	}
}

func TestAddChildRemoteErrorLeavesState(t *testing.T) {
	api := &fakeChildAPI{insertErr: errors.New("validation failed")}
	store := newRemoteChildStore(t, api)

	child, err := store.AddChild(context.Background(), models.ChildInput{FirstName: "New"})
	if err == nil {
		t.Fatal("expected error")
	}
	if child != nil {
		t.Errorf("expected nil child on error, got %+v", child)
	}
	state := store.State()
	if len(state.Children) != 0 {
		t.Errorf("state should be unchanged, got %d entries", len(state.Children))
	}
	if state.Error == "" {
		t.Error("expected the error field to be set")
	}
}

func TestModeIsReevaluatedPerCall(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	api := &fakeChildAPI{children: []models.Child{{ID: "remote-1", FirstName: "Remote"}}}
	sessions := NewSessionStore(kv, newFakeAuth(), testLogger())
	sessions.SetSession(testSession("u1"))
	store := NewChildStore(kv, api, sessions, testLogger())

	store.FetchChildren(ctx)
	if got := store.State().Children[0].ID; got != "remote-1" {
		t.Fatalf("expected remote fetch first, got %s", got)
	}

	// switching to demo mode changes the next call's data source
	sessions.EnterDemoMode(ctx)
	store.FetchChildren(ctx)
	if got := len(store.State().Children); got != 0 {
		t.Errorf("demo fetch should read the (empty) local list, got %d entries", got)
	}
}

func TestSelectedAgeMonths(t *testing.T) {
	ctx := context.Background()
	store, _ := newDemoChildStore(t)
	store.now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }

	child, _ := store.AddChild(ctx, models.ChildInput{
		DateOfBirth:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		PrematureWeeks: 8,
	})

	if got := store.SelectedAgeMonths(); got != 0 {
		t.Errorf("no selection should read as 0, got %d", got)
	}

	store.SelectChild(child.ID)
	// 24 calendar months, minus 2 for prematurity correction
	if got := store.SelectedAgeMonths(); got != 22 {
		t.Errorf("expected 22 months, got %d", got)
	}
}
