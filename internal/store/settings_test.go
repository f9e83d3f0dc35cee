package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"brightsteps/internal/models"
)

func authedSessions(userID string) *SessionStore {
	sessions := NewSessionStore(newFakeKV(), newFakeAuth(), testLogger())
	sessions.SetSession(testSession(userID))
	return sessions
}

func demoSessions(t *testing.T) *SessionStore {
	t.Helper()
	sessions := NewSessionStore(newFakeKV(), newFakeAuth(), testLogger())
	sessions.EnterDemoMode(context.Background())
	return sessions
}

func TestSettingsDefaultsBeforeLoad(t *testing.T) {
	store := NewSettingsStore(newFakeKV(), &fakeSettingsAPI{}, demoSessions(t), testLogger())

	settings := store.Settings()
	if !settings.NotificationsEnabled || settings.DarkMode || settings.ReminderFrequency != models.ReminderMonthly {
		t.Errorf("unexpected defaults: %+v", settings)
	}
	if !store.State().IsLoading {
		t.Error("store should be loading until Initialize completes")
	}
}

func TestInitializeAppliesLocalCache(t *testing.T) {
	kv := newFakeKV()
	cached := models.UserSettings{NotificationsEnabled: false, DarkMode: true, ReminderFrequency: models.ReminderWeekly}
	encoded, _ := json.Marshal(cached)
	kv.data[settingsKey] = string(encoded)

	store := NewSettingsStore(kv, &fakeSettingsAPI{}, demoSessions(t), testLogger())
	store.Initialize(context.Background())

	state := store.State()
	if state.Settings != cached {
		t.Errorf("expected cached settings, got %+v", state.Settings)
	}
	if state.IsLoading {
		t.Error("loading should be cleared")
	}
}

func TestInitializeRemoteOverwritesLocal(t *testing.T) {
	kv := newFakeKV()
	cached := models.UserSettings{NotificationsEnabled: true, DarkMode: false, ReminderFrequency: models.ReminderMonthly}
	encoded, _ := json.Marshal(cached)
	kv.data[settingsKey] = string(encoded)

	remote := models.UserSettings{NotificationsEnabled: false, DarkMode: true, ReminderFrequency: models.ReminderBiweekly}
	api := &fakeSettingsAPI{remote: &remote}

	store := NewSettingsStore(kv, api, authedSessions("u1"), testLogger())
	store.Initialize(context.Background())

	if got := store.Settings(); got != remote {
		t.Errorf("remote should win at load time, got %+v", got)
	}

	// the winning remote copy is re-persisted locally
	value, ok := kv.get(settingsKey)
	if !ok {
		t.Fatal("expected local cache write")
	}
	var persisted models.UserSettings
	if err := json.Unmarshal([]byte(value), &persisted); err != nil {
		t.Fatalf("decode persisted settings: %v", err)
	}
	if persisted != remote {
		t.Errorf("persisted cache should match remote, got %+v", persisted)
	}
}

func TestInitializeRemoteAbsentKeepsLocal(t *testing.T) {
	kv := newFakeKV()
	cached := models.UserSettings{NotificationsEnabled: false, DarkMode: true, ReminderFrequency: models.ReminderWeekly}
	encoded, _ := json.Marshal(cached)
	kv.data[settingsKey] = string(encoded)

	store := NewSettingsStore(kv, &fakeSettingsAPI{}, authedSessions("u1"), testLogger())
	store.Initialize(context.Background())

	if got := store.Settings(); got != cached {
		t.Errorf("expected local cache to stand, got %+v", got)
	}
}

func TestInitializeRemoteErrorKeepsLocal(t *testing.T) {
	kv := newFakeKV()
	cached := models.UserSettings{NotificationsEnabled: false, DarkMode: true, ReminderFrequency: models.ReminderWeekly}
	encoded, _ := json.Marshal(cached)
	kv.data[settingsKey] = string(encoded)

	api := &fakeSettingsAPI{loadErr: errors.New("network down")}
	store := NewSettingsStore(kv, api, authedSessions("u1"), testLogger())
	store.Initialize(context.Background())

	state := store.State()
	if state.Settings != cached {
		t.Errorf("expected local cache to stand, got %+v", state.Settings)
	}
	if state.IsLoading {
		t.Error("loading must be cleared even when the remote load fails")
	}
}

func TestSetDarkModePersistsLocallyBeforeRemotePush(t *testing.T) {
	kv := newFakeKV()
	api := &fakeSettingsAPI{}
	pushed := make(chan int, 1)
	api.onSave = func() {
		pushed <- kv.setCount(settingsKey)
	}

	store := NewSettingsStore(kv, api, authedSessions("u1"), testLogger())
	store.SetDarkMode(context.Background(), true)

	// in-memory state and the local persist happen before SetDarkMode
	// returns
	if !store.Settings().DarkMode {
		t.Error("in-memory state should update synchronously")
	}
	if count := kv.setCount(settingsKey); count != 1 {
		t.Errorf("expected exactly one local persist, got %d", count)
	}
	value, _ := kv.get(settingsKey)
	if !strings.Contains(value, `"dark_mode":true`) {
		t.Errorf("persisted value should contain the new flag, got %s", value)
	}

	select {
	case persistsAtPush := <-pushed:
		if persistsAtPush < 1 {
			t.Error("remote push ran before the local persist")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("remote push never happened")
	}
}

func TestSyncToRemoteNoUserIsNoop(t *testing.T) {
	api := &fakeSettingsAPI{}
	store := NewSettingsStore(newFakeKV(), api, demoSessions(t), testLogger())

	store.SyncToRemote(context.Background())

	if api.savedCount() != 0 {
		t.Errorf("expected no remote call without a user, got %d", api.savedCount())
	}
}

func TestRemotePushFailureKeepsLocalState(t *testing.T) {
	kv := newFakeKV()
	api := &fakeSettingsAPI{saveErr: errors.New("network down")}
	pushed := make(chan struct{}, 1)
	api.onSave = func() { pushed <- struct{}{} }

	store := NewSettingsStore(kv, api, authedSessions("u1"), testLogger())
	store.SetNotificationsEnabled(context.Background(), false)

	select {
	case <-pushed:
	case <-time.After(2 * time.Second):
		t.Fatal("remote push never attempted")
	}

	waitFor(t, func() bool { return store.State().SyncError != "" })
	if store.Settings().NotificationsEnabled {
		t.Error("local state should keep the edit despite the failed push")
	}
	value, _ := kv.get(settingsKey)
	if !strings.Contains(value, `"notifications_enabled":false`) {
		t.Errorf("local cache should keep the edit, got %s", value)
	}
}

func TestSetReminderFrequency(t *testing.T) {
	store := NewSettingsStore(newFakeKV(), &fakeSettingsAPI{}, demoSessions(t), testLogger())

	store.SetReminderFrequency(context.Background(), models.ReminderWeekly)
	if got := store.Settings().ReminderFrequency; got != models.ReminderWeekly {
		t.Errorf("expected weekly, got %s", got)
	}

	store.SetReminderFrequency(context.Background(), models.ReminderFrequency("hourly"))
	if got := store.Settings().ReminderFrequency; got != models.ReminderWeekly {
		t.Errorf("unknown frequency should be ignored, got %s", got)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never became true")
}
