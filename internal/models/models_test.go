package models

import (
	"testing"
	"time"
)

func TestSessionIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "future expiration",
			expiresAt: time.Now().Add(1 * time.Hour),
			want:      false,
		},
		{
			name:      "just expired",
			expiresAt: time.Now().Add(-1 * time.Second),
			want:      true,
		},
		{
			name:      "expired yesterday",
			expiresAt: time.Now().Add(-24 * time.Hour),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := Session{
				Token:     "test-session",
				UserID:    "user-1",
				ExpiresAt: tt.expiresAt,
				CreatedAt: time.Now().Add(-1 * time.Hour),
			}
			result := session.IsExpired()
			if result != tt.want {
				t.Errorf("Session.IsExpired() = %v, want %v", result, tt.want)
			}
		})
	}
}

func TestChildAgeInMonths(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		child Child
		want  int
	}{
		{
			name:  "one year old",
			child: Child{DateOfBirth: now.AddDate(-1, 0, 0)},
			want:  12,
		},
		{
			name:  "newborn",
			child: Child{DateOfBirth: now},
			want:  0,
		},
		{
			name:  "born in the future",
			child: Child{DateOfBirth: now.AddDate(0, 1, 0)},
			want:  0,
		},
		{
			name:  "unknown date of birth",
			child: Child{},
			want:  0,
		},
		{
			name: "premature correction",
			child: Child{
				DateOfBirth:    now.AddDate(-1, 0, 0),
				PrematureWeeks: 8,
			},
			want: 10,
		},
		{
			name: "premature correction never goes negative",
			child: Child{
				DateOfBirth:    now.AddDate(0, -1, 0),
				PrematureWeeks: 12,
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.child.AgeInMonths(now); got != tt.want {
				t.Errorf("AgeInMonths() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestChildIsDemo(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "demo id", id: "demo-4a2f", want: true},
		{name: "remote id", id: "4a2f-demo", want: false},
		{name: "empty id", id: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Child{ID: tt.id}
			if got := c.IsDemo(); got != tt.want {
				t.Errorf("IsDemo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChildPatchApply(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	name := "Maya"
	notes := "loves puzzles"

	child := Child{
		ID:        "child-1",
		FirstName: "Mia",
		LastName:  "Smith",
		Notes:     "",
		UpdatedAt: now.Add(-48 * time.Hour),
	}

	patch := ChildPatch{FirstName: &name, Notes: &notes}
	patch.Apply(&child, now)

	if child.FirstName != "Maya" {
		t.Errorf("FirstName = %q, want %q", child.FirstName, "Maya")
	}
	if child.LastName != "Smith" {
		t.Errorf("LastName changed unexpectedly: %q", child.LastName)
	}
	if child.Notes != "loves puzzles" {
		t.Errorf("Notes = %q, want %q", child.Notes, "loves puzzles")
	}
	if !child.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", child.UpdatedAt, now)
	}
}

func TestResponseValuePoints(t *testing.T) {
	tests := []struct {
		name     string
		response ResponseValue
		want     float64
	}{
		{name: "yes", response: ResponseYes, want: 10},
		{name: "sometimes", response: ResponseSometimes, want: 5},
		{name: "not yet", response: ResponseNotYet, want: 0},
		{name: "unknown", response: ResponseValue("maybe"), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.response.Points(); got != tt.want {
				t.Errorf("Points() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReminderFrequencyIsValid(t *testing.T) {
	valid := []ReminderFrequency{ReminderWeekly, ReminderBiweekly, ReminderMonthly}
	for _, f := range valid {
		if !f.IsValid() {
			t.Errorf("IsValid(%q) = false, want true", f)
		}
	}
	if ReminderFrequency("daily").IsValid() {
		t.Error("IsValid(daily) = true, want false")
	}
}
