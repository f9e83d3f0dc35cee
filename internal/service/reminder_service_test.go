package service

import (
	"context"
	"testing"
	"time"

	"brightsteps/internal/models"
)

func TestReminderInterval(t *testing.T) {
	tests := []struct {
		frequency models.ReminderFrequency
		want      time.Duration
	}{
		{models.ReminderWeekly, 7 * 24 * time.Hour},
		{models.ReminderBiweekly, 14 * 24 * time.Hour},
		{models.ReminderMonthly, 30 * 24 * time.Hour},
		{models.ReminderFrequency("unknown"), 30 * 24 * time.Hour},
	}
	for _, tt := range tests {
		if got := ReminderInterval(tt.frequency); got != tt.want {
			t.Errorf("ReminderInterval(%s) = %v, want %v", tt.frequency, got, tt.want)
		}
	}
}

func TestReminderDue(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	daysAgo := func(d int) *time.Time {
		at := now.AddDate(0, 0, -d)
		return &at
	}

	tests := []struct {
		name          string
		frequency     models.ReminderFrequency
		lastCompleted *time.Time
		want          bool
	}{
		{"never assessed", models.ReminderMonthly, nil, true},
		{"weekly not yet due", models.ReminderWeekly, daysAgo(6), false},
		{"weekly due on the boundary", models.ReminderWeekly, daysAgo(7), true},
		{"biweekly not yet due", models.ReminderBiweekly, daysAgo(13), false},
		{"biweekly due", models.ReminderBiweekly, daysAgo(15), true},
		{"monthly not yet due", models.ReminderMonthly, daysAgo(29), false},
		{"monthly due", models.ReminderMonthly, daysAgo(31), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReminderDue(tt.frequency, tt.lastCompleted, now); got != tt.want {
				t.Errorf("ReminderDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDisabledServiceSkipsSend(t *testing.T) {
	svc, err := NewReminderService("us-east-1", "", "BrightSteps", false)
	if err != nil {
		t.Fatalf("NewReminderService: %v", err)
	}
	if svc.IsEnabled() {
		t.Error("service without a from-address should be disabled")
	}

	// sends are skipped, not errors
	if err := svc.SendAssessmentReminder(context.Background(), "parent@example.com", "Parent", []string{"Maya"}); err != nil {
		t.Errorf("disabled send should be a no-op, got %v", err)
	}
	if err := svc.SendConfirmationEmail(context.Background(), "parent@example.com", "Parent"); err != nil {
		t.Errorf("disabled send should be a no-op, got %v", err)
	}
}
