package models

// ReminderFrequency controls how often assessment reminders are sent
type ReminderFrequency string

const (
	ReminderWeekly   ReminderFrequency = "weekly"
	ReminderBiweekly ReminderFrequency = "biweekly"
	ReminderMonthly  ReminderFrequency = "monthly"
)

// IsValid reports whether the frequency is one of the known values
func (f ReminderFrequency) IsValid() bool {
	switch f {
	case ReminderWeekly, ReminderBiweekly, ReminderMonthly:
		return true
	}
	return false
}

// UserSettings holds per-user preferences. A durable local copy is the
// effective value; the remote copy is eventually consistent with it.
type UserSettings struct {
	NotificationsEnabled bool              `json:"notifications_enabled"`
	DarkMode             bool              `json:"dark_mode"`
	ReminderFrequency    ReminderFrequency `json:"reminder_frequency"`
}

// DefaultSettings returns the settings used until the first load completes
func DefaultSettings() UserSettings {
	return UserSettings{
		NotificationsEnabled: true,
		DarkMode:             false,
		ReminderFrequency:    ReminderMonthly,
	}
}
