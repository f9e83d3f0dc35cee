package remote

import (
	"context"
	"database/sql"
	"fmt"

	"brightsteps/internal/database"
	"brightsteps/internal/models"
)

// SettingsRepository handles database operations for user settings. It
// implements the settings data interface the settings store consumes.
type SettingsRepository struct {
	db *database.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// LoadSettings retrieves a user's settings, or nil when no record exists
func (r *SettingsRepository) LoadSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	query := `
		SELECT notifications_enabled, dark_mode, reminder_frequency
		FROM user_settings
		WHERE user_id = ?
	`
	settings := &models.UserSettings{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&settings.NotificationsEnabled,
		&settings.DarkMode,
		&settings.ReminderFrequency,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

// SaveSettings upserts the full settings record for a user
func (r *SettingsRepository) SaveSettings(ctx context.Context, userID string, settings models.UserSettings) error {
	query := r.db.Dialect.UpsertUserSettings()
	if _, err := r.db.ExecContext(ctx, query,
		userID,
		settings.NotificationsEnabled,
		settings.DarkMode,
		string(settings.ReminderFrequency),
	); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// ListNotifiableUsers returns users whose settings have notifications
// enabled, paired with their reminder frequency. Used by the reminder
// daemon.
func (r *SettingsRepository) ListNotifiableUsers(ctx context.Context) (map[string]models.ReminderFrequency, error) {
	query := `
		SELECT user_id, reminder_frequency
		FROM user_settings
		WHERE notifications_enabled = ?
	`
	rows, err := r.db.QueryContext(ctx, query, true)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifiable users: %w", err)
	}
	defer rows.Close()

	users := make(map[string]models.ReminderFrequency)
	for rows.Next() {
		var userID string
		var frequency models.ReminderFrequency
		if err := rows.Scan(&userID, &frequency); err != nil {
			return nil, fmt.Errorf("failed to scan settings row: %w", err)
		}
		users[userID] = frequency
	}
	return users, rows.Err()
}
