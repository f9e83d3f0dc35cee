package remote

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"brightsteps/internal/database"
	"brightsteps/internal/models"
)

// MilestoneRepository handles the explicitly tracked per-child milestone
// progress records. These overrides take priority over score-based
// derivation in the progress engine.
type MilestoneRepository struct {
	db *database.DB
}

// NewMilestoneRepository creates a new milestone repository
func NewMilestoneRepository(db *database.DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

// TrackedProgress returns all tracked milestone records for a child
func (r *MilestoneRepository) TrackedProgress(ctx context.Context, childID string) ([]models.MilestoneProgress, error) {
	query := `
		SELECT milestone_id, child_id, status, achieved_at
		FROM milestone_progress
		WHERE child_id = ?
	`
	rows, err := r.db.QueryContext(ctx, query, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to query milestone progress: %w", err)
	}
	defer rows.Close()

	var tracked []models.MilestoneProgress
	for rows.Next() {
		var record models.MilestoneProgress
		var achievedAt sql.NullTime
		if err := rows.Scan(&record.MilestoneID, &record.ChildID, &record.Status, &achievedAt); err != nil {
			return nil, fmt.Errorf("failed to scan milestone progress: %w", err)
		}
		if achievedAt.Valid {
			record.AchievedAt = &achievedAt.Time
		}
		tracked = append(tracked, record)
	}
	return tracked, rows.Err()
}

// UpsertProgress records or updates a tracked milestone status. A status
// of achieved carries its timestamp; other statuses clear it.
func (r *MilestoneRepository) UpsertProgress(ctx context.Context, milestoneID, childID string, status models.MilestoneStatus, achievedAt *time.Time) error {
	var at interface{}
	if status == models.MilestoneAchieved {
		if achievedAt != nil {
			at = *achievedAt
		} else {
			at = time.Now()
		}
	}
	query := r.db.Dialect.UpsertMilestoneProgress()
	if _, err := r.db.ExecContext(ctx, query, milestoneID, childID, string(status), at); err != nil {
		return fmt.Errorf("failed to upsert milestone progress: %w", err)
	}
	return nil
}
