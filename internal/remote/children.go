package remote

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"brightsteps/internal/database"
	"brightsteps/internal/models"
	"brightsteps/internal/security"
	"brightsteps/internal/validation"
)

// ChildRepository handles database operations for child profiles. It
// implements the child data interface the registry store consumes.
type ChildRepository struct {
	db *database.DB
}

// NewChildRepository creates a new child repository
func NewChildRepository(db *database.DB) *ChildRepository {
	return &ChildRepository{db: db}
}

const childColumns = `id, parent_id, first_name, COALESCE(last_name, ''),
	date_of_birth, COALESCE(gender, ''), premature_weeks,
	COALESCE(photo_url, ''), COALESCE(notes, ''), created_at, updated_at`

func scanChild(row interface{ Scan(...interface{}) error }) (*models.Child, error) {
	child := &models.Child{}
	err := row.Scan(
		&child.ID,
		&child.ParentID,
		&child.FirstName,
		&child.LastName,
		&child.DateOfBirth,
		&child.Gender,
		&child.PrematureWeeks,
		&child.PhotoURL,
		&child.Notes,
		&child.CreatedAt,
		&child.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan child: %w", err)
	}
	return child, nil
}

// ListChildren returns all children owned by the parent, ordered by
// creation time
func (r *ChildRepository) ListChildren(ctx context.Context, parentID string) ([]models.Child, error) {
	query := "SELECT " + childColumns + ` FROM children
		WHERE parent_id = ?
		ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	defer rows.Close()

	var children []models.Child
	for rows.Next() {
		child, err := scanChild(rows)
		if err != nil {
			return nil, err
		}
		children = append(children, *child)
	}
	return children, rows.Err()
}

// GetChild retrieves a child by id
func (r *ChildRepository) GetChild(ctx context.Context, id string) (*models.Child, error) {
	query := "SELECT " + childColumns + " FROM children WHERE id = ?"
	return scanChild(r.db.QueryRowContext(ctx, query, id))
}

// InsertChild creates a child profile owned by the parent. The id is
// assigned here, never by the caller.
func (r *ChildRepository) InsertChild(ctx context.Context, parentID string, input models.ChildInput) (*models.Child, error) {
	now := time.Now()
	if err := validation.ValidateChildName(input.FirstName); err != nil {
		return nil, err
	}
	if err := validation.ValidateDateOfBirth(input.DateOfBirth, now); err != nil {
		return nil, err
	}

	child := &models.Child{
		ID:             security.NewID(),
		ParentID:       parentID,
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
	query := `
		INSERT INTO children (id, parent_id, first_name, last_name, date_of_birth, gender, premature_weeks, photo_url, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query,
		child.ID, child.ParentID, child.FirstName, child.LastName,
		child.DateOfBirth, child.Gender, child.PrematureWeeks,
		child.PhotoURL, child.Notes, child.CreatedAt, child.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to create child: %w", err)
	}
	return child, nil
}

// UpdateChild applies a partial update and returns the merged row
func (r *ChildRepository) UpdateChild(ctx context.Context, id string, patch models.ChildPatch) (*models.Child, error) {
	child, err := r.GetChild(ctx, id)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, fmt.Errorf("child %s not found", id)
	}

	patch.Apply(child, time.Now())

	query := `
		UPDATE children
		SET first_name = ?, last_name = ?, date_of_birth = ?, gender = ?, premature_weeks = ?, photo_url = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`
	if _, err := r.db.ExecContext(ctx, query,
		child.FirstName, child.LastName, child.DateOfBirth, child.Gender,
		child.PrematureWeeks, child.PhotoURL, child.Notes, child.UpdatedAt, id,
	); err != nil {
		return nil, fmt.Errorf("failed to update child: %w", err)
	}
	return child, nil
}

// DeleteChild removes a child and its dependent rows cascade via the
// schema's foreign keys
func (r *ChildRepository) DeleteChild(ctx context.Context, id string) error {
	query := "DELETE FROM children WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete child: %w", err)
	}
	return nil
}
