package remote

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"brightsteps/internal/database"
	"brightsteps/internal/models"
	"brightsteps/internal/security"
)

// AssessmentRepository handles stored assessments, their domain scores,
// questionnaire responses, and generated recommendations
type AssessmentRepository struct {
	db *database.DB
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(db *database.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// RecentCompletedAssessments returns the child's completed assessments
// with their domain scores, newest completion first. The progress engine
// uses at most the two most recent.
func (r *AssessmentRepository) RecentCompletedAssessments(ctx context.Context, childID string, limit int) ([]models.Assessment, error) {
	query := `
		SELECT id, child_id, age_at_assessment, version, status, COALESCE(completed_by, ''),
			started_at, completed_at, COALESCE(overall_risk, ''), COALESCE(notes, '')
		FROM assessments
		WHERE child_id = ? AND status = ?
		ORDER BY completed_at DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, childID, string(models.AssessmentCompleted), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	var assessments []models.Assessment
	for rows.Next() {
		var a models.Assessment
		var completedAt sql.NullTime
		if err := rows.Scan(
			&a.ID, &a.ChildID, &a.AgeAtAssessment, &a.Version, &a.Status,
			&a.CompletedBy, &a.StartedAt, &completedAt, &a.OverallRisk, &a.Notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		if completedAt.Valid {
			a.CompletedAt = &completedAt.Time
		}
		assessments = append(assessments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range assessments {
		scores, err := r.domainScores(ctx, assessments[i].ID)
		if err != nil {
			return nil, err
		}
		assessments[i].DomainScores = scores
	}
	return assessments, nil
}

func (r *AssessmentRepository) domainScores(ctx context.Context, assessmentID string) ([]models.DomainScore, error) {
	// position preserves the questionnaire's domain ordering
	query := `
		SELECT domain, raw_score, max_score, percentile, z_score, risk_level, cutoff_score, monitoring_zone_limit
		FROM domain_scores
		WHERE assessment_id = ?
		ORDER BY position ASC
	`
	rows, err := r.db.QueryContext(ctx, query, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query domain scores: %w", err)
	}
	defer rows.Close()

	var scores []models.DomainScore
	for rows.Next() {
		var score models.DomainScore
		var percentile sql.NullInt64
		var zScore sql.NullFloat64
		if err := rows.Scan(
			&score.Domain, &score.RawScore, &score.MaxScore,
			&percentile, &zScore, &score.RiskLevel,
			&score.CutoffScore, &score.MonitoringZoneLimit,
		); err != nil {
			return nil, fmt.Errorf("failed to scan domain score: %w", err)
		}
		if percentile.Valid {
			p := int(percentile.Int64)
			score.Percentile = &p
		}
		if zScore.Valid {
			z := zScore.Float64
			score.ZScore = &z
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

// SaveAssessment stores a completed assessment with its responses and
// domain scores as a single transaction
func (r *AssessmentRepository) SaveAssessment(ctx context.Context, assessment *models.Assessment, responses []models.QuestionnaireResponse) error {
	if assessment.ID == "" {
		assessment.ID = security.NewID()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO assessments (id, child_id, age_at_assessment, version, status, completed_by, started_at, completed_at, overall_risk, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	var completedAt interface{}
	if assessment.CompletedAt != nil {
		completedAt = *assessment.CompletedAt
	}
	if _, err := tx.ExecContext(ctx, query,
		assessment.ID, assessment.ChildID, assessment.AgeAtAssessment,
		assessment.Version, string(assessment.Status), assessment.CompletedBy,
		assessment.StartedAt, completedAt, string(assessment.OverallRisk), assessment.Notes,
	); err != nil {
		return fmt.Errorf("failed to insert assessment: %w", err)
	}

	responseQuery := `
		INSERT INTO questionnaire_responses (id, assessment_id, item_id, response, notes)
		VALUES (?, ?, ?, ?, ?)
	`
	for _, response := range responses {
		if _, err := tx.ExecContext(ctx, responseQuery,
			security.NewID(), assessment.ID, response.ItemID, string(response.Response), response.Notes,
		); err != nil {
			return fmt.Errorf("failed to insert response: %w", err)
		}
	}

	scoreQuery := `
		INSERT INTO domain_scores (id, assessment_id, position, domain, raw_score, max_score, percentile, z_score, risk_level, cutoff_score, monitoring_zone_limit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, score := range assessment.DomainScores {
		var percentile, zScore interface{}
		if score.Percentile != nil {
			percentile = *score.Percentile
		}
		if score.ZScore != nil {
			zScore = *score.ZScore
		}
		if _, err := tx.ExecContext(ctx, scoreQuery,
			security.NewID(), assessment.ID, i, string(score.Domain), score.RawScore,
			score.MaxScore, percentile, zScore, string(score.RiskLevel),
			score.CutoffScore, score.MonitoringZoneLimit,
		); err != nil {
			return fmt.Errorf("failed to insert domain score: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assessment: %w", err)
	}
	return nil
}

// SaveRecommendations stores generated recommendations for an assessment
func (r *AssessmentRepository) SaveRecommendations(ctx context.Context, recommendations []models.Recommendation) error {
	query := `
		INSERT INTO recommendations (id, assessment_id, priority, domain, type, title, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, rec := range recommendations {
		id := rec.ID
		if id == "" {
			id = security.NewID()
		}
		createdAt := rec.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		if _, err := r.db.ExecContext(ctx, query,
			id, rec.AssessmentID, rec.Priority, string(rec.Domain),
			rec.Type, rec.Title, rec.Description, createdAt,
		); err != nil {
			return fmt.Errorf("failed to insert recommendation: %w", err)
		}
	}
	return nil
}

// LatestCompletionAt returns when the child's most recent completed
// assessment finished, or nil when none exists. Used for reminder cadence.
func (r *AssessmentRepository) LatestCompletionAt(ctx context.Context, childID string) (*time.Time, error) {
	query := `
		SELECT completed_at
		FROM assessments
		WHERE child_id = ? AND status = ?
		ORDER BY completed_at DESC
		LIMIT 1
	`
	var completedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, childID, string(models.AssessmentCompleted)).Scan(&completedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest completion: %w", err)
	}
	if !completedAt.Valid {
		return nil, nil
	}
	return &completedAt.Time, nil
}
