package models

import "time"

// Milestone is a static catalog entry describing a developmental achievement
type Milestone struct {
	ID                 string
	Domain             Domain
	AgeMonths          int
	Description        string
	PercentileAchieved int
}

// MilestoneStatus tracks explicit per-child milestone progress
type MilestoneStatus string

const (
	MilestoneAchieved   MilestoneStatus = "achieved"
	MilestoneInProgress MilestoneStatus = "in_progress"
	MilestoneNotStarted MilestoneStatus = "not_started"
)

// MilestoneProgress is an explicitly tracked per-child record. It overrides
// score-based derivation for its milestone id.
type MilestoneProgress struct {
	MilestoneID string
	ChildID     string
	Status      MilestoneStatus
	AchievedAt  *time.Time
}
