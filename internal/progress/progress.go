// Package progress derives developmental trends and milestone achievement
// from assessment snapshots. Everything here is pure computation: callers
// fetch the two most recent completed assessments and the tracked milestone
// records, and pass them in.
package progress

import (
	"sort"
	"time"

	"brightsteps/internal/models"
)

// Trend classifies percentile change between the two most recent completed
// assessments
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// trendThreshold is the percentile change beyond which a trend is reported.
// Boundary values map to stable.
const trendThreshold = 2

// DomainProgress is the per-domain comparison between the latest assessment
// and the previous one
type DomainProgress struct {
	Domain     models.Domain
	Percentile int
	Previous   *int
	Change     int
	Trend      Trend
}

// ComputeDomainProgress compares the latest assessment's domain scores
// against the previous assessment's percentiles. A nil percentile counts as
// zero; a domain absent from the previous map yields change 0 and a stable
// trend. Output order follows the input order of latest.
func ComputeDomainProgress(latest []models.DomainScore, previous map[models.Domain]int) []DomainProgress {
	result := make([]DomainProgress, 0, len(latest))

	for _, score := range latest {
		percentile := 0
		if score.Percentile != nil {
			percentile = *score.Percentile
		}

		entry := DomainProgress{
			Domain:     score.Domain,
			Percentile: percentile,
			Change:     0,
			Trend:      TrendStable,
		}

		if prev, ok := previous[score.Domain]; ok {
			prevCopy := prev
			entry.Previous = &prevCopy
			entry.Change = percentile - prev
			switch {
			case entry.Change > trendThreshold:
				entry.Trend = TrendUp
			case entry.Change < -trendThreshold:
				entry.Trend = TrendDown
			}
		}

		result = append(result, entry)
	}

	return result
}

// AchievedMilestone is a milestone with the timestamp it was (or is assumed
// to have been) achieved
type AchievedMilestone struct {
	Milestone  models.Milestone
	AchievedAt time.Time
}

// MilestoneSummary is the derived milestone view for a child
type MilestoneSummary struct {
	// Recent holds the five most recently achieved milestones, newest first
	Recent []AchievedMilestone
	// Upcoming holds the next five age-appropriate milestones, youngest first
	Upcoming []models.Milestone
}

// recentLimit and upcomingLimit cap the derived lists
const (
	recentLimit   = 5
	upcomingLimit = 5
)

// DeriveMilestones combines explicitly tracked milestone records with
// score-derived achievement. Tracked records take priority; a milestone id
// appears at most once. Achievement timestamps fall back from the tracked
// record's timestamp to the assessment completion time to now, in that
// order. When childAgeMonths is not positive the age-gated derivation and
// the upcoming list are skipped entirely.
func DeriveMilestones(
	tracked []models.MilestoneProgress,
	catalog []models.Milestone,
	domainScores map[models.Domain]int,
	childAgeMonths int,
	assessmentCompletedAt *time.Time,
	now time.Time,
) MilestoneSummary {
	byID := make(map[string]models.Milestone, len(catalog))
	for _, m := range catalog {
		byID[m.ID] = m
	}

	fallback := now
	if assessmentCompletedAt != nil {
		fallback = *assessmentCompletedAt
	}

	seen := make(map[string]bool)
	var achieved []AchievedMilestone

	// Explicitly tracked achievements first; they override derivation.
	for _, record := range tracked {
		if record.Status != models.MilestoneAchieved {
			continue
		}
		milestone, ok := byID[record.MilestoneID]
		if !ok || seen[record.MilestoneID] {
			continue
		}
		seen[record.MilestoneID] = true

		achievedAt := fallback
		if record.AchievedAt != nil {
			achievedAt = *record.AchievedAt
		}
		achieved = append(achieved, AchievedMilestone{Milestone: milestone, AchievedAt: achievedAt})
	}

	if childAgeMonths > 0 {
		for _, milestone := range catalog {
			if milestone.AgeMonths > childAgeMonths || seen[milestone.ID] {
				continue
			}
			if domainScores[milestone.Domain] >= milestone.PercentileAchieved {
				seen[milestone.ID] = true
				achieved = append(achieved, AchievedMilestone{Milestone: milestone, AchievedAt: fallback})
			}
		}
	}

	sort.SliceStable(achieved, func(i, j int) bool {
		return achieved[i].AchievedAt.After(achieved[j].AchievedAt)
	})
	if len(achieved) > recentLimit {
		achieved = achieved[:recentLimit]
	}

	var upcoming []models.Milestone
	if childAgeMonths > 0 {
		for _, milestone := range catalog {
			if milestone.AgeMonths > childAgeMonths && !seen[milestone.ID] {
				upcoming = append(upcoming, milestone)
			}
		}
		sort.SliceStable(upcoming, func(i, j int) bool {
			return upcoming[i].AgeMonths < upcoming[j].AgeMonths
		})
		if len(upcoming) > upcomingLimit {
			upcoming = upcoming[:upcomingLimit]
		}
	}

	return MilestoneSummary{Recent: achieved, Upcoming: upcoming}
}
